package fetcher

import (
	"context"
	"fmt"

	"github.com/cwygoda/mediagrabber/internal/config"
	"github.com/cwygoda/mediagrabber/internal/domain"
)

const defaultInstagramCommand = "instaloader"

// InstagramFetcher downloads Instagram posts and reels by running
// instaloader. Story fetches need an authenticated session and are
// rejected upstream before a job is ever created.
type InstagramFetcher struct {
	command  string
	args     []string
	username string
	password string
}

// NewInstagramFetcher creates a fetcher with optional credentials and
// command override.
func NewInstagramFetcher(override config.FetcherCommand, username, password string) *InstagramFetcher {
	f := &InstagramFetcher{
		command:  defaultInstagramCommand,
		username: username,
		password: password,
	}
	if override.Command != "" {
		f.command = override.Command
	}
	f.args = override.Args
	return f
}

func (f *InstagramFetcher) Platform() domain.Platform {
	return domain.PlatformInstagram
}

// Fetch downloads the post into destDir and reports the primary file.
func (f *InstagramFetcher) Fetch(ctx context.Context, url string, format domain.FormatSpec, destDir string) (*domain.FetchResult, error) {
	shortcode, mediaType, err := domain.ClassifyInstagram(url)
	if err != nil {
		return nil, err
	}
	if mediaType == domain.MediaStory {
		return nil, domain.ErrStoriesNotSupported
	}

	if err := run(ctx, f.command, f.buildArgs(url, shortcode, format, destDir), destDir); err != nil {
		return nil, err
	}
	return primaryFile(destDir)
}

func (f *InstagramFetcher) buildArgs(url, shortcode string, format domain.FormatSpec, destDir string) []string {
	if len(f.args) > 0 {
		return expandArgs(f.args, url, format.Selector(), destDir)
	}

	args := []string{
		"--no-video-thumbnails",
		"--no-metadata-json",
		"--no-compress-json",
		"--no-captions",
		"--dirname-pattern", destDir,
	}
	if f.username != "" {
		args = append(args, "--login", f.username)
	}
	if f.password != "" {
		args = append(args, "--password", f.password)
	}
	// instaloader addresses a single post as -SHORTCODE after --.
	return append(args, "--", fmt.Sprintf("-%s", shortcode))
}
