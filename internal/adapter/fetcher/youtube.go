package fetcher

import (
	"context"
	"path/filepath"

	"github.com/cwygoda/mediagrabber/internal/config"
	"github.com/cwygoda/mediagrabber/internal/domain"
)

const defaultYouTubeCommand = "yt-dlp"

// YouTubeFetcher downloads YouTube media by running yt-dlp.
type YouTubeFetcher struct {
	command string
	args    []string
}

// NewYouTubeFetcher creates a fetcher, applying any configured command
// override. An empty override keeps the built-in yt-dlp invocation.
func NewYouTubeFetcher(override config.FetcherCommand) *YouTubeFetcher {
	f := &YouTubeFetcher{command: defaultYouTubeCommand}
	if override.Command != "" {
		f.command = override.Command
	}
	f.args = override.Args
	return f
}

func (f *YouTubeFetcher) Platform() domain.Platform {
	return domain.PlatformYouTube
}

// Fetch downloads the media into destDir and reports the primary file.
func (f *YouTubeFetcher) Fetch(ctx context.Context, url string, format domain.FormatSpec, destDir string) (*domain.FetchResult, error) {
	if err := run(ctx, f.command, f.buildArgs(url, format, destDir), destDir); err != nil {
		return nil, err
	}
	return primaryFile(destDir)
}

func (f *YouTubeFetcher) buildArgs(url string, format domain.FormatSpec, destDir string) []string {
	if len(f.args) > 0 {
		return expandArgs(f.args, url, format.Selector(), destDir)
	}

	args := []string{
		"-f", format.Selector(),
		"--no-playlist",
		"-o", filepath.Join(destDir, "%(title)s.%(ext)s"),
	}
	if format.Kind == domain.FormatAudio {
		args = append(args, "-x", "--audio-format", "mp3")
	}
	return append(args, url)
}
