package fetcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cwygoda/mediagrabber/internal/domain"
)

// run executes the fetch command, returning its combined output on error.
func run(ctx context.Context, command string, args []string, dir string) error {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w: %s", command, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// expandArgs substitutes the {url}, {format} and {dir} placeholders in a
// configured argument template.
func expandArgs(template []string, url, format, dir string) []string {
	args := make([]string, len(template))
	for i, arg := range template {
		arg = strings.ReplaceAll(arg, "{url}", url)
		arg = strings.ReplaceAll(arg, "{format}", format)
		arg = strings.ReplaceAll(arg, "{dir}", dir)
		args[i] = arg
	}
	return args
}

// primaryFile picks the primary artifact in the job directory: the
// largest regular file, since extractors may emit thumbnails or
// sidecar files next to the media itself.
func primaryFile(dir string) (*domain.FetchResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read job directory: %w", err)
	}

	var best *domain.FetchResult
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if best == nil || info.Size() > best.Size {
			best = &domain.FetchResult{Filename: entry.Name(), Size: info.Size()}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no files were downloaded to %s", filepath.Base(dir))
	}
	return best, nil
}
