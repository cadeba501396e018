package domain

import "fmt"

// FormatKind distinguishes the two selector families a fetcher understands.
type FormatKind string

const (
	FormatVideo    FormatKind = "video"
	FormatAudio    FormatKind = "audio"
	FormatOriginal FormatKind = "original"
)

// FormatSpec is a resolved, concrete description of the desired media
// format, passed verbatim to the fetcher.
type FormatSpec struct {
	Kind       FormatKind
	MaxHeight  int // pixels, video only
	MaxBitrate int // kbps, audio only
}

// Selector returns the format selector string in yt-dlp syntax.
func (f FormatSpec) Selector() string {
	switch f.Kind {
	case FormatVideo:
		return fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]", f.MaxHeight, f.MaxHeight)
	case FormatAudio:
		return fmt.Sprintf("bestaudio[abr<=%d]/bestaudio", f.MaxBitrate)
	default:
		return "best"
	}
}

// Video tiers available per plan. Free callers are capped at 1080p and
// 128kbps; pro unlocks 4K/1440p video and 256/320kbps audio.
var videoHeights = map[string]int{
	"4K":    2160,
	"1440p": 1440,
	"1080p": 1080,
	"720p":  720,
	"480p":  480,
}

var audioBitrates = map[string]int{
	"320kbps": 320,
	"256kbps": 256,
	"128kbps": 128,
}

const (
	fallbackHeight  = 480
	fallbackBitrate = 128
)

// ResolveFormat maps a requested quality label to a concrete FormatSpec,
// enforcing plan entitlements. Unrecognized labels fall back to the lowest
// tier rather than erroring. Pure: no I/O, identical inputs yield
// identical results.
func ResolveFormat(mediaType MediaType, quality string, pro bool) (FormatSpec, error) {
	switch mediaType {
	case MediaVideo:
		height, ok := videoHeights[quality]
		if !ok {
			return FormatSpec{Kind: FormatVideo, MaxHeight: fallbackHeight}, nil
		}
		if height > 1080 && !pro {
			return FormatSpec{}, fmt.Errorf("%w: %s video requires pro subscription", ErrQualityForbidden, quality)
		}
		return FormatSpec{Kind: FormatVideo, MaxHeight: height}, nil
	case MediaAudio:
		bitrate, ok := audioBitrates[quality]
		if !ok {
			return FormatSpec{Kind: FormatAudio, MaxBitrate: fallbackBitrate}, nil
		}
		if bitrate > 128 && !pro {
			return FormatSpec{}, fmt.Errorf("%w: %s audio requires pro subscription", ErrQualityForbidden, quality)
		}
		return FormatSpec{Kind: FormatAudio, MaxBitrate: bitrate}, nil
	default:
		// Instagram posts and reels are fetched at original quality;
		// no tier gating applies.
		return FormatSpec{Kind: FormatOriginal}, nil
	}
}
