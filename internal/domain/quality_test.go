package domain

import (
	"errors"
	"testing"
)

func TestResolveFormat_Video(t *testing.T) {
	tests := []struct {
		name       string
		quality    string
		pro        bool
		wantHeight int
		wantErr    error
	}{
		{
			name:       "free 1080p allowed",
			quality:    "1080p",
			pro:        false,
			wantHeight: 1080,
		},
		{
			name:       "free 720p allowed",
			quality:    "720p",
			pro:        false,
			wantHeight: 720,
		},
		{
			name:       "free 480p allowed",
			quality:    "480p",
			pro:        false,
			wantHeight: 480,
		},
		{
			name:    "free 4K denied",
			quality: "4K",
			pro:     false,
			wantErr: ErrQualityForbidden,
		},
		{
			name:    "free 1440p denied",
			quality: "1440p",
			pro:     false,
			wantErr: ErrQualityForbidden,
		},
		{
			name:       "pro 4K capped at 2160",
			quality:    "4K",
			pro:        true,
			wantHeight: 2160,
		},
		{
			name:       "pro 1440p allowed",
			quality:    "1440p",
			pro:        true,
			wantHeight: 1440,
		},
		{
			name:       "unknown label falls back to 480p",
			quality:    "ultra",
			pro:        false,
			wantHeight: 480,
		},
		{
			name:       "standard falls back to 480p",
			quality:    "standard",
			pro:        true,
			wantHeight: 480,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ResolveFormat(MediaVideo, tt.quality, tt.pro)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ResolveFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if spec.Kind != FormatVideo {
				t.Errorf("Kind = %q, want %q", spec.Kind, FormatVideo)
			}
			if spec.MaxHeight != tt.wantHeight {
				t.Errorf("MaxHeight = %d, want %d", spec.MaxHeight, tt.wantHeight)
			}
		})
	}
}

func TestResolveFormat_Audio(t *testing.T) {
	tests := []struct {
		name        string
		quality     string
		pro         bool
		wantBitrate int
		wantErr     error
	}{
		{
			name:        "free 128kbps allowed",
			quality:     "128kbps",
			pro:         false,
			wantBitrate: 128,
		},
		{
			name:    "free 320kbps denied",
			quality: "320kbps",
			pro:     false,
			wantErr: ErrQualityForbidden,
		},
		{
			name:    "free 256kbps denied",
			quality: "256kbps",
			pro:     false,
			wantErr: ErrQualityForbidden,
		},
		{
			name:        "pro 320kbps capped at 320",
			quality:     "320kbps",
			pro:         true,
			wantBitrate: 320,
		},
		{
			name:        "pro 256kbps allowed",
			quality:     "256kbps",
			pro:         true,
			wantBitrate: 256,
		},
		{
			name:        "unknown label falls back to 128kbps",
			quality:     "lossless",
			pro:         false,
			wantBitrate: 128,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ResolveFormat(MediaAudio, tt.quality, tt.pro)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ResolveFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if spec.Kind != FormatAudio {
				t.Errorf("Kind = %q, want %q", spec.Kind, FormatAudio)
			}
			if spec.MaxBitrate != tt.wantBitrate {
				t.Errorf("MaxBitrate = %d, want %d", spec.MaxBitrate, tt.wantBitrate)
			}
		})
	}
}

func TestResolveFormat_Instagram(t *testing.T) {
	for _, mediaType := range []MediaType{MediaPost, MediaReel} {
		spec, err := ResolveFormat(mediaType, "standard", false)
		if err != nil {
			t.Fatalf("ResolveFormat(%s) error = %v", mediaType, err)
		}
		if spec.Kind != FormatOriginal {
			t.Errorf("Kind = %q, want %q", spec.Kind, FormatOriginal)
		}
	}
}

func TestResolveFormat_Deterministic(t *testing.T) {
	inputs := []struct {
		mediaType MediaType
		quality   string
		pro       bool
	}{
		{MediaVideo, "4K", true},
		{MediaVideo, "4K", false},
		{MediaVideo, "ultra", false},
		{MediaAudio, "320kbps", true},
		{MediaAudio, "320kbps", false},
		{MediaPost, "", false},
	}

	for _, in := range inputs {
		first, firstErr := ResolveFormat(in.mediaType, in.quality, in.pro)
		for i := 0; i < 10; i++ {
			got, err := ResolveFormat(in.mediaType, in.quality, in.pro)
			if got != first || (err == nil) != (firstErr == nil) {
				t.Fatalf("ResolveFormat(%s, %q, %v) not deterministic: %v/%v vs %v/%v",
					in.mediaType, in.quality, in.pro, got, err, first, firstErr)
			}
		}
	}
}

func TestFormatSpec_Selector(t *testing.T) {
	tests := []struct {
		name string
		spec FormatSpec
		want string
	}{
		{
			name: "video selector",
			spec: FormatSpec{Kind: FormatVideo, MaxHeight: 1080},
			want: "bestvideo[height<=1080]+bestaudio/best[height<=1080]",
		},
		{
			name: "audio selector",
			spec: FormatSpec{Kind: FormatAudio, MaxBitrate: 128},
			want: "bestaudio[abr<=128]/bestaudio",
		},
		{
			name: "original selector",
			spec: FormatSpec{Kind: FormatOriginal},
			want: "best",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.Selector(); got != tt.want {
				t.Errorf("Selector() = %q, want %q", got, tt.want)
			}
		})
	}
}
