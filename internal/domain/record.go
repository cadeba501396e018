package domain

import "time"

// Status represents the lifecycle state of a download record.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Platform identifies the source site of a download.
type Platform string

const (
	PlatformYouTube   Platform = "YouTube"
	PlatformInstagram Platform = "Instagram"
)

// MediaType identifies what kind of media a record refers to.
// YouTube records use video/audio; Instagram records use post/reel/story.
type MediaType string

const (
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
	MediaPost  MediaType = "post"
	MediaReel  MediaType = "reel"
	MediaStory MediaType = "story"
)

// ValidFor reports whether the media type is accepted for the platform.
func (m MediaType) ValidFor(p Platform) bool {
	switch p {
	case PlatformYouTube:
		return m == MediaVideo || m == MediaAudio
	case PlatformInstagram:
		return m == MediaPost || m == MediaReel || m == MediaStory
	}
	return false
}

// DownloadRecord tracks one user-initiated media download.
// Completion fields (Filename, FilePath, FileSize) are set only when
// Status is completed; ErrorMessage only when failed.
type DownloadRecord struct {
	ID           string
	UserID       string
	Platform     Platform
	URL          string
	MediaType    MediaType
	Quality      string
	Status       Status
	Filename     string
	FilePath     string
	FileSize     int64
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Terminal reports whether the record has reached a final state.
func (r *DownloadRecord) Terminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}
