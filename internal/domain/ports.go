package domain

import (
	"context"
	"time"
)

// RecordStore is the driven port for download record persistence.
type RecordStore interface {
	Create(ctx context.Context, record *DownloadRecord) error
	Get(ctx context.Context, id string) (*DownloadRecord, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]DownloadRecord, error)
	Complete(ctx context.Context, id, filename, filePath string, fileSize int64) error
	Fail(ctx context.Context, id, reason string) error
	Delete(ctx context.Context, id string) error
	FindOlderThan(ctx context.Context, cutoff time.Time) ([]DownloadRecord, error)
}

// FetchResult describes the primary artifact a fetcher produced.
type FetchResult struct {
	Filename string
	Size     int64
}

// MediaFetcher is the driven port for the actual media download. The
// fetcher writes into destDir and reports the primary file it produced.
type MediaFetcher interface {
	Platform() Platform
	Fetch(ctx context.Context, url string, format FormatSpec, destDir string) (*FetchResult, error)
}

// PlanResolver looks up a user's subscription plan.
type PlanResolver interface {
	// Pro reports whether the user holds an active pro subscription.
	Pro(ctx context.Context, userID string) (bool, error)
}

// Dispatcher schedules a unit of background work. Dispatch must not
// block; when no capacity remains it returns ErrQueueFull.
type Dispatcher interface {
	Dispatch(task func(ctx context.Context)) error
}
