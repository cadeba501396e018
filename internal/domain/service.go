package domain

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

var (
	ErrInvalidURL          = errors.New("invalid URL")
	ErrInvalidMediaType    = errors.New("invalid media type")
	ErrRecordNotFound      = errors.New("download not found")
	ErrQualityForbidden    = errors.New("quality not allowed")
	ErrStoriesNotSupported = errors.New("story downloads require Instagram authentication")
	ErrNotReady            = errors.New("download not completed")
	ErrQueueFull           = errors.New("download queue full")
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
	defaultQuality   = "standard"
)

// Options carries the service's operational limits.
type Options struct {
	DownloadRoot string
	MaxFileSize  int64 // bytes; 0 disables enforcement
	FetchTimeout time.Duration
}

// Service orchestrates the download job lifecycle: it validates and
// gates submissions, tracks each job as a record, runs fetches in the
// background, and keeps record and filesystem state paired.
type Service struct {
	store    RecordStore
	fetchers map[Platform]MediaFetcher
	plans    PlanResolver
	pool     Dispatcher
	opts     Options
}

// NewService creates a new download Service.
func NewService(store RecordStore, fetchers map[Platform]MediaFetcher, plans PlanResolver, pool Dispatcher, opts Options) *Service {
	return &Service{
		store:    store,
		fetchers: fetchers,
		plans:    plans,
		pool:     pool,
		opts:     opts,
	}
}

// SubmitRequest describes an incoming download request.
type SubmitRequest struct {
	UserID    string
	Platform  Platform
	URL       string
	MediaType MediaType
	Quality   string
}

// Submit validates the request, applies quality gating, creates a
// pending record, and schedules the fetch. It returns as soon as the
// record is durable; the caller never waits on the fetch itself.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*DownloadRecord, error) {
	mediaType := req.MediaType
	switch req.Platform {
	case PlatformYouTube:
		if mediaType == "" {
			mediaType = MediaVideo
		}
		if _, err := ClassifyYouTube(req.URL); err != nil {
			return nil, err
		}
	case PlatformInstagram:
		_, urlType, err := ClassifyInstagram(req.URL)
		if err != nil {
			return nil, err
		}
		// The URL form is authoritative for Instagram media types.
		mediaType = urlType
		if mediaType == MediaStory {
			return nil, ErrStoriesNotSupported
		}
	default:
		return nil, fmt.Errorf("%w: unsupported platform %q", ErrInvalidURL, req.Platform)
	}

	if !mediaType.ValidFor(req.Platform) {
		return nil, fmt.Errorf("%w: %q for %s", ErrInvalidMediaType, mediaType, req.Platform)
	}

	quality := req.Quality
	if quality == "" {
		quality = defaultQuality
	}

	// Plan lookup is fail-open: an unreachable resolver degrades the
	// caller to the free tier rather than blocking the request.
	pro, err := s.plans.Pro(ctx, req.UserID)
	if err != nil {
		log.Printf("plan lookup for %s failed, assuming free: %v", req.UserID, err)
		pro = false
	}

	format, err := ResolveFormat(mediaType, quality, pro)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := &DownloadRecord{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Platform:  req.Platform,
		URL:       req.URL,
		MediaType: mediaType,
		Quality:   quality,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The record must be durable before any download work begins; an
	// orphaned download without a tracking record is never acceptable.
	if err := s.store.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}

	fetcher := s.fetchers[req.Platform]
	if err := s.pool.Dispatch(func(ctx context.Context) {
		s.execute(ctx, record.ID, record.UserID, record.URL, fetcher, format)
	}); err != nil {
		s.failRecord(record.ID, err.Error())
		return nil, ErrQueueFull
	}

	log.Printf("job %s: accepted %s %s for user %s", record.ID, record.Platform, mediaType, record.UserID)
	return record, nil
}

// execute runs the fetch for one job and applies exactly one terminal
// update. Partial files on failure are left for the retention sweep.
func (s *Service) execute(ctx context.Context, id, userID, url string, fetcher MediaFetcher, format FormatSpec) {
	if fetcher == nil {
		s.failRecord(id, "no fetcher registered for platform")
		return
	}

	destDir := filepath.Join(s.opts.DownloadRoot, userID, id)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		s.failRecord(id, fmt.Sprintf("create job directory: %v", err))
		return
	}

	if s.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.FetchTimeout)
		defer cancel()
	}

	result, err := fetcher.Fetch(ctx, url, format, destDir)
	if err != nil {
		log.Printf("job %s: fetch failed: %v", id, err)
		s.failRecord(id, err.Error())
		return
	}

	if s.opts.MaxFileSize > 0 && result.Size > s.opts.MaxFileSize {
		os.Remove(filepath.Join(destDir, result.Filename))
		s.failRecord(id, fmt.Sprintf("file size %s exceeds limit of %s",
			humanize.Bytes(uint64(result.Size)), humanize.Bytes(uint64(s.opts.MaxFileSize))))
		return
	}

	relPath := filepath.Join(userID, id, result.Filename)
	// Terminal updates run on a fresh context: the fetch context may
	// already be expired, and the outcome must still be recorded.
	updateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.store.Complete(updateCtx, id, result.Filename, relPath, result.Size); err != nil {
		// A stuck pending record is the accepted failure mode here;
		// the caller sees it as status unknown.
		log.Printf("job %s: completion update failed: %v", id, err)
		return
	}

	log.Printf("job %s: completed %s (%s)", id, result.Filename, humanize.Bytes(uint64(result.Size)))
}

func (s *Service) failRecord(id, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.store.Fail(ctx, id, reason); err != nil {
		log.Printf("job %s: failure update failed: %v", id, err)
	}
}

// Get retrieves a record by ID.
func (s *Service) Get(ctx context.Context, id string) (*DownloadRecord, error) {
	return s.store.Get(ctx, id)
}

// List returns a user's records, most recent first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]DownloadRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListByUser(ctx, userID, limit, offset)
}

// OpenFile opens the completed download for streaming. The caller must
// own the record; a non-owner gets ErrRecordNotFound, never the file.
func (s *Service) OpenFile(ctx context.Context, id, userID string) (*os.File, *DownloadRecord, error) {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if record.UserID != userID {
		return nil, nil, ErrRecordNotFound
	}
	if record.Status != StatusCompleted {
		return nil, nil, ErrNotReady
	}

	f, err := os.Open(filepath.Join(s.opts.DownloadRoot, record.FilePath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: file missing from disk", ErrRecordNotFound)
		}
		return nil, nil, fmt.Errorf("open file: %w", err)
	}
	return f, record, nil
}

// Delete removes a record and its file. The file goes first so that a
// crash mid-delete leaves the record behind as the recovery anchor.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if record.UserID != userID {
		return ErrRecordNotFound
	}

	s.removeArtifacts(record)
	return s.store.Delete(ctx, id)
}

// Sweep deletes all records older than maxAge along with their files.
// Per-record failures are logged and skipped so one bad record cannot
// block cleanup of the rest. Returns the number of records removed.
func (s *Service) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	records, err := s.store.FindOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("find expired records: %w", err)
	}

	removed := 0
	for i := range records {
		record := &records[i]
		s.removeArtifacts(record)
		if err := s.store.Delete(ctx, record.ID); err != nil {
			log.Printf("sweep: delete record %s failed: %v", record.ID, err)
			continue
		}
		removed++
	}
	return removed, nil
}

// removeArtifacts deletes the record's job directory and everything in
// it. All on-disk state for a job lives under <root>/<userID>/<jobID>,
// so this also reclaims partial files from failed fetches, which never
// get a FilePath. A directory that was never created is tolerated.
func (s *Service) removeArtifacts(record *DownloadRecord) {
	dir := filepath.Join(s.opts.DownloadRoot, record.UserID, record.ID)
	if err := os.RemoveAll(dir); err != nil {
		log.Printf("job %s: remove artifacts: %v", record.ID, err)
	}
}
