package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cwygoda/mediagrabber/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS download_records (
    id            TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL,
    platform      TEXT NOT NULL,
    url           TEXT NOT NULL,
    media_type    TEXT NOT NULL,
    quality       TEXT NOT NULL DEFAULT 'standard',
    status        TEXT NOT NULL DEFAULT 'pending',
    filename      TEXT,
    file_path     TEXT,
    file_size     INTEGER,
    error_message TEXT,
    created_at    DATETIME NOT NULL,
    updated_at    DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_download_records_user ON download_records(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_download_records_created ON download_records(created_at);

CREATE TABLE IF NOT EXISTS subscriptions (
    user_id TEXT PRIMARY KEY,
    plan    TEXT NOT NULL DEFAULT 'free',
    status  TEXT NOT NULL DEFAULT 'active'
);
`

const recordColumns = `id, user_id, platform, url, media_type, quality, status,
	COALESCE(filename, ''), COALESCE(file_path, ''), COALESCE(file_size, 0),
	COALESCE(error_message, ''), created_at, updated_at`

// Repository implements domain.RecordStore and domain.PlanResolver
// using SQLite.
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository, initializing the schema if needed.
func New(dbPath string) (*Repository, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Create inserts a new download record.
func (r *Repository) Create(ctx context.Context, record *domain.DownloadRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO download_records
		 (id, user_id, platform, url, media_type, quality, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.UserID, record.Platform, record.URL,
		record.MediaType, record.Quality, record.Status,
		record.CreatedAt, record.UpdatedAt,
	)
	return err
}

// Get retrieves a record by ID.
func (r *Repository) Get(ctx context.Context, id string) (*domain.DownloadRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM download_records WHERE id = ?`, id)
	return scanRecord(row)
}

// ListByUser returns a user's records, most recent first.
func (r *Repository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.DownloadRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM download_records
		 WHERE user_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// Complete marks a pending record as completed with its file details.
// The pending guard makes the terminal transition happen at most once.
func (r *Repository) Complete(ctx context.Context, id, filename, filePath string, fileSize int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE download_records
		 SET status = ?, filename = ?, file_path = ?, file_size = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		domain.StatusCompleted, filename, filePath, fileSize, time.Now().UTC(),
		id, domain.StatusPending,
	)
	if err != nil {
		return err
	}
	return requireAffected(result, id)
}

// Fail marks a pending record as failed with an error message.
func (r *Repository) Fail(ctx context.Context, id, reason string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE download_records SET status = ?, error_message = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		domain.StatusFailed, reason, time.Now().UTC(), id, domain.StatusPending,
	)
	if err != nil {
		return err
	}
	return requireAffected(result, id)
}

// Delete removes a record. Deleting an absent record is a no-op, so a
// sweep racing a user delete cannot fail spuriously.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM download_records WHERE id = ?`, id)
	return err
}

// FindOlderThan returns all records created before the cutoff,
// regardless of status.
func (r *Repository) FindOlderThan(ctx context.Context, cutoff time.Time) ([]domain.DownloadRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM download_records WHERE created_at < ?`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// Pro reports whether the user has an active pro subscription.
func (r *Repository) Pro(ctx context.Context, userID string) (bool, error) {
	var plan string
	err := r.db.QueryRowContext(ctx,
		`SELECT plan FROM subscriptions WHERE user_id = ? AND status = 'active'`,
		userID,
	).Scan(&plan)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return plan == "pro", nil
}

// SetPlan upserts a user's subscription plan.
func (r *Repository) SetPlan(ctx context.Context, userID, plan, status string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subscriptions (user_id, plan, status) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET plan = excluded.plan, status = excluded.status`,
		userID, plan, status,
	)
	return err
}

func requireAffected(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("record %s is not pending: %w", id, domain.ErrRecordNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.DownloadRecord, error) {
	var record domain.DownloadRecord
	var platform, mediaType, status string
	err := row.Scan(&record.ID, &record.UserID, &platform, &record.URL,
		&mediaType, &record.Quality, &status, &record.Filename,
		&record.FilePath, &record.FileSize, &record.ErrorMessage,
		&record.CreatedAt, &record.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	record.Platform = domain.Platform(platform)
	record.MediaType = domain.MediaType(mediaType)
	record.Status = domain.Status(status)
	return &record, nil
}

func collectRecords(rows *sql.Rows) ([]domain.DownloadRecord, error) {
	var records []domain.DownloadRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}
