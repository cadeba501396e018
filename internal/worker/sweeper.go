package worker

import (
	"context"
	"log"
	"time"
)

// RetentionService is the slice of the download service the sweeper needs.
type RetentionService interface {
	Sweep(ctx context.Context, maxAge time.Duration) (int, error)
}

// Sweeper periodically deletes records and files older than the
// retention window.
type Sweeper struct {
	svc      RetentionService
	interval time.Duration
	maxAge   time.Duration
}

// NewSweeper creates a sweeper that runs every interval, removing
// records older than maxAge.
func NewSweeper(svc RetentionService, interval, maxAge time.Duration) *Sweeper {
	return &Sweeper{svc: svc, interval: interval, maxAge: maxAge}
}

// Run sweeps once immediately, then on every tick until the context is
// cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	log.Printf("retention sweeper started, every %s, max age %s", s.interval, s.maxAge)
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("retention sweeper shutting down")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	removed, err := s.svc.Sweep(ctx, s.maxAge)
	if err != nil {
		log.Printf("sweep error: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("sweep removed %d expired downloads", removed)
	}
}
