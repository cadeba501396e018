package worker

import (
	"context"
	"log"
	"sync"

	"github.com/cwygoda/mediagrabber/internal/domain"
)

// Pool runs background tasks on a fixed number of goroutines fed by a
// bounded queue. A full queue rejects new work instead of blocking, so
// callers can surface backpressure.
type Pool struct {
	tasks   chan func(ctx context.Context)
	workers int
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewPool creates a pool with the given worker count and queue capacity.
func NewPool(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		tasks:   make(chan func(ctx context.Context), queueSize),
		workers: workers,
	}
}

// Dispatch enqueues a task for background execution. It never blocks;
// a full queue or a stopped pool yields ErrQueueFull.
func (p *Pool) Dispatch(task func(ctx context.Context)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return domain.ErrQueueFull
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// Run starts the workers and blocks until the context is cancelled and
// all queued tasks have drained. Tasks receive a background context so
// in-flight work finishes rather than being cut off mid-download.
func (p *Pool) Run(ctx context.Context) {
	log.Printf("worker pool started with %d workers", p.workers)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				task(context.Background())
			}
		}()
	}

	<-ctx.Done()

	p.mu.Lock()
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	log.Println("worker pool drained")
}
