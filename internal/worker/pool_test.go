package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cwygoda/mediagrabber/internal/domain"
)

func TestPool_DispatchRuns(t *testing.T) {
	pool := NewPool(2, 4)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		pool.Run(ctx)
		close(done)
	}()

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		if err := pool.Dispatch(func(ctx context.Context) {
			defer wg.Done()
			ran.Add(1)
		}); err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}
	}
	wg.Wait()

	if got := ran.Load(); got != 4 {
		t.Errorf("ran = %d, want 4", got)
	}

	cancel()
	<-done
}

func TestPool_BackpressureWhenFull(t *testing.T) {
	// Pool not running: the queue fills and must reject, not block.
	pool := NewPool(1, 2)

	task := func(ctx context.Context) {}
	if err := pool.Dispatch(task); err != nil {
		t.Fatalf("Dispatch() 1 error = %v", err)
	}
	if err := pool.Dispatch(task); err != nil {
		t.Fatalf("Dispatch() 2 error = %v", err)
	}
	if err := pool.Dispatch(task); !errors.Is(err, domain.ErrQueueFull) {
		t.Fatalf("Dispatch() on full queue error = %v, want %v", err, domain.ErrQueueFull)
	}
}

func TestPool_DrainsQueueOnShutdown(t *testing.T) {
	pool := NewPool(1, 8)

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		if err := pool.Dispatch(func(ctx context.Context) {
			ran.Add(1)
		}); err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}
	}

	// Cancel before Run: the pool must still drain everything queued.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		pool.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not drain within timeout")
	}

	if got := ran.Load(); got != 5 {
		t.Errorf("ran = %d, want 5 after drain", got)
	}
}

func TestPool_RejectsAfterShutdown(t *testing.T) {
	pool := NewPool(1, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		pool.Run(ctx)
		close(done)
	}()
	<-done

	if err := pool.Dispatch(func(ctx context.Context) {}); !errors.Is(err, domain.ErrQueueFull) {
		t.Errorf("Dispatch() after shutdown error = %v, want %v", err, domain.ErrQueueFull)
	}
}
