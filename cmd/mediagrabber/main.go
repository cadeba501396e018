package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/cwygoda/mediagrabber/internal/adapter/fetcher"
	httpAdapter "github.com/cwygoda/mediagrabber/internal/adapter/http"
	"github.com/cwygoda/mediagrabber/internal/adapter/sqlite"
	"github.com/cwygoda/mediagrabber/internal/config"
	"github.com/cwygoda/mediagrabber/internal/domain"
	"github.com/cwygoda/mediagrabber/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	log.Printf("starting mediagrabber on %s", cfg.Addr())
	log.Printf("database: %s", cfg.DBPath)
	log.Printf("downloads dir: %s", cfg.DownloadsDir)

	if err := os.MkdirAll(cfg.DownloadsDir, 0755); err != nil {
		log.Fatalf("failed to create downloads directory: %v", err)
	}

	repo, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer repo.Close()

	fetcherCmds, err := config.LoadFetcherCommands(cfg.FetchersFile)
	if err != nil {
		log.Fatalf("failed to load fetcher commands: %v", err)
	}

	registry := fetcher.NewRegistry()
	registry.Register(fetcher.NewYouTubeFetcher(fetcherCmds.YouTube))
	registry.Register(fetcher.NewInstagramFetcher(fetcherCmds.Instagram, cfg.InstagramUsername, cfg.InstagramPassword))

	pool := worker.NewPool(cfg.Workers, cfg.QueueSize)

	svc := domain.NewService(repo, registry.Fetchers(), repo, pool, domain.Options{
		DownloadRoot: cfg.DownloadsDir,
		MaxFileSize:  cfg.MaxFileSizeBytes(),
		FetchTimeout: cfg.FetchTimeout,
	})

	sweeper := worker.NewSweeper(svc, cfg.SweepInterval, cfg.RetentionAge())

	srv := httpAdapter.NewServer(svc, cfg.Addr())

	// Graceful shutdown setup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		pool.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		sweeper.Run(ctx)
	}()

	go func() {
		log.Printf("HTTP server listening on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err.Error() != "http: Server closed" {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	sig := <-sigCh
	log.Printf("received signal %v, shutting down", sig)

	// Stop accepting requests before draining the pool.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	cancel()
	wg.Wait()

	log.Println("shutdown complete")
}
