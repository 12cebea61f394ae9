package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/brandsnobs/deals-backend/internal/config"
	"github.com/brandsnobs/deals-backend/internal/fetcher"
	"github.com/brandsnobs/deals-backend/internal/normalize"
	"github.com/brandsnobs/deals-backend/internal/pipeline"
	"github.com/brandsnobs/deals-backend/internal/provider"
	"github.com/brandsnobs/deals-backend/internal/scheduler"
	"github.com/brandsnobs/deals-backend/internal/server"
	"github.com/brandsnobs/deals-backend/internal/storage"
)

func main() {
	slog.Info("Starting brand deals backend...")

	// .env is optional; deployed environments inject real env vars.
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded environment from .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Critical error loading configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One store handle for the whole process, threaded through every
	// component that needs it.
	store, err := storage.New(ctx, cfg.ProjectID)
	if err != nil {
		slog.Error("Critical error initializing Firestore client", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	normalizer := normalize.New(cfg.AssumedDiscount, cfg.MinDiscount, cfg.MaxPerBrand, cfg.MinPrice, cfg.MaxPrice)
	orchestrator := fetcher.New(provider.New(cfg), normalizer, cfg.BatchSize, cfg.BatchDelay)
	controller := pipeline.New(store, orchestrator, cfg)

	// Scheduled runs: once at startup, then every interval.
	go func() {
		if err := scheduler.New(controller, cfg.FetchInterval).Start(ctx); err != nil && ctx.Err() == nil {
			slog.Error("Scheduler exited unexpectedly", "error", err)
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server.New(controller, store).Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		sig := <-sigCh
		slog.Info("Received signal, shutting down gracefully...", "signal", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}
	}()

	slog.Info("Listening on port", "port", cfg.Port, "fetchInterval", cfg.FetchInterval)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Failed to listen and serve", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped.")
}
