// Command api is the Hubgrove engagement engine service.
//
// It runs the scheduled batch passes (hub popularity, post trending), the
// doc-created event listener feeding the push-notification dispatcher, the
// maintenance tickers, and a small HTTP surface for health checks and
// on-demand passes.
//
// Usage:
//
//	hubgrove-engine
//	API_PORT=8080 hubgrove-engine
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/hubgrove/hubgrove-engine/internal/api"
	"github.com/hubgrove/hubgrove-engine/internal/config"
	"github.com/hubgrove/hubgrove-engine/internal/db"
	"github.com/hubgrove/hubgrove-engine/internal/dispatch"
	"github.com/hubgrove/hubgrove-engine/internal/listener"
	"github.com/hubgrove/hubgrove-engine/internal/maintenance"
	"github.com/hubgrove/hubgrove-engine/internal/push"
	"github.com/hubgrove/hubgrove-engine/internal/scheduler"
	"github.com/hubgrove/hubgrove-engine/internal/scoring"
	"github.com/hubgrove/hubgrove-engine/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	documents := store.New(pool)
	runner := scoring.NewRunner(documents, logger)

	// Push sender (nil-safe no-op when FCM is not configured)
	sender := push.NewFCMSender(cfg.FCMServerKey, logger)
	if sender == nil {
		logger.Info("Push delivery disabled (no FCM_SERVER_KEY)")
	}
	dispatcher := dispatch.New(documents, sender, logger)

	// Start doc-created event listener for notification dispatch
	go listener.Start(ctx, cfg.DatabaseURL, documents, dispatcher, logger)

	// Start scheduled batch passes
	go scheduler.Start(ctx, runner, scheduler.Config{
		HubInterval:  cfg.HubScoreInterval,
		PostInterval: cfg.PostScoreInterval,
	}, logger)

	// Start maintenance tickers
	go maintenance.Start(ctx, pool, maintenance.Config{
		CleanupInterval: cfg.CleanupInterval,
	}, logger)

	// Create router
	router := api.NewRouter(pool, runner, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Hubgrove engagement engine",
			"addr", addr,
			"environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
