// Package scheduler drives the batch passes on fixed wall-clock intervals:
// hub popularity every 24 hours and post trending every 8 hours by default.
// A pass that fails is logged and never blocks future runs.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hubgrove/hubgrove-engine/internal/scoring"
)

// Config controls pass intervals. Zero duration disables a pass.
type Config struct {
	HubInterval  time.Duration
	PostInterval time.Duration
}

// DefaultConfig returns the production cadence.
func DefaultConfig() Config {
	return Config{
		HubInterval:  24 * time.Hour,
		PostInterval: 8 * time.Hour,
	}
}

// Start schedules the batch passes and blocks until ctx is cancelled.
// Intended to be called with `go`.
func Start(ctx context.Context, runner *scoring.Runner, cfg Config, logger *slog.Logger) {
	c := cron.New()

	if cfg.HubInterval > 0 {
		c.Schedule(cron.Every(cfg.HubInterval), cron.FuncJob(func() {
			if _, err := runner.RunHubPopularity(ctx); err != nil {
				logger.Error("hub popularity pass failed", "error", err)
			}
		}))
	}
	if cfg.PostInterval > 0 {
		c.Schedule(cron.Every(cfg.PostInterval), cron.FuncJob(func() {
			if _, err := runner.RunPostTrending(ctx); err != nil {
				logger.Error("post trending pass failed", "error", err)
			}
		}))
	}

	logger.Info("Batch pass scheduler started",
		"hub_interval", cfg.HubInterval, "post_interval", cfg.PostInterval)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info("Batch pass scheduler stopped")
}
