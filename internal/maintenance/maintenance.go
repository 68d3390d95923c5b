// Package maintenance runs periodic background housekeeping as Go tickers.
// All scheduled work is driven from Go since the engine is already a
// persistent, long-running service (required for LISTEN/NOTIFY).
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/hubgrove/hubgrove-engine/internal/db"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	CleanupInterval time.Duration // Purge stale delivery markers
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		CleanupInterval: 30 * time.Minute,
	}
}

// Start launches the maintenance tickers. Blocks until ctx is cancelled.
// Intended to be called with `go`.
func Start(ctx context.Context, pool *db.Pool, cfg Config, logger *slog.Logger) {
	if cfg.CleanupInterval <= 0 {
		logger.Info("Maintenance disabled")
		return
	}
	logger.Info("Maintenance ticker started", "cleanup", cfg.CleanupInterval)

	t := time.NewTicker(cfg.CleanupInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			cleanup(ctx, pool, logger)
		case <-ctx.Done():
			logger.Info("Maintenance ticker stopped")
			return
		}
	}
}

// cleanup strips dispatchedAt markers older than 30 days off notification
// records. Only the bookkeeping field goes; the records themselves stay,
// since they back the milestone dedupe lookup and the recipient's inbox.
func cleanup(ctx context.Context, pool *db.Pool, logger *slog.Logger) {
	tag, err := pool.Exec(ctx, `
		UPDATE notifications
		SET data = data - 'dispatchedAt'
		WHERE (data->>'dispatchedAt')::timestamptz < NOW() - INTERVAL '30 days'`)
	if err != nil {
		logger.Warn("Cleanup: failed to purge stale delivery markers", "error", err)
	} else if tag.RowsAffected() > 0 {
		logger.Info("Cleanup: purged stale delivery markers", "count", tag.RowsAffected())
	}
}
