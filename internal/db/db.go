// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hubgrove/hubgrove-engine/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers every document operation the engine
// uses. Statement names follow op_collection so the store layer can address
// them uniformly.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Full-collection scans (batch snapshot loader)
		"scan_hubs":  "SELECT id, data FROM hubs ORDER BY id",
		"scan_users": "SELECT id, data FROM users ORDER BY id",
		"scan_posts": "SELECT id, data FROM posts ORDER BY id",

		// Point lookups (dispatcher resolution)
		"get_hubs":          "SELECT data FROM hubs WHERE id = $1",
		"get_users":         "SELECT data FROM users WHERE id = $1",
		"get_posts":         "SELECT data FROM posts WHERE id = $1",
		"get_chats":         "SELECT data FROM chats WHERE id = $1",
		"get_notifications": "SELECT data FROM notifications WHERE id = $1",
		"get_chat_messages": "SELECT data FROM chat_messages WHERE chat_id = $1 AND id = $2",

		// Partial-field updates (score write-back, delivery marker; named
		// fields only)
		"merge_hubs":          "UPDATE hubs SET data = data || $2 WHERE id = $1",
		"merge_posts":         "UPDATE posts SET data = data || $2 WHERE id = $1",
		"merge_notifications": "UPDATE notifications SET data = data || $2 WHERE id = $1",

		// Milestone notification records
		"insert_notifications": "INSERT INTO notifications (id, data) VALUES ($1, $2)",
		"exists_notifications": "SELECT 1 FROM notifications WHERE data @> $1 LIMIT 1",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
