// Package handler provides HTTP handlers for the engine's small surface:
// health checks and on-demand batch passes. Scoring itself is scheduled;
// the admin endpoints exist for operational reruns and backfills.
package handler

import (
	"net/http"
	"time"

	"github.com/hubgrove/hubgrove-engine/internal/api/respond"
	"github.com/hubgrove/hubgrove-engine/internal/db"
	"github.com/hubgrove/hubgrove-engine/internal/scoring"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool   *db.Pool
	runner *scoring.Runner
}

// New creates a Handler with shared dependencies.
func New(pool *db.Pool, runner *scoring.Runner) *Handler {
	return &Handler{pool: pool, runner: runner}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Hubgrove Engagement Engine",
		"version": "1.0.0",
		"status":  "running",
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ScoreHubs runs the hub popularity pass on demand.
func (h *Handler) ScoreHubs(w http.ResponseWriter, r *http.Request) {
	result, err := h.runner.RunHubPopularity(r.Context())
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "PASS_FAILED", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, result)
}

// ScorePosts runs the post trending pass on demand.
func (h *Handler) ScorePosts(w http.ResponseWriter, r *http.Request) {
	result, err := h.runner.RunPostTrending(r.Context())
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "PASS_FAILED", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, result)
}
