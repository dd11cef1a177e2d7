// Package handler provides HTTP handlers for all API endpoints.
// Handlers read the store directly (no service layer) and serve read
// endpoints through the in-memory cache with ETags.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/caps-edge/internal/api/respond"
	"github.com/albapepper/caps-edge/internal/cache"
	"github.com/albapepper/caps-edge/internal/config"
	"github.com/albapepper/caps-edge/internal/refresh"
	"github.com/albapepper/caps-edge/internal/store"
)

// Refresher runs a refresh cycle unless one is already in progress.
// *refresh.Runner implements it.
type Refresher interface {
	TryRun(ctx context.Context) (refresh.Result, error)
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	store   store.Store
	cache   *cache.Cache
	cfg     *config.Config
	runner  Refresher
	logger  *slog.Logger
	version string
}

// New creates a Handler with shared dependencies. runner may be nil, which
// disables the refresh endpoint.
func New(st store.Store, c *cache.Cache, cfg *config.Config, runner Refresher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:   st,
		cache:   c,
		cfg:     cfg,
		runner:  runner,
		logger:  logger,
		version: "1.0.0",
	}
}

// serveCached writes the cached body for key, or builds, caches and writes
// it. build returns false after writing its own error response.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, build func() (interface{}, bool)) {
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	v, ok := build()
	if !ok {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("Encode response", "key", key, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Failed to encode response")
		return
	}

	etag := h.cache.Set(key, data, ttl)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, ttl, false)
}

// lastUpdated reads the snapshot timestamp, logging rather than failing.
func (h *Handler) lastUpdated(ctx context.Context) *time.Time {
	ts, err := h.store.LastUpdated(ctx)
	if err != nil {
		h.logger.Warn("Read last_updated", "error", err)
		return nil
	}
	return ts
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, tracked team and endpoints.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Caps Edge API",
		"version": h.version,
		"status":  "running",
		"team":    h.cfg.Team,
		"docs":    "/docs/",
		"endpoints": []string{
			"/health",
			"/api/v1/players",
			"/api/v1/players/{playerID}",
			"/api/v1/position-averages",
			"/api/v1/refresh",
		},
	})
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status      string     `json:"status"`
	LastUpdated *time.Time `json:"last_updated"`
	PlayerCount int        `json:"player_count"`
}

// HealthCheck returns health status with the snapshot age and size.
// @Summary Health check
// @Description Returns status, the last refresh time and the number of stored skaters.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.CountPlayers(r.Context())
	if err != nil {
		h.logger.Warn("Health check failed", "error", err)
		respond.WriteError(w, http.StatusServiceUnavailable, "UNHEALTHY", "Store unavailable")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, HealthResponse{
		Status:      "healthy",
		LastUpdated: h.lastUpdated(r.Context()),
		PlayerCount: n,
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies store connectivity (Postgres or SQLite).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	backend := "sqlite"
	if h.cfg.UsePostgres() {
		backend = "postgres"
	}
	if err := h.store.Ping(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"backend":   backend,
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"backend":   backend,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (keys, hits, misses, invalidations).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
