package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const readinessTimeout = 2 * time.Second

// HealthHandler reports process liveness and dependency readiness.
type HealthHandler struct {
	pool        *pgxpool.Pool
	redisClient *redis.Client
	started     time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(pool *pgxpool.Pool, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		pool:        pool,
		redisClient: redisClient,
		started:     time.Now(),
	}
}

// Liveness returns 200 as long as the process is serving requests.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(h.started).Truncate(time.Second).String(),
	})
}

// Readiness returns 200 only when both PostgreSQL and Redis respond to pings.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	deps := map[string]string{}

	if err := h.pool.Ping(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "postgres_unavailable", err.Error())
		return
	}
	deps["postgres"] = "ok"

	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		writeError(w, http.StatusServiceUnavailable, "redis_unavailable", err.Error())
		return
	}
	deps["redis"] = "ok"

	deps["status"] = "ready"
	writeJSON(w, http.StatusOK, deps)
}
