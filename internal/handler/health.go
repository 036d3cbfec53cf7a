package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const readinessTimeout = 3 * time.Second

// dependency is one backing service probed by the readiness check. A nil
// ping means the dependency is not configured.
type dependency struct {
	name string
	ping func(ctx context.Context) error
}

type HealthHandler struct {
	deps    []dependency
	startAt time.Time
}

// NewHealthHandler probes Postgres and Redis. Either may be nil when the
// service runs without it.
func NewHealthHandler(pool *pgxpool.Pool, rdb *redis.Client) *HealthHandler {
	db := dependency{name: "database"}
	if pool != nil {
		db.ping = pool.Ping
	}
	cache := dependency{name: "redis"}
	if rdb != nil {
		cache.ping = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return &HealthHandler{deps: []dependency{db, cache}, startAt: time.Now()}
}

// Live handles GET /health/live, the liveness probe.
func (h *HealthHandler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready handles GET /health/ready. Only a configured dependency that fails
// its ping degrades readiness.
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), readinessTimeout)
	defer cancel()

	checks := make(fiber.Map, len(h.deps))
	healthy := true
	for _, d := range h.deps {
		result, up := probe(ctx, d)
		checks[d.name] = result
		healthy = healthy && up
	}

	status, overall := fiber.StatusOK, "healthy"
	if !healthy {
		status, overall = fiber.StatusServiceUnavailable, "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":         overall,
		"checks":         checks,
		"uptime_seconds": int(time.Since(h.startAt).Seconds()),
	})
}

// probe pings d and reports whether it counts as available.
func probe(ctx context.Context, d dependency) (fiber.Map, bool) {
	if d.ping == nil {
		return fiber.Map{"status": "disabled"}, true
	}

	start := time.Now()
	err := d.ping(ctx)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return fiber.Map{"status": "down", "latency_ms": latency, "error": "connection failed"}, false
	}
	return fiber.Map{"status": "up", "latency_ms": latency}, true
}
