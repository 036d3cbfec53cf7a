package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"
)

// CacheStats exposes the response cache's L1 size.
type CacheStats interface {
	Len() int
}

type StatsHandler struct {
	cache   CacheStats
	startAt time.Time
}

func NewStatsHandler(cache CacheStats) *StatsHandler {
	return &StatsHandler{cache: cache, startAt: time.Now()}
}

// GetStats handles GET /api/admin/stats
func (h *StatsHandler) GetStats(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"cacheEntries":  h.cache.Len(),
		"uptimeSeconds": int(time.Since(h.startAt).Seconds()),
	})
}
