package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/ytscout/ytscout-go/internal/handler"
	"github.com/ytscout/ytscout-go/internal/middleware"
)

// Handlers holds all handler instances needed by the router. Credit is nil
// when no database is configured.
type Handlers struct {
	Channel *handler.ChannelHandler
	Credit  *handler.CreditHandler
	Health  *handler.HealthHandler
	Stats   *handler.StatsHandler
}

// Options carries the route-level settings.
type Options struct {
	CORSOrigins string
	AdminUserID string
	// APILimiter throttles the whole /api group per client IP; nil disables it.
	APILimiter *middleware.RateLimiter
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, opts Options) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(opts.CORSOrigins))

	// Health and metrics sit outside the API group and its limiter
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	api := app.Group("/api")
	if opts.APILimiter != nil {
		api.Use(opts.APILimiter.Handler())
	}

	// Channel routes; "search" is registered before the :channelId catch
	api.Get("/channels/search", h.Channel.Search)
	api.Get("/channels/:channelId", h.Channel.GetDetail)
	api.Get("/channels/:channelId/videos", h.Channel.GetVideos)

	// Admin routes
	admin := api.Group("/admin", middleware.RequireAdmin(opts.AdminUserID))
	admin.Get("/stats", h.Stats.GetStats)

	if h.Credit == nil {
		return
	}

	admin.Post("/credits/reset", h.Credit.Reset)

	// Credit routes
	credits := api.Group("/credits", middleware.RequireCaller())
	credits.Get("/", h.Credit.Balance)
	credits.Get("/history", h.Credit.History)
}
