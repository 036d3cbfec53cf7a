package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

const corsPreflightMaxAge = 24 * time.Hour

// NewCORS allows browser clients to call the read API and send their caller
// identity. corsOrigins is a comma-separated allow list; empty or "*" allows
// any origin. Credentials are never allowed, so the wildcard stays valid.
func NewCORS(corsOrigins string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     parseOrigins(corsOrigins),
		AllowMethods:     []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions},
		AllowHeaders:     []string{fiber.HeaderOrigin, fiber.HeaderContentType, fiber.HeaderAccept, CallerHeader, RequestIDHeader},
		AllowCredentials: false,
		ExposeHeaders: []string{
			HeaderRateLimitLimit,
			HeaderRateLimitRemaining,
			HeaderRateLimitReset,
			fiber.HeaderRetryAfter,
			RequestIDHeader,
		},
		MaxAge: int(corsPreflightMaxAge.Seconds()),
	})
}

// parseOrigins splits the allow list, dropping blanks and trailing slashes.
func parseOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			return []string{"*"}
		}
		if o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
