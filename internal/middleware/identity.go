package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

// CallerHeader carries the already-authenticated caller identity.
const CallerHeader = "X-User-ID"

// CallerID returns the caller identity, or "" for anonymous requests.
func CallerID(c fiber.Ctx) string {
	return strings.TrimSpace(c.Get(CallerHeader))
}

// RequireAdmin rejects requests whose caller is not adminID. An empty
// adminID closes the route to everyone.
func RequireAdmin(adminID string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if adminID == "" || CallerID(c) != adminID {
			return ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "Admin access required")
		}
		return c.Next()
	}
}

// RequireCaller rejects anonymous requests.
func RequireCaller() fiber.Handler {
	return func(c fiber.Ctx) error {
		if CallerID(c) == "" {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "X-User-ID header is required")
		}
		return c.Next()
	}
}
