package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
)

// Search admission defaults: 30 searches per caller per trailing minute.
const (
	DefaultSearchLimit  = 30
	DefaultSearchWindow = time.Minute
)

// RateLimitConfig defines the limit for a specific route or group.
type RateLimitConfig struct {
	Max    int                      // Maximum requests allowed in the window
	Window time.Duration            // Trailing window length
	KeyFn  func(c fiber.Ctx) string // Returns the key to rate limit on (IP, userID, etc.)
}

// RateLimiter is an in-memory sliding-window rate limiter. Each key keeps the
// timestamps of its accepted requests younger than the window; they are
// pruned on every check. Keys that are never checked again are dropped by
// Sweep, which RunSweeper calls periodically.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	config  RateLimitConfig
	now     func() time.Time
}

// NewRateLimiter creates a rate limiter with the given config.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string][]time.Time),
		config:  cfg,
		now:     time.Now,
	}
}

// Allow records a request for key and reports whether it is within the
// limit. An empty key is never limited.
func (rl *RateLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	ts := rl.prune(key, now)
	if len(ts) >= rl.config.Max {
		return false
	}
	rl.windows[key] = append(ts, now)
	return true
}

// Status reports the remaining capacity for key and when the oldest retained
// request leaves the window, without recording a request.
func (rl *RateLimiter) Status(key string) (remaining int, resetAt time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	ts := rl.prune(key, now)
	if len(ts) == 0 {
		return rl.config.Max, now
	}
	return max(rl.config.Max-len(ts), 0), ts[0].Add(rl.config.Window)
}

// Limit returns the configured maximum per window.
func (rl *RateLimiter) Limit() int {
	return rl.config.Max
}

// prune drops timestamps for key that are no longer younger than the window.
// Caller must hold rl.mu.
func (rl *RateLimiter) prune(key string, now time.Time) []time.Time {
	ts := rl.windows[key]
	i := 0
	for i < len(ts) && now.Sub(ts[i]) >= rl.config.Window {
		i++
	}
	if i == 0 {
		return ts
	}
	if i == len(ts) {
		delete(rl.windows, key)
		return nil
	}
	ts = append(ts[:0], ts[i:]...)
	rl.windows[key] = ts
	return ts
}

// Sweep deletes every key whose newest timestamp has left the window and
// reports how many were removed. Admission is unaffected: such keys already
// count as empty.
func (rl *RateLimiter) Sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for key, ts := range rl.windows {
		if len(ts) == 0 || now.Sub(ts[len(ts)-1]) >= rl.config.Window {
			delete(rl.windows, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.windows)
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
func (rl *RateLimiter) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := rl.Sweep(); n > 0 {
				Logger.Debug().Int("removed", n).Msg("rate-limiter: idle keys swept")
			}
		case <-ctx.Done():
			return
		}
	}
}

// Handler returns a Fiber middleware handler that enforces the rate limit.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		key := rl.config.KeyFn(c)
		allowed := rl.Allow(key)
		remaining, resetAt := rl.Status(key)
		SetRateLimitHeaders(c, rl.config.Max, remaining, resetAt)

		if !allowed {
			return RateLimitedResponse(c, resetAt)
		}
		return c.Next()
	}
}

// RateLimitedResponse writes the standard 429 payload.
func RateLimitedResponse(c fiber.Ctx, resetAt time.Time) error {
	retryAfter := int(time.Until(resetAt).Seconds()) + 1
	c.Set("Retry-After", fmt.Sprintf("%d", retryAfter))
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error": fiber.Map{
			"code":       "RATE_LIMITED",
			"message":    fmt.Sprintf("Too many requests. Try again in %d seconds.", retryAfter),
			"retryAfter": retryAfter,
		},
	})
}

// Rate-limit response headers.
const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// SetRateLimitHeaders writes the X-RateLimit-* headers.
func SetRateLimitHeaders(c fiber.Ctx, limit, remaining int, resetAt time.Time) {
	c.Set(HeaderRateLimitLimit, fmt.Sprintf("%d", limit))
	c.Set(HeaderRateLimitRemaining, fmt.Sprintf("%d", max(remaining, 0)))
	c.Set(HeaderRateLimitReset, fmt.Sprintf("%d", resetAt.Unix()))
}

// KeyByIP returns the client IP as the rate limit key.
func KeyByIP(c fiber.Ctx) string {
	return "ip:" + c.IP()
}

// KeyByCaller returns the caller identity, or "" for anonymous callers.
func KeyByCaller(c fiber.Ctx) string {
	return CallerID(c)
}

// --- Pre-configured rate limiters ---

// NewSearchAdmissionLimiter: max searches per window per caller identity.
// Anonymous callers are not limited.
func NewSearchAdmissionLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if window <= 0 {
		window = DefaultSearchWindow
	}
	return NewRateLimiter(RateLimitConfig{
		Max:    limit,
		Window: window,
		KeyFn:  KeyByCaller,
	})
}

// NewAPIRateLimiter: 100 req/min per IP across the whole API.
func NewAPIRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Max:    100,
		Window: time.Minute,
		KeyFn:  KeyByIP,
	})
}
