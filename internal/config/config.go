package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	LogLevel    string
	Environment string
	CORSOrigins string
	AdminUserID string

	UpstreamBaseURL string
	UpstreamProxy   string
	UpstreamRPS     float64
	FetchTimeout    time.Duration

	CacheTTL           time.Duration
	CacheSweepInterval time.Duration

	SearchRateLimit      int
	SearchRateWindow     time.Duration
	AnalyticsConcurrency int
	SearchCreditCost     int
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		AdminUserID: getEnv("ADMIN_USER_ID", ""),

		UpstreamBaseURL: getEnv("UPSTREAM_BASE_URL", "https://www.youtube.com"),
		UpstreamProxy:   getEnv("UPSTREAM_PROXY", ""),
		UpstreamRPS:     getEnvFloat("UPSTREAM_RPS", 5),
		FetchTimeout:    getEnvDuration("FETCH_TIMEOUT", 15*time.Second),

		CacheTTL:           getEnvDuration("CACHE_TTL", time.Hour),
		CacheSweepInterval: getEnvDuration("CACHE_SWEEP_INTERVAL", 10*time.Minute),

		SearchRateLimit:      getEnvInt("SEARCH_RATE_LIMIT", 30),
		SearchRateWindow:     getEnvDuration("SEARCH_RATE_WINDOW", time.Minute),
		AnalyticsConcurrency: getEnvInt("ANALYTICS_CONCURRENCY", 4),
		SearchCreditCost:     getEnvInt("SEARCH_CREDIT_COST", 1),
	}
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.SearchRateLimit <= 0 {
		return fmt.Errorf("SEARCH_RATE_LIMIT must be positive, got %d", c.SearchRateLimit)
	}
	if c.SearchRateWindow <= 0 {
		return fmt.Errorf("SEARCH_RATE_WINDOW must be positive, got %s", c.SearchRateWindow)
	}
	if c.AnalyticsConcurrency <= 0 {
		return fmt.Errorf("ANALYTICS_CONCURRENCY must be positive, got %d", c.AnalyticsConcurrency)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)
	}
	if c.SearchCreditCost < 0 {
		return fmt.Errorf("SEARCH_CREDIT_COST must not be negative, got %d", c.SearchCreditCost)
	}
	if c.UpstreamRPS < 0 {
		return fmt.Errorf("UPSTREAM_RPS must not be negative, got %g", c.UpstreamRPS)
	}
	if _, err := url.ParseRequestURI(c.UpstreamBaseURL); err != nil {
		return fmt.Errorf("UPSTREAM_BASE_URL: %w", err)
	}
	if c.UpstreamProxy != "" {
		u, err := url.Parse(c.UpstreamProxy)
		if err != nil {
			return fmt.Errorf("UPSTREAM_PROXY: %w", err)
		}
		switch u.Scheme {
		case "http", "https", "socks5":
		default:
			return fmt.Errorf("UPSTREAM_PROXY: unsupported scheme %q", u.Scheme)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
