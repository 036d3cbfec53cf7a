package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %s, want 1h", cfg.CacheTTL)
	}
	if cfg.SearchRateLimit != 30 || cfg.SearchRateWindow != time.Minute {
		t.Errorf("search limit = %d/%s, want 30/1m", cfg.SearchRateLimit, cfg.SearchRateWindow)
	}
	if cfg.UpstreamBaseURL != "https://www.youtube.com" {
		t.Errorf("UpstreamBaseURL = %q", cfg.UpstreamBaseURL)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("SEARCH_RATE_LIMIT", "5")
	t.Setenv("UPSTREAM_RPS", "0.5")
	t.Setenv("ANALYTICS_CONCURRENCY", "not-a-number")

	cfg := Load()

	if cfg.CacheTTL != 90*time.Second {
		t.Errorf("CacheTTL = %s, want 90s", cfg.CacheTTL)
	}
	if cfg.SearchRateLimit != 5 {
		t.Errorf("SearchRateLimit = %d, want 5", cfg.SearchRateLimit)
	}
	if cfg.UpstreamRPS != 0.5 {
		t.Errorf("UpstreamRPS = %g, want 0.5", cfg.UpstreamRPS)
	}
	if cfg.AnalyticsConcurrency != 4 {
		t.Errorf("AnalyticsConcurrency = %d, want fallback 4", cfg.AnalyticsConcurrency)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero rate limit", func(c *Config) { c.SearchRateLimit = 0 }, "SEARCH_RATE_LIMIT"},
		{"zero window", func(c *Config) { c.SearchRateWindow = 0 }, "SEARCH_RATE_WINDOW"},
		{"zero concurrency", func(c *Config) { c.AnalyticsConcurrency = 0 }, "ANALYTICS_CONCURRENCY"},
		{"negative cost", func(c *Config) { c.SearchCreditCost = -1 }, "SEARCH_CREDIT_COST"},
		{"bad proxy scheme", func(c *Config) { c.UpstreamProxy = "ftp://proxy:21" }, "UPSTREAM_PROXY"},
		{"bad base url", func(c *Config) { c.UpstreamBaseURL = "not a url" }, "UPSTREAM_BASE_URL"},
		{"socks proxy ok", func(c *Config) { c.UpstreamProxy = "socks5://127.0.0.1:1080" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
