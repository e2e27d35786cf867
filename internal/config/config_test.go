// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"strings"
	"testing"
	"time"
)

// validConfig returns defaults plus the required Jellyfin fields.
func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Jellyfin.URL = "http://jellyfin.local:8096"
	cfg.Jellyfin.APIKey = "secret"
	return cfg
}

func assertErrorContains(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", want)
	}
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error = %v, want it to contain %q", err, want)
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateHTTPURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"http://localhost:8096", false},
		{"https://media.example.com", false},
		{"https://media.example.com/jellyfin", false},
		{"http://192.168.1.10:8096/", false},
		{"ftp://media.example.com", true},
		{"http://", true},
		{"http://media.example.com?x=1", true},
		{"media.example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := validateHTTPURL(tt.url, "JELLYFIN_URL")
			if (err != nil) != tt.wantErr {
				t.Errorf("validateHTTPURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFeed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FeedConfig)
		want   string
	}{
		{"negative hero limit", func(f *FeedConfig) { f.HeroLimit = -1 }, "FEED_HERO_LIMIT"},
		{"row limit too large", func(f *FeedConfig) { f.MaxItemsPerRow = 1000 }, "FEED_MAX_ITEMS_PER_ROW"},
		{"no concurrency", func(f *FeedConfig) { f.MaxConcurrentQueries = 0 }, "FEED_MAX_CONCURRENT_QUERIES"},
		{"short refresh", func(f *FeedConfig) { f.RefreshInterval = time.Second }, "FEED_REFRESH_INTERVAL"},
		{"negative cache ttl", func(f *FeedConfig) { f.ViewsCacheTTL = -time.Second }, "FEED_VIEWS_CACHE_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg.Feed)
			assertErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestValidateFeed_ZeroHeroLimitAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.Feed.HeroLimit = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil for hero limit 0", err)
	}
}

func TestValidateRateLimits(t *testing.T) {
	cfg := validConfig()
	cfg.Security.RateLimitReqs = 0
	assertErrorContains(t, cfg.Validate(), "RATE_LIMIT_REQUESTS")

	cfg.Security.RateLimitDisabled = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with rate limit disabled error = %v", err)
	}
}

func TestValidateJellyfin_BurstRequiredWithLimiter(t *testing.T) {
	cfg := validConfig()
	cfg.Jellyfin.Burst = 0
	assertErrorContains(t, cfg.Validate(), "JELLYFIN_BURST")

	cfg.Jellyfin.RequestsPerSecond = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with limiter disabled error = %v", err)
	}
}

func TestServerConfig_Addr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8097}
	if got := s.Addr(); got != "127.0.0.1:8097" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8097", got)
	}
}

func TestIsProduction(t *testing.T) {
	cfg := validConfig()
	if cfg.IsProduction() {
		t.Error("IsProduction() = true for development")
	}
	cfg.Server.Environment = "Production"
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false for Production")
	}
}
