// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration.
//
// Loading order (Koanf v2):
//  1. Defaults: defaultConfig()
//  2. Config file: optional YAML (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment variables: explicit mapping in envTransformFunc
//
// Config is immutable after LoadWithKoanf and safe for concurrent reads.
// A hot reload builds a fresh Config rather than mutating the live one.
type Config struct {
	Jellyfin JellyfinConfig `koanf:"jellyfin"`
	Feed     FeedConfig     `koanf:"feed"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// JellyfinConfig configures the catalog connection.
type JellyfinConfig struct {
	URL    string `koanf:"url"`
	APIKey string `koanf:"api_key"`

	// UserID selects the user the feed is built for. When empty the feed
	// stays Pending: no user means nothing to load.
	UserID string `koanf:"user_id"`

	// DeviceID is sent as X-Emby-Device-Id.
	DeviceID string `koanf:"device_id"`

	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerSecond and Burst bound outbound catalog queries.
	// RequestsPerSecond <= 0 disables the limiter.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	CircuitBreaker bool `koanf:"circuit_breaker"`
}

// FeedConfig configures home feed assembly.
type FeedConfig struct {
	// MaxItemsPerRow caps every row.
	MaxItemsPerRow int `koanf:"max_items_per_row"`

	// EnableRewatchingNextUp includes completed-but-rewatchable series in next-up.
	EnableRewatchingNextUp bool `koanf:"enable_rewatching_next_up"`

	// CombineContinueNext merges resume and next-up into one row.
	CombineContinueNext bool `koanf:"combine_continue_next"`

	// CombineStrategy ranks the merged row: "recent" or "interleave".
	CombineStrategy string `koanf:"combine_strategy"`

	HeroLimit    int    `koanf:"hero_limit"`
	FeaturedName string `koanf:"featured_name"`

	// MaxConcurrentQueries bounds the phase-2 fan-out.
	MaxConcurrentQueries int `koanf:"max_concurrent_queries"`

	// RefreshInterval re-runs the feed periodically; 0 disables.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// ExcludedLibraries lists library ids or names hidden from the feed.
	ExcludedLibraries []string `koanf:"excluded_libraries"`

	// ViewsCacheTTL caches the user's library list between sessions; 0 disables.
	ViewsCacheTTL time.Duration `koanf:"views_cache_ttl"`

	// LoadOnStartup starts the first session as soon as the server is up.
	LoadOnStartup bool `koanf:"load_on_startup"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// SecurityConfig configures CORS and inbound rate limiting.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}
