// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/marquee/config.yaml",
	"/etc/marquee/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Jellyfin: JellyfinConfig{
			DeviceID:          "marquee",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 20,
			Burst:             10,
			CircuitBreaker:    true,
		},
		Feed: FeedConfig{
			MaxItemsPerRow:         25,
			EnableRewatchingNextUp: false,
			CombineContinueNext:    false,
			CombineStrategy:        "recent",
			HeroLimit:              10,
			FeaturedName:           "Featured",
			MaxConcurrentQueries:   8,
			RefreshInterval:        0,
			ExcludedLibraries:      []string{},
			ViewsCacheTTL:          5 * time.Minute,
			LoadOnStartup:          true,
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8097,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration from defaults, an optional YAML file and
// environment variables, in that order of increasing precedence, then validates it.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := ResolveConfigPath(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ResolveConfigPath returns the config file that LoadWithKoanf would read,
// or "" when none exists.
func ResolveConfigPath() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"feed.excluded_libraries",
}

// processSliceFields converts comma-separated strings to slices. YAML lists
// are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Jellyfin
	"jellyfin_url":                 "jellyfin.url",
	"jellyfin_api_key":             "jellyfin.api_key",
	"jellyfin_user_id":             "jellyfin.user_id",
	"jellyfin_device_id":           "jellyfin.device_id",
	"jellyfin_timeout":             "jellyfin.timeout",
	"jellyfin_requests_per_second": "jellyfin.requests_per_second",
	"jellyfin_burst":               "jellyfin.burst",
	"jellyfin_circuit_breaker":     "jellyfin.circuit_breaker",

	// Feed
	"feed_max_items_per_row":         "feed.max_items_per_row",
	"feed_enable_rewatching_next_up": "feed.enable_rewatching_next_up",
	"feed_combine_continue_next":     "feed.combine_continue_next",
	"feed_combine_strategy":          "feed.combine_strategy",
	"feed_hero_limit":                "feed.hero_limit",
	"feed_featured_name":             "feed.featured_name",
	"feed_max_concurrent_queries":    "feed.max_concurrent_queries",
	"feed_refresh_interval":          "feed.refresh_interval",
	"feed_excluded_libraries":        "feed.excluded_libraries",
	"feed_views_cache_ttl":           "feed.views_cache_ttl",
	"feed_load_on_startup":           "feed.load_on_startup",

	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path.
//
//   - JELLYFIN_URL -> jellyfin.url
//   - FEED_MAX_ITEMS_PER_ROW -> feed.max_items_per_row
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile invokes callback whenever the file at path changes.
// The callback is responsible for reloading and for any locking.
func WatchConfigFile(path string, callback func()) error {
	return file.Provider(path).Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
