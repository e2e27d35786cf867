// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/marquee/internal/logging"
)

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateJellyfin,
		c.validateFeed,
		c.validateServer,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateJellyfin() error {
	if c.Jellyfin.URL == "" {
		return fmt.Errorf("JELLYFIN_URL is required")
	}
	if err := validateHTTPURL(c.Jellyfin.URL, "JELLYFIN_URL"); err != nil {
		return err
	}
	if c.Jellyfin.APIKey == "" {
		return fmt.Errorf("JELLYFIN_API_KEY is required")
	}
	if c.Jellyfin.Timeout <= 0 {
		return fmt.Errorf("JELLYFIN_TIMEOUT must be positive")
	}
	if c.Jellyfin.RequestsPerSecond > 0 && c.Jellyfin.Burst < 1 {
		return fmt.Errorf("JELLYFIN_BURST must be at least 1 when rate limiting is enabled")
	}
	return nil
}

// Feed bounds.
const (
	maxItemsPerRowLimit       = 200
	maxConcurrentQueriesLimit = 64
	minRefreshInterval        = 30 * time.Second
)

// validCombineStrategies lists the accepted feed.combine_strategy values.
var validCombineStrategies = map[string]bool{
	"recent":     true,
	"interleave": true,
}

func (c *Config) validateFeed() error {
	f := c.Feed
	if f.MaxItemsPerRow < 1 || f.MaxItemsPerRow > maxItemsPerRowLimit {
		return fmt.Errorf("FEED_MAX_ITEMS_PER_ROW must be between 1 and %d", maxItemsPerRowLimit)
	}
	if !validCombineStrategies[f.CombineStrategy] {
		return fmt.Errorf("FEED_COMBINE_STRATEGY must be one of: recent, interleave")
	}
	if f.HeroLimit < 0 {
		return fmt.Errorf("FEED_HERO_LIMIT must not be negative")
	}
	if f.MaxConcurrentQueries < 1 || f.MaxConcurrentQueries > maxConcurrentQueriesLimit {
		return fmt.Errorf("FEED_MAX_CONCURRENT_QUERIES must be between 1 and %d", maxConcurrentQueriesLimit)
	}
	if f.RefreshInterval != 0 && f.RefreshInterval < minRefreshInterval {
		return fmt.Errorf("FEED_REFRESH_INTERVAL must be 0 (disabled) or at least %v", minRefreshInterval)
	}
	if f.ViewsCacheTTL < 0 {
		return fmt.Errorf("FEED_VIEWS_CACHE_TTL must not be negative")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// Rate limit bounds.
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateSecurity() error {
	if c.IsProduction() && c.hasWildcardCORS() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production; " +
			"set specific origins such as CORS_ORIGINS=https://tv.example.com")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a recognized level", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}
