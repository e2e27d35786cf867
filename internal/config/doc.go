// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package config loads and validates Marquee configuration.

# Configuration Sources

Koanf v2 layers three sources, later ones winning:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: CONFIG_PATH, ./config.yaml or /etc/marquee/config.yaml
 3. Environment variables with an explicit name mapping

# Environment Variables

Jellyfin:
  - JELLYFIN_URL: server base URL (required)
  - JELLYFIN_API_KEY: API key (required)
  - JELLYFIN_USER_ID: user the feed is built for
  - JELLYFIN_TIMEOUT: per-request timeout (default: 30s)
  - JELLYFIN_REQUESTS_PER_SECOND / JELLYFIN_BURST: outbound limiter (default: 20 / 10)
  - JELLYFIN_CIRCUIT_BREAKER: wrap the client in a circuit breaker (default: true)

Feed:
  - FEED_MAX_ITEMS_PER_ROW (default: 25)
  - FEED_ENABLE_REWATCHING_NEXT_UP (default: false)
  - FEED_COMBINE_CONTINUE_NEXT (default: false)
  - FEED_COMBINE_STRATEGY: recent or interleave (default: recent)
  - FEED_HERO_LIMIT (default: 10)
  - FEED_FEATURED_NAME (default: Featured)
  - FEED_MAX_CONCURRENT_QUERIES (default: 8)
  - FEED_REFRESH_INTERVAL: periodic refresh, 0 disables (default: 0)
  - FEED_EXCLUDED_LIBRARIES: comma-separated ids or names
  - FEED_VIEWS_CACHE_TTL (default: 5m)

Server and security:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8097), HTTP_TIMEOUT
  - ENVIRONMENT: development or production
  - CORS_ORIGINS, RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Hot Reload

WatchConfigFile notifies a callback when the YAML file changes. The server
reloads, validates, and re-runs the feed with the new feed options.
*/
package config
