// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package main is the entry point for the Marquee server.

Marquee builds the home screen of a Jellyfin client: a hero carousel, a
continue-watching section, Next Up, a sports row, and one "Latest" row per
library. Rows are fetched from Jellyfin in parallel, published to an
in-memory store as they arrive, and served over REST and WebSocket.

# Application Architecture

	RootSupervisor ("marquee")
	├── FeedSupervisor ("feed-layer")
	│   ├── feed-refresh (startup load and periodic refresh)
	│   └── feed-broadcast (store updates -> WebSocket hub)
	├── MessagingSupervisor ("messaging-layer")
	│   └── websocket-hub
	└── APISupervisor ("api-layer")
	    └── http-server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, YAML file and environment variables
 2. Logging: zerolog, JSON or console
 3. Catalog: Jellyfin client, optional circuit breaker, optional views cache
 4. Feed: hero selector, store and orchestrator
 5. WebSocket hub and HTTP handlers
 6. Supervisor tree (suture v4)
 7. Config file watcher for hot reload

# Configuration

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	JELLYFIN_URL=http://localhost:8096
	JELLYFIN_API_KEY=<api-key>
	JELLYFIN_USER_ID=<optional user id>
	JELLYFIN_CIRCUIT_BREAKER=true

	FEED_MAX_ITEMS_PER_ROW=25
	FEED_COMBINE_CONTINUE_NEXT=false
	FEED_COMBINE_STRATEGY=recent       # recent or interleave
	FEED_REFRESH_INTERVAL=0            # 0 disables periodic refresh
	FEED_EXCLUDED_LIBRARIES=Home Videos,Recordings

	HTTP_PORT=8097
	LOG_LEVEL=info
	LOG_FORMAT=json

CONFIG_PATH points at a YAML file. When one is found it is watched; feed
options and the log level are applied on change, and a feed that has
already loaded is refreshed with the new options.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for up
to 10s, the hub closes client connections, running feed sessions are
cancelled, and services that failed to stop are logged.

# Usage

	export JELLYFIN_URL=http://jellyfin:8096 JELLYFIN_API_KEY=xxx
	go run ./cmd/server

	curl localhost:8097/api/v1/feed
	curl -X POST 'localhost:8097/api/v1/feed/refresh?wait=true'
*/
package main
