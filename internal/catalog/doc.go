// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package catalog is the feed's view of the remote media catalog.

The feed only ever talks to the Client interface. Three implementations
stack on top of each other:

  - JellyfinClient: HTTP client for the Jellyfin REST API with an outbound
    token-bucket limiter (golang.org/x/time/rate)
  - CircuitBreakerClient: fails fast while Jellyfin is unhealthy
    (sony/gobreaker); cancelled queries and 404s do not count as failures
  - CachingClient: keeps each user's library views for a TTL

Typical wiring:

	base := catalog.NewJellyfinClient(catalog.JellyfinClientConfig{
	    BaseURL: cfg.Jellyfin.URL,
	    APIKey:  cfg.Jellyfin.APIKey,
	    UserID:  cfg.Jellyfin.UserID,
	})
	var client catalog.Client = base
	if cfg.Jellyfin.CircuitBreaker {
	    client = catalog.NewCircuitBreakerClient(client, "jellyfin-api")
	}
	cached := catalog.NewCachingClient(client, cfg.Feed.ViewsCacheTTL)
	defer cached.Close()

Error Handling:

Unexpected HTTP statuses surface as *StatusError; errors.Is(err, ErrNotFound)
matches a 404. Transport errors and decode failures are wrapped with the
operation name. Callers decide whether a failure is fatal.

Thread Safety:

All clients are safe for concurrent use; the feed issues its phase-two
queries from several goroutines at once.
*/
package catalog
