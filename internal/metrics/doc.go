// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package metrics defines Marquee's Prometheus collectors.

Collectors are registered on the default registry through promauto and
exposed at /metrics by the API router.

Metric Families:

  - catalog_*: Jellyfin request latency, errors and cache hit ratio
  - feed_*: session starts, failures and supersessions, phase timings,
    per-source outcomes, stale publishes dropped, subscribers
  - api_*: HTTP request counts and latency
  - websocket_*: push connections and messages
  - circuit_breaker_*: catalog breaker state and transitions

Record* helpers keep label values consistent across call sites.
*/
package metrics
