// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package middleware provides transport-level HTTP middleware shared by the
API router.

  - PrometheusMetrics: request count, duration and in-flight gauge, labelled
    by chi route pattern
  - Compression: gzip for clients that send Accept-Encoding: gzip; WebSocket
    upgrades are skipped

Both use the standard func(http.Handler) http.Handler shape and plug into
chi with r.Use:

	r.Use(middleware.PrometheusMetrics)
	r.With(middleware.Compression).Get("/api/v1/feed", h.Feed)

Request ids, CORS and rate limiting live in the api package, built on
chi's own middleware ecosystem.
*/
package middleware
