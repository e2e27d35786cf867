// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package api provides the HTTP layer over the home feed.

The feed itself is assembled by package feed; this package exposes the
published snapshot, the entry points that start a load, and a WebSocket
stream of field updates.

Endpoints:

	GET  /api/v1/health             component health, always 200
	GET  /api/v1/health/live        liveness probe
	GET  /api/v1/health/ready       503 until the media server answers
	GET  /api/v1/feed               current snapshot (gzip when accepted)
	POST /api/v1/feed/refresh       start a load; ?wait=true blocks for phase one
	POST /api/v1/feed/backdrop      set or clear the backdrop item
	GET  /api/v1/feed/ws            WebSocket: snapshot, then feed_update messages
	POST /api/v1/items/{id}/actions mark_watched, mark_unwatched, favorite, unfavorite
	GET  /metrics                   Prometheus

Every JSON endpoint answers with the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "CONFLICT", "message": "..."}, "meta": {...}}

Error mapping:

  - feed.ErrNoUser, feed.ErrSuperseded: 409
  - feed.ErrInvalidOptions, feed.ErrUnknownAction, validation failures: 400
  - catalog.ErrNotFound: 404
  - request context ended while waiting: 503
  - any other media server failure: 502

Middleware, outermost first: request id, real IP, panic recovery, access log,
CORS. Routes under /api/v1 add per-IP rate limiting (httprate), security
headers and Prometheus request metrics.

Usage:

	handler := api.NewHandler(orch, client, hub, cfg)
	handler.SetCircuitBreaker(breaker)
	handler.SetViewsCache(views)
	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
	srv := &http.Server{Addr: ":8096", Handler: router.SetupChi()}
*/
package api
