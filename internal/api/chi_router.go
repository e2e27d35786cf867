// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/marquee/internal/middleware"
)

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil config uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, cfg *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(cfg),
	}
}

// SetupChi builds the HTTP handler.
//
//	GET  /metrics
//	GET  /api/v1/health, /api/v1/health/live, /api/v1/health/ready
//	GET  /api/v1/feed
//	POST /api/v1/feed/refresh
//	POST /api/v1/feed/backdrop
//	GET  /api/v1/feed/ws
//	POST /api/v1/items/{id}/actions
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(AccessLog())
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).MethodNotAllowed()
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.With(middleware.Compression).Get("/feed", router.handler.Feed)
		r.With(router.chiMiddleware.RateLimitRefresh()).Post("/feed/refresh", router.handler.Refresh)
		r.Post("/feed/backdrop", router.handler.Backdrop)
		r.With(router.chiMiddleware.RateLimitWebSocket()).Get("/feed/ws", router.handler.WebSocket)
		r.With(router.chiMiddleware.RateLimitAction()).Post("/items/{id}/actions", router.handler.ItemAction)
	})

	return r
}
