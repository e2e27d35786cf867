// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/marquee/internal/cache"
	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/feed"
	ws "github.com/tomtom215/marquee/internal/websocket"
)

// BreakerStatus reports circuit breaker state for health output.
type BreakerStatus interface {
	Name() string
	State() gobreaker.State
}

// ViewsCache is the library list cache in front of the catalog.
type ViewsCache interface {
	Invalidate(userID string)
	Stats() cache.Stats
}

// Handler serves the feed read model and its entry points.
type Handler struct {
	orchestrator *feed.Orchestrator
	store        *feed.Store
	client       catalog.Client
	wsHub        *ws.Hub
	config       *config.Config
	startTime    time.Time

	breaker BreakerStatus
	views   ViewsCache
}

// NewHandler creates a handler. client is used for health checks only;
// feed loads go through the orchestrator. wsHub may be nil, in which case
// the WebSocket endpoint answers 503.
//
// Example:
//
//	handler := api.NewHandler(orch, client, hub, cfg)
//	handler.SetCircuitBreaker(breaker)
//	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
//	http.ListenAndServe(":8096", router.SetupChi())
func NewHandler(orch *feed.Orchestrator, client catalog.Client, wsHub *ws.Hub, cfg *config.Config) *Handler {
	return &Handler{
		orchestrator: orch,
		store:        orch.Store(),
		client:       client,
		wsHub:        wsHub,
		config:       cfg,
		startTime:    time.Now(),
	}
}

// SetCircuitBreaker exposes breaker state on the health endpoint.
func (h *Handler) SetCircuitBreaker(b BreakerStatus) {
	h.breaker = b
}

// SetViewsCache enables reload_libraries on refresh and cache stats on the
// health endpoint.
func (h *Handler) SetViewsCache(c ViewsCache) {
	h.views = c
}
