// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/marquee/internal/feed"
)

// pingTimeout bounds the media server check in health probes.
const pingTimeout = 5 * time.Second

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status           string         `json:"status"` // healthy, degraded
	CatalogReachable bool           `json:"catalog_reachable"`
	CircuitBreaker   *BreakerHealth `json:"circuit_breaker,omitempty"`
	Feed             FeedHealth     `json:"feed"`
	ViewsCache       *CacheHealth   `json:"views_cache,omitempty"`
	WebSocketClients int            `json:"websocket_clients"`
	Uptime           float64        `json:"uptime_seconds"`
}

// BreakerHealth reports the catalog circuit breaker.
type BreakerHealth struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

// FeedHealth summarizes the published snapshot.
type FeedHealth struct {
	Overall   feed.LoadState `json:"overall"`
	Refresh   feed.LoadState `json:"refresh"`
	Session   uint64         `json:"session"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CacheHealth reports views cache effectiveness.
type CacheHealth struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Keys    int64   `json:"keys"`
	HitRate float64 `json:"hit_rate"`
}

func (h *Handler) pingCatalog(ctx context.Context) bool {
	if h.client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return h.client.Ping(ctx) == nil
}

// Health reports catalog reachability, breaker state and the feed's load
// state. It always answers 200; use /health/ready for gating traffic.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	reachable := h.pingCatalog(r.Context())
	snap := h.store.Snapshot()

	status := HealthStatus{
		Status:           "healthy",
		CatalogReachable: reachable,
		Feed: FeedHealth{
			Overall:   snap.Overall,
			Refresh:   snap.Refresh,
			Session:   snap.Session,
			UpdatedAt: snap.UpdatedAt,
		},
		Uptime: time.Since(h.startTime).Seconds(),
	}
	if !reachable || snap.Overall.Status == feed.StatusError {
		status.Status = "degraded"
	}
	if h.breaker != nil {
		status.CircuitBreaker = &BreakerHealth{Name: h.breaker.Name(), State: h.breaker.State().String()}
	}
	if h.views != nil {
		st := h.views.Stats()
		status.ViewsCache = &CacheHealth{Hits: st.Hits, Misses: st.Misses, Keys: st.TotalKeys, HitRate: st.HitRate()}
	}
	if h.wsHub != nil {
		status.WebSocketClients = h.wsHub.GetClientCount()
	}

	NewResponseWriter(w, r).Success(status)
}

// HealthLive is the liveness probe: 200 while the process serves HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady is the readiness probe: 200 only when the media server answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.pingCatalog(r.Context()) {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Media server unreachable",
			map[string]interface{}{"catalog_reachable": false})
		return
	}
	rw.Success(map[string]interface{}{
		"ready":             true,
		"catalog_reachable": true,
	})
}
