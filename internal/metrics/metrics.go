// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog Metrics
	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Duration of Jellyfin catalog requests in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	CatalogRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_request_errors_total",
			Help: "Total number of failed Jellyfin catalog requests",
		},
		[]string{"operation"},
	)

	CatalogCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Total number of catalog cache hits",
		},
		[]string{"cache"},
	)

	CatalogCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Total number of catalog cache misses",
		},
		[]string{"cache"},
	)

	// Feed Metrics
	FeedSessionsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_sessions_started_total",
			Help: "Total number of feed load sessions started",
		},
		[]string{"kind"}, // "cold", "refresh"
	)

	FeedSessionsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_sessions_failed_total",
			Help: "Total number of feed sessions that failed before phase 1 published",
		},
	)

	FeedSessionsSuperseded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_sessions_superseded_total",
			Help: "Total number of feed sessions superseded by a newer session",
		},
	)

	FeedPhaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_phase_duration_seconds",
			Help:    "Duration of feed load phases in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"phase"}, // "phase1", "phase2"
	)

	FeedSourceOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_source_outcomes_total",
			Help: "Outcome of each feed source per session",
		},
		[]string{"source", "outcome"}, // outcome: "success", "empty", "error"
	)

	FeedStalePublishesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_stale_publishes_dropped_total",
			Help: "Publishes discarded because their session was superseded",
		},
		[]string{"field"},
	)

	FeedSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_subscribers",
			Help: "Current number of feed snapshot subscribers",
		},
	)

	FeedSubscriberDrops = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_subscriber_drops_total",
			Help: "Updates dropped because a subscriber buffer was full",
		},
	)

	FeedUserActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_user_actions_total",
			Help: "Total number of user actions written to the catalog",
		},
		[]string{"action", "result"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// Feed source outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

// RecordCatalogRequest records one catalog request.
func RecordCatalogRequest(operation string, duration time.Duration, err error) {
	CatalogRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		CatalogRequestErrors.WithLabelValues(operation).Inc()
	}
}

// RecordCacheLookup records a hit or miss for the named cache.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CatalogCacheHits.WithLabelValues(cache).Inc()
	} else {
		CatalogCacheMisses.WithLabelValues(cache).Inc()
	}
}

// RecordFeedSession records a session start.
func RecordFeedSession(refresh bool) {
	kind := "cold"
	if refresh {
		kind = "refresh"
	}
	FeedSessionsStarted.WithLabelValues(kind).Inc()
}

// RecordFeedPhase records how long a load phase took.
func RecordFeedPhase(phase string, duration time.Duration) {
	FeedPhaseDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// RecordSourceOutcome records the result of one phase-2 source.
func RecordSourceOutcome(source string, items int, err error) {
	outcome := OutcomeSuccess
	switch {
	case err != nil:
		outcome = OutcomeError
	case items == 0:
		outcome = OutcomeEmpty
	}
	FeedSourceOutcomes.WithLabelValues(source, outcome).Inc()
}

// RecordStalePublish records a publish discarded for a superseded session.
func RecordStalePublish(field string) {
	FeedStalePublishesDropped.WithLabelValues(field).Inc()
}

// RecordUserAction records a catalog write triggered by a user action.
func RecordUserAction(action string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	FeedUserActions.WithLabelValues(action, result).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
