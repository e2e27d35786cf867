// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
)

func TestCircuitBreakerClient_PassesResultsThrough(t *testing.T) {
	stub := &stubClient{
		views: []models.Library{{ID: "v1", Name: "Movies"}},
		items: []models.MediaItem{{ID: "a"}, {ID: "b"}},
	}
	cbc := NewCircuitBreakerClient(stub, "test-passthrough")
	successes := metrics.CircuitBreakerRequests.WithLabelValues("test-passthrough", "success")
	before := testutil.ToFloat64(successes)

	libs, err := cbc.GetUserViews(context.Background(), "user-1")
	checkNoError(t, err)
	checkSliceLen(t, "views", len(libs), 1)

	items, err := cbc.GetLatest(context.Background(), "user-1", "v1", 10)
	checkNoError(t, err)
	checkSliceLen(t, "items", len(items), 2)

	user, err := cbc.CurrentUser(context.Background())
	checkNoError(t, err)
	checkStringEqual(t, "user.ID", user.ID, "user-1")

	checkStringEqual(t, "Name", cbc.Name(), "test-passthrough")
	checkTrue(t, "closed", cbc.State() == gobreaker.StateClosed)
	checkTrue(t, "success metric", testutil.ToFloat64(successes)-before == 3)
}

func TestCircuitBreakerClient_TripsAfterRepeatedFailures(t *testing.T) {
	stub := &stubClient{err: errors.New("connection refused")}
	cbc := NewCircuitBreakerClient(stub, "test-trip")

	for i := 0; i < 10; i++ {
		_, _ = cbc.GetItems(context.Background(), ItemQuery{UserID: "user-1"})
	}
	checkTrue(t, "open after 10 failures", cbc.State() == gobreaker.StateOpen)

	before := stub.itemCalls.Load()
	_, err := cbc.GetItems(context.Background(), ItemQuery{UserID: "user-1"})
	checkTrue(t, "ErrOpenState", errors.Is(err, gobreaker.ErrOpenState))
	checkTrue(t, "wrapped client not called while open", stub.itemCalls.Load() == before)
	checkTrue(t, "state gauge open", testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-trip")) == 2)
}

func TestCircuitBreakerClient_IgnoresCancellationAndNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"context canceled", fmt.Errorf("jellyfin items request failed: %w", context.Canceled)},
		{"deadline exceeded", context.DeadlineExceeded},
		{"not found", &StatusError{Op: "items", StatusCode: http.StatusNotFound}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubClient{err: tt.err}
			cbc := NewCircuitBreakerClient(stub, "test-ignore-"+tt.name)

			for i := 0; i < 15; i++ {
				_, err := cbc.GetItems(context.Background(), ItemQuery{})
				checkTrue(t, "error surfaced", errors.Is(err, tt.err))
			}
			checkTrue(t, "still closed", cbc.State() == gobreaker.StateClosed)
		})
	}
}

func TestStateConversions(t *testing.T) {
	tests := []struct {
		state gobreaker.State
		str   string
		val   float64
	}{
		{gobreaker.StateClosed, "closed", 0},
		{gobreaker.StateHalfOpen, "half-open", 1},
		{gobreaker.StateOpen, "open", 2},
	}
	for _, tt := range tests {
		checkStringEqual(t, "stateToString", stateToString(tt.state), tt.str)
		checkTrue(t, "stateToFloat "+tt.str, stateToFloat(tt.state) == tt.val)
	}
}
