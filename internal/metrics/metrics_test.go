// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordCatalogRequest(t *testing.T) {
	before := testutil.ToFloat64(CatalogRequestErrors.WithLabelValues("get_items_test"))

	RecordCatalogRequest("get_items_test", 10*time.Millisecond, nil)
	RecordCatalogRequest("get_items_test", 20*time.Millisecond, errors.New("boom"))

	after := testutil.ToFloat64(CatalogRequestErrors.WithLabelValues("get_items_test"))
	if after-before != 1 {
		t.Errorf("error counter delta = %v, want 1", after-before)
	}
}

func TestRecordSourceOutcome(t *testing.T) {
	tests := []struct {
		name    string
		items   int
		err     error
		outcome string
	}{
		{"items", 3, nil, OutcomeSuccess},
		{"no items", 0, nil, OutcomeEmpty},
		{"error wins over items", 2, errors.New("timeout"), OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := FeedSourceOutcomes.WithLabelValues("outcome_test", tt.outcome)
			before := testutil.ToFloat64(c)
			RecordSourceOutcome("outcome_test", tt.items, tt.err)
			if got := testutil.ToFloat64(c) - before; got != 1 {
				t.Errorf("%s counter delta = %v, want 1", tt.outcome, got)
			}
		})
	}
}

func TestRecordFeedSession(t *testing.T) {
	cold := testutil.ToFloat64(FeedSessionsStarted.WithLabelValues("cold"))
	refresh := testutil.ToFloat64(FeedSessionsStarted.WithLabelValues("refresh"))

	RecordFeedSession(false)
	RecordFeedSession(true)
	RecordFeedSession(true)

	if d := testutil.ToFloat64(FeedSessionsStarted.WithLabelValues("cold")) - cold; d != 1 {
		t.Errorf("cold delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(FeedSessionsStarted.WithLabelValues("refresh")) - refresh; d != 2 {
		t.Errorf("refresh delta = %v, want 2", d)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(CatalogCacheHits.WithLabelValues("views_test"))
	misses := testutil.ToFloat64(CatalogCacheMisses.WithLabelValues("views_test"))

	RecordCacheLookup("views_test", true)
	RecordCacheLookup("views_test", false)
	RecordCacheLookup("views_test", false)

	if d := testutil.ToFloat64(CatalogCacheHits.WithLabelValues("views_test")) - hits; d != 1 {
		t.Errorf("hits delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(CatalogCacheMisses.WithLabelValues("views_test")) - misses; d != 2 {
		t.Errorf("misses delta = %v, want 2", d)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	c := APIRequestsTotal.WithLabelValues("GET", "/api/v1/feed", "200")
	before := testutil.ToFloat64(c)

	RecordAPIRequest("GET", "/api/v1/feed", 200, 5*time.Millisecond)

	if d := testutil.ToFloat64(c) - before; d != 1 {
		t.Errorf("api request delta = %v, want 1", d)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active = %v, want %v", got, before)
	}
}

func TestRecordUserAction(t *testing.T) {
	c := FeedUserActions.WithLabelValues("favorite_test", "error")
	before := testutil.ToFloat64(c)
	RecordUserAction("favorite_test", errors.New("503"))
	if d := testutil.ToFloat64(c) - before; d != 1 {
		t.Errorf("user action error delta = %v, want 1", d)
	}
}
