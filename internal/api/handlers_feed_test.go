// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/marquee/internal/cache"
	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/feed"
)

type recordingViews struct {
	invalidated []string
}

func (v *recordingViews) Invalidate(userID string) { v.invalidated = append(v.invalidated, userID) }
func (v *recordingViews) Stats() cache.Stats { return cache.Stats{Hits: 3, Misses: 1, TotalKeys: 1} }

func TestFeed_BeforeFirstLoad(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, newStubCatalog())
	w := doRequest(t, h.Feed, http.MethodGet, "/api/v1/feed", "")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var snap feed.Snapshot
	resp := decodeResponse(t, w, &snap)
	if !resp.Success {
		t.Error("Expected Success to be true")
	}
	if snap.Overall.Status != feed.StatusPending {
		t.Errorf("Overall = %q, want pending", snap.Overall.Status)
	}
}

func TestFeed_AfterLoad(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, newStubCatalog())
	loadFeed(t, h)

	var snap feed.Snapshot
	decodeResponse(t, doRequest(t, h.Feed, http.MethodGet, "/api/v1/feed", ""), &snap)

	if snap.Overall.Status != feed.StatusSuccess {
		t.Fatalf("Overall = %q, want success", snap.Overall.Status)
	}
	if len(snap.Watching) == 0 || len(snap.Watching[0].Items) != 1 {
		t.Fatalf("Watching = %+v, want one row with the resume item", snap.Watching)
	}
	if snap.Watching[0].Items[0].ID != testItemID {
		t.Errorf("Watching item = %q, want %q", snap.Watching[0].Items[0].ID, testItemID)
	}
}

func TestRefresh_Accepted(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, newStubCatalog())
	w := doRequest(t, h.Refresh, http.MethodPost, "/api/v1/feed/refresh", "")

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d: %s", w.Code, w.Body.String())
	}
	var out RefreshResponse
	decodeResponse(t, w, &out)
	if out.Session == 0 {
		t.Error("Expected a session number")
	}
	if out.LoadID == "" {
		t.Error("Expected a load id")
	}
}

func TestRefresh_Wait(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, newStubCatalog())
	w := doRequest(t, h.Refresh, http.MethodPost, "/api/v1/feed/refresh?wait=true", "")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var snap feed.Snapshot
	decodeResponse(t, w, &snap)
	if snap.Overall.Status != feed.StatusSuccess {
		t.Errorf("Overall = %q, want success", snap.Overall.Status)
	}
}

func TestRefresh_OverridesOptions(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, newStubCatalog())
	body := `{"max_items_per_row": 5, "combine_strategy": "interleave", "excluded_libraries": ["Kids"]}`
	w := doRequest(t, h.Refresh, http.MethodPost, "/api/v1/feed/refresh", body)

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d: %s", w.Code, w.Body.String())
	}
	opts := h.orchestrator.Options()
	if opts.MaxItemsPerRow != 5 {
		t.Errorf("MaxItemsPerRow = %d, want 5", opts.MaxItemsPerRow)
	}
	if opts.CombineStrategy != "interleave" {
		t.Errorf("CombineStrategy = %q, want interleave", opts.CombineStrategy)
	}
	if len(opts.ExcludedLibraries) != 1 || opts.ExcludedLibraries[0] != "Kids" {
		t.Errorf("ExcludedLibraries = %v, want [Kids]", opts.ExcludedLibraries)
	}
}

func TestRefresh_InvalidBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		code string
	}{
		{"zero items per row", `{"max_items_per_row": 0}`, ErrCodeValidationFailed},
		{"unknown strategy", `{"combine_strategy": "random"}`, ErrCodeValidationFailed},
		{"negative hero limit", `{"hero_limit": -1}`, ErrCodeValidationFailed},
		{"unknown field", `{"max_items": 5}`, ErrCodeBadRequest},
		{"malformed", `{"max_items_per_row":`, ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, newStubCatalog())
			w := doRequest(t, h.Refresh, http.MethodPost, "/api/v1/feed/refresh", tt.body)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d", w.Code)
			}
			resp := decodeResponse(t, w, nil)
			if resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("Error = %+v, want code %s", resp.Error, tt.code)
			}
		})
	}
}

func TestRefresh_NoUser(t *testing.T) {
	t.Parallel()

	client := newStubCatalog()
	client.user = nil
	h := newTestHandler(t, client)

	w := doRequest(t, h.Refresh, http.MethodPost, "/api/v1/feed/refresh?wait=true", "")
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}
	if got := h.store.Snapshot().Overall.Status; got != feed.StatusPending {
		t.Errorf("Overall = %q, want pending", got)
	}
}

func TestRefresh_SessionFatalError(t *testing.T) {
	t.Parallel()

	client := newStubCatalog()
	client.viewsErr = errors.New("connection refused")
	h := newTestHandler(t, client)

	w := doRequest(t, h.Refresh, http.MethodPost, "/api/v1/feed/refresh?wait=true", "")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("Expected status 502, got %d", w.Code)
	}
	resp := decodeResponse(t, w, nil)
	if resp.Error == nil || resp.Error.Code != ErrCodeExternalServiceFail {
		t.Errorf("Error = %+v, want %s", resp.Error, ErrCodeExternalServiceFail)
	}
	if got := h.store.Snapshot().Overall.Status; got != feed.StatusError {
		t.Errorf("Overall = %q, want error", got)
	}
}

func TestRefresh_ReloadLibraries(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, newStubCatalog())
	views := &recordingViews{}
	h.SetViewsCache(views)

	w := doRequest(t, h.Refresh, http.MethodPost, "/api/v1/feed/refresh", `{"reload_libraries": true}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d", w.Code)
	}
	if len(views.invalidated) != 1 || views.invalidated[0] != "" {
		t.Errorf("invalidated = %v, want one full flush", views.invalidated)
	}
}

func TestRefresh_RequestEndsWhileWaiting(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, newStubCatalog())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/feed/refresh?wait=true", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	h.Refresh(w, req)

	// Phase one may win the race against the cancelled context.
	if w.Code != http.StatusServiceUnavailable && w.Code != http.StatusOK {
		t.Errorf("Expected status 503 or 200, got %d", w.Code)
	}
}

// actionRouter mounts ItemAction so chi.URLParam resolves.
func actionRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/v1/items/{id}/actions", h.ItemAction)
	return r
}

func postAction(t *testing.T, h *Handler, itemID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items/"+itemID+"/actions", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	actionRouter(h).ServeHTTP(w, req)
	return w
}

func TestItemAction_MarkWatched(t *testing.T) {
	t.Parallel()

	client := newStubCatalog()
	h := newTestHandler(t, client)

	w := postAction(t, h, testItemID, `{"action": "mark_watched"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d: %s", w.Code, w.Body.String())
	}

	var out ActionResponse
	decodeResponse(t, w, &out)
	if out.ItemID != testItemID || out.Action != "mark_watched" {
		t.Errorf("response = %+v", out)
	}
	if out.Session == 0 {
		t.Error("Expected the reload session in the response")
	}
	if played, ok := client.isPlayed(testItemID); !ok || !played {
		t.Error("Expected the item to be marked played on the media server")
	}
}

func TestItemAction_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		itemID   string
		body     string
		setup    func(*stubCatalog)
		wantCode int
	}{
		{
			name:     "invalid item id",
			itemID:   "not-an-id",
			body:     `{"action": "favorite"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown action",
			itemID:   testItemID,
			body:     `{"action": "delete"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing body",
			itemID:   testItemID,
			body:     "",
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "item not found",
			itemID: testItemID,
			body:   `{"action": "mark_unwatched"}`,
			setup: func(c *stubCatalog) {
				c.writeErr = &catalog.StatusError{Op: "played", StatusCode: http.StatusNotFound}
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:   "media server failure",
			itemID: testItemID,
			body:   `{"action": "unfavorite"}`,
			setup: func(c *stubCatalog) {
				c.writeErr = &catalog.StatusError{Op: "favorite", StatusCode: http.StatusInternalServerError}
			},
			wantCode: http.StatusBadGateway,
		},
		{
			name:     "no user",
			itemID:   testItemID,
			body:     `{"action": "favorite"}`,
			setup:    func(c *stubCatalog) { c.user = nil },
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newStubCatalog()
			if tt.setup != nil {
				tt.setup(client)
			}
			h := newTestHandler(t, client)

			w := postAction(t, h, tt.itemID, tt.body)
			if w.Code != tt.wantCode {
				t.Errorf("Expected status %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			if h.store.Snapshot().Session != 0 {
				t.Error("A failed action must not start a reload")
			}
		})
	}
}

func TestBackdrop_SetAndClear(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, newStubCatalog())

	w := doRequest(t, h.Backdrop, http.MethodPost, "/api/v1/feed/backdrop",
		`{"item": {"id": "`+testItemID+`", "title": "Heat", "kind": "Movie"}}`)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d: %s", w.Code, w.Body.String())
	}
	backdrop := h.store.Snapshot().Backdrop
	if backdrop == nil || backdrop.ID != testItemID {
		t.Fatalf("Backdrop = %+v, want %s", backdrop, testItemID)
	}

	w = doRequest(t, h.Backdrop, http.MethodPost, "/api/v1/feed/backdrop", `{"item": null}`)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", w.Code)
	}
	if h.store.Snapshot().Backdrop != nil {
		t.Error("Expected backdrop to be cleared")
	}
}

func TestBackdrop_InvalidItem(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, newStubCatalog())
	w := doRequest(t, h.Backdrop, http.MethodPost, "/api/v1/feed/backdrop", `{"item": {"id": "../etc"}}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if h.store.Snapshot().Backdrop != nil {
		t.Error("Invalid backdrop must not be stored")
	}
}

func TestWriteFeedError_Mapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{feed.ErrNoUser, http.StatusConflict},
		{feed.ErrSuperseded, http.StatusConflict},
		{feed.ErrInvalidOptions, http.StatusBadRequest},
		{feed.ErrUnknownAction, http.StatusBadRequest},
		{&catalog.StatusError{Op: "items", StatusCode: http.StatusNotFound}, http.StatusNotFound},
		{errors.New("dial tcp: refused"), http.StatusBadGateway},
	}

	h := &Handler{}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		h.writeFeedError(NewResponseWriter(w, r), tt.err)
		if w.Code != tt.want {
			t.Errorf("writeFeedError(%v) = %d, want %d", tt.err, w.Code, tt.want)
		}
	}
}
