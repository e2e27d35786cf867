// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/feed"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/models"
)

func init() {
	logging.Init(logging.Config{Level: "disabled", Output: io.Discard})
}

const (
	testItemID  = "0123456789abcdef0123456789abcdef"
	otherItemID = "fedcba9876543210fedcba9876543210"
)

// stubCatalog is a catalog.Client with fixed answers.
type stubCatalog struct {
	mu sync.Mutex

	user     *models.User
	pingErr  error
	viewsErr error
	writeErr error

	views  []models.Library
	resume []models.MediaItem
	latest []models.MediaItem

	played map[string]bool
	pings  int
}

var _ catalog.Client = (*stubCatalog)(nil)

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		user:   &models.User{ID: "user-1", Name: "Alice"},
		views:  []models.Library{{ID: "lib-movies", Name: "Movies", CollectionType: "movies"}},
		resume: []models.MediaItem{{ID: testItemID, Title: "Heat", Kind: models.KindMovie}},
		latest: []models.MediaItem{{ID: otherItemID, Title: "Ronin", Kind: models.KindMovie}},
		played: make(map[string]bool),
	}
}

func (s *stubCatalog) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pings++
	return s.pingErr
}

func (s *stubCatalog) CurrentUser(context.Context) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, nil
}

func (s *stubCatalog) GetUserViews(context.Context, string) ([]models.Library, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.views, s.viewsErr
}

func (s *stubCatalog) GetItems(context.Context, catalog.ItemQuery) ([]models.MediaItem, error) {
	return nil, nil
}

func (s *stubCatalog) GetResumeItems(context.Context, string, int) ([]models.MediaItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resume, nil
}

func (s *stubCatalog) GetNextUp(context.Context, catalog.NextUpQuery) ([]models.MediaItem, error) {
	return nil, nil
}

func (s *stubCatalog) GetLatest(context.Context, string, string, int) ([]models.MediaItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, nil
}

func (s *stubCatalog) GetPrograms(context.Context, catalog.ProgramQuery) ([]models.MediaItem, error) {
	return nil, nil
}

func (s *stubCatalog) SetPlayed(_ context.Context, _, itemID string, played bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.played[itemID] = played
	return nil
}

func (s *stubCatalog) SetFavorite(context.Context, string, string, bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeErr
}

func (s *stubCatalog) isPlayed(itemID string) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.played[itemID]
	return v, ok
}

// newTestHandler builds a handler over client with no WebSocket hub.
func newTestHandler(t *testing.T, client catalog.Client) *Handler {
	t.Helper()

	store := feed.NewStore()
	orch := feed.NewOrchestrator(client, store, feed.NewHeroSelector(client, feed.HeroOptions{}))
	t.Cleanup(orch.Close)

	cfg := &config.Config{
		Security: config.SecurityConfig{CORSOrigins: []string{"https://app.example.com"}},
	}
	return NewHandler(orch, client, nil, cfg)
}

// doRequest runs handler with an optional JSON body.
func doRequest(t *testing.T, handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

// decodeResponse unmarshals the envelope and, when data is non-nil, its data field.
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, data interface{}) APIResponse {
	t.Helper()

	var raw struct {
		APIResponse
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("Failed to unmarshal response %q: %v", w.Body.String(), err)
	}
	if data != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			t.Fatalf("Failed to unmarshal data: %v", err)
		}
	}
	return raw.APIResponse
}

// loadFeed starts a session and waits for phase one.
func loadFeed(t *testing.T, h *Handler) {
	t.Helper()
	if err := h.orchestrator.StartOrRefresh(context.Background(), feed.DefaultOptions()).Wait(context.Background()); err != nil {
		t.Fatalf("initial load failed: %v", err)
	}
}
