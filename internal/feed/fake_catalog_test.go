// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package feed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/models"
)

// fakeCatalog is an in-memory catalog.Client. Played and favorite writes
// are reflected on every item it returns afterwards.
type fakeCatalog struct {
	mu sync.Mutex

	user    *models.User
	userErr error

	views    []models.Library
	viewsErr error

	resume    []models.MediaItem
	resumeErr error
	nextUp    []models.MediaItem

	// itemsFn answers GetItems; nil returns no items.
	itemsFn func(q catalog.ItemQuery) ([]models.MediaItem, error)

	latest    map[string][]models.MediaItem
	latestErr map[string]error
	latestFn  func(ctx context.Context, parentID string) ([]models.MediaItem, error)

	programs    []models.MediaItem
	programsErr error

	writeErr error
	played   map[string]bool
	favorite map[string]bool

	calls map[string]int
	items []catalog.ItemQuery
}

var _ catalog.Client = (*fakeCatalog)(nil)

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		user:      &models.User{ID: "user-1", Name: "Alice"},
		latest:    make(map[string][]models.MediaItem),
		latestErr: make(map[string]error),
		played:    make(map[string]bool),
		favorite:  make(map[string]bool),
		calls:     make(map[string]int),
	}
}

func (f *fakeCatalog) record(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

func (f *fakeCatalog) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// decorate applies recorded user data to copies of items.
func (f *fakeCatalog) decorate(items []models.MediaItem) []models.MediaItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.MediaItem, len(items))
	for i, item := range items {
		if v, ok := f.played[item.ID]; ok {
			item.Watched = v
		}
		if v, ok := f.favorite[item.ID]; ok {
			item.Favorite = v
		}
		out[i] = item
	}
	return out
}

func (f *fakeCatalog) Ping(context.Context) error { return nil }

func (f *fakeCatalog) CurrentUser(context.Context) (*models.User, error) {
	f.record("user")
	return f.user, f.userErr
}

func (f *fakeCatalog) GetUserViews(context.Context, string) ([]models.Library, error) {
	f.record("views")
	return f.views, f.viewsErr
}

func (f *fakeCatalog) GetItems(_ context.Context, q catalog.ItemQuery) ([]models.MediaItem, error) {
	f.record("items")
	f.mu.Lock()
	f.items = append(f.items, q)
	fn := f.itemsFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	items, err := fn(q)
	if err != nil {
		return nil, err
	}
	return f.decorate(items), nil
}

func (f *fakeCatalog) GetResumeItems(context.Context, string, int) ([]models.MediaItem, error) {
	f.record("resume")
	if f.resumeErr != nil {
		return nil, f.resumeErr
	}
	// Watched items leave the resume shelf, as on the real server.
	items := f.decorate(f.resume)
	out := items[:0]
	for _, item := range items {
		if !item.Watched {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetNextUp(context.Context, catalog.NextUpQuery) ([]models.MediaItem, error) {
	f.record("next_up")
	return f.decorate(f.nextUp), nil
}

// GetLatest and GetPrograms cut their result to the requested limit the way
// the server does, before any client-side dedupe.
func (f *fakeCatalog) GetLatest(ctx context.Context, _ string, parentID string, limit int) ([]models.MediaItem, error) {
	f.record("latest")
	if f.latestFn != nil {
		items, err := f.latestFn(ctx, parentID)
		return serverLimit(items, limit), err
	}
	f.mu.Lock()
	items, err := f.latest[parentID], f.latestErr[parentID]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return serverLimit(f.decorate(items), limit), nil
}

func (f *fakeCatalog) GetPrograms(_ context.Context, q catalog.ProgramQuery) ([]models.MediaItem, error) {
	f.record("programs")
	if f.programsErr != nil {
		return nil, f.programsErr
	}
	return serverLimit(f.programs, q.Limit), nil
}

func serverLimit(items []models.MediaItem, limit int) []models.MediaItem {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func (f *fakeCatalog) SetPlayed(_ context.Context, _, itemID string, played bool) error {
	f.record("set_played")
	if f.writeErr != nil {
		return f.writeErr
	}
	f.mu.Lock()
	f.played[itemID] = played
	f.mu.Unlock()
	return nil
}

func (f *fakeCatalog) SetFavorite(_ context.Context, _, itemID string, favorite bool) error {
	f.record("set_favorite")
	if f.writeErr != nil {
		return f.writeErr
	}
	f.mu.Lock()
	f.favorite[itemID] = favorite
	f.mu.Unlock()
	return nil
}

// waitFor fails the test if ch is not closed within a few seconds.
func waitFor(t *testing.T, name string, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", name)
	}
}

func testItem(id string) models.MediaItem {
	return models.MediaItem{ID: id, Title: id, Kind: models.KindMovie}
}

func itemIDs(items []models.MediaItem) []string {
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids
}
