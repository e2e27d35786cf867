// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package feed

import (
	"context"
	"math/rand/v2"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/models"
)

// DefaultHeroLimit is the carousel size when none is configured.
const DefaultHeroLimit = 10

// DefaultFeaturedName is the container searched for curated hero items.
const DefaultFeaturedName = "Featured"

var (
	featuredContainerKinds = []models.MediaKind{models.KindCollectionFolder, models.KindBoxSet, models.KindFolder}
	heroKinds              = []models.MediaKind{models.KindMovie, models.KindSeries}
)

// HeroOptions configures a HeroSelector.
type HeroOptions struct {
	// FeaturedName is the search term for the curated container.
	FeaturedName string

	// Rand shuffles fallback items. Nil uses the shared global source.
	Rand *rand.Rand
}

// HeroSelector picks the items shown in the hero carousel: the children of
// a curated "Featured" container when one exists, otherwise a shuffled mix
// of recently released titles across the user's libraries.
type HeroSelector struct {
	client       catalog.Client
	featuredName string

	randMu sync.Mutex
	rand   *rand.Rand
}

// NewHeroSelector creates a hero selector over client.
func NewHeroSelector(client catalog.Client, opts HeroOptions) *HeroSelector {
	name := opts.FeaturedName
	if name == "" {
		name = DefaultFeaturedName
	}
	return &HeroSelector{
		client:       client,
		featuredName: name,
		rand:         opts.Rand,
	}
}

// Select returns at most n hero items for userID. libraryIDs scopes the
// fallback tier. An empty result is valid; failures are never returned.
func (h *HeroSelector) Select(ctx context.Context, userID string, libraryIDs []string, n int) []models.MediaItem {
	if n <= 0 {
		return []models.MediaItem{}
	}

	featured := func(ctx context.Context) ([]models.MediaItem, error) {
		return h.featured(ctx, userID, n)
	}
	recent := func(ctx context.Context) ([]models.MediaItem, error) {
		return h.recentlyReleased(ctx, userID, libraryIDs, n), nil
	}
	return truncate(Resolve(ctx, featured, recent), n)
}

// featured lists the direct movie and series children of the first
// container matching the featured name, newest release first.
func (h *HeroSelector) featured(ctx context.Context, userID string, n int) ([]models.MediaItem, error) {
	containers, err := h.client.GetItems(ctx, catalog.ItemQuery{
		UserID:     userID,
		SearchTerm: h.featuredName,
		Kinds:      featuredContainerKinds,
		SortBy:     []string{catalog.SortByName},
		Recursive:  true,
		Limit:      1,
	})
	if err != nil {
		return nil, err
	}
	if len(containers) == 0 {
		return nil, nil
	}

	return h.client.GetItems(ctx, catalog.ItemQuery{
		UserID:    userID,
		ParentID:  containers[0].ID,
		Kinds:     heroKinds,
		SortBy:    []string{catalog.SortByPremiereDate},
		SortOrder: catalog.Descending,
		Recursive: false,
		Limit:     n,
	})
}

// maxHeroLibraryQueries bounds the per-library fallback fan-out.
const maxHeroLibraryQueries = 4

// recentlyReleased over-fetches 2n recent titles per library, merges,
// dedupes and shuffles them. Libraries are queried concurrently; a failing
// library is logged and skipped.
func (h *HeroSelector) recentlyReleased(ctx context.Context, userID string, libraryIDs []string, n int) []models.MediaItem {
	perLibrary := make([][]models.MediaItem, len(libraryIDs))

	var g errgroup.Group
	g.SetLimit(maxHeroLibraryQueries)
	for i, libID := range libraryIDs {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			items, err := h.client.GetItems(ctx, catalog.ItemQuery{
				UserID:    userID,
				ParentID:  libID,
				Kinds:     heroKinds,
				SortBy:    []string{catalog.SortByPremiereDate},
				SortOrder: catalog.Descending,
				Recursive: true,
				Limit:     n * 2,
			})
			if err != nil {
				if ctx.Err() == nil {
					logging.Ctx(ctx).Warn().Err(err).Str("library_id", libID).Msg("Failed to load recently released items for hero")
				}
				return nil
			}
			perLibrary[i] = items
			return nil
		})
	}
	_ = g.Wait()

	var merged []models.MediaItem
	for _, items := range perLibrary {
		merged = append(merged, items...)
	}
	merged = Deduplicate(merged)
	h.shuffle(merged)
	return truncate(merged, n)
}

func (h *HeroSelector) shuffle(items []models.MediaItem) {
	swap := func(i, j int) { items[i], items[j] = items[j], items[i] }
	if h.rand == nil {
		rand.Shuffle(len(items), swap)
		return
	}
	h.randMu.Lock()
	defer h.randMu.Unlock()
	h.rand.Shuffle(len(items), swap)
}
