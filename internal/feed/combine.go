// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package feed

import (
	"fmt"
	"slices"

	"github.com/tomtom215/marquee/internal/models"
)

// Combine strategies accepted by NewCombiner.
const (
	StrategyRecent     = "recent"
	StrategyInterleave = "interleave"
)

// Combiner merges the resume and next-up lists into one row. Implementations
// consider both lists in full, drop repeated IDs and return at most limit items.
type Combiner interface {
	Combine(resume, nextUp []models.MediaItem, limit int) []models.MediaItem
}

// NewCombiner returns the combiner for strategy. An empty strategy selects
// StrategyRecent.
func NewCombiner(strategy string) (Combiner, error) {
	switch strategy {
	case StrategyRecent, "":
		return RecentCombiner{}, nil
	case StrategyInterleave:
		return InterleaveCombiner{}, nil
	default:
		return nil, fmt.Errorf("unknown combine strategy %q", strategy)
	}
}

// RecentCombiner orders by most recent playback first. Items never played
// keep their source order after all played items, resume before next-up.
type RecentCombiner struct{}

// Combine implements Combiner.
func (RecentCombiner) Combine(resume, nextUp []models.MediaItem, limit int) []models.MediaItem {
	merged := make([]models.MediaItem, 0, len(resume)+len(nextUp))
	merged = append(merged, resume...)
	merged = append(merged, nextUp...)
	merged = Deduplicate(merged)

	slices.SortStableFunc(merged, func(a, b models.MediaItem) int {
		switch {
		case a.LastPlayedAt.IsZero() && b.LastPlayedAt.IsZero():
			return 0
		case a.LastPlayedAt.IsZero():
			return 1
		case b.LastPlayedAt.IsZero():
			return -1
		}
		return b.LastPlayedAt.Compare(a.LastPlayedAt)
	})

	return truncate(merged, limit)
}

// InterleaveCombiner alternates resume and next-up, starting with resume.
type InterleaveCombiner struct{}

// Combine implements Combiner.
func (InterleaveCombiner) Combine(resume, nextUp []models.MediaItem, limit int) []models.MediaItem {
	merged := make([]models.MediaItem, 0, len(resume)+len(nextUp))
	for i := 0; i < len(resume) || i < len(nextUp); i++ {
		if i < len(resume) {
			merged = append(merged, resume[i])
		}
		if i < len(nextUp) {
			merged = append(merged, nextUp[i])
		}
	}
	return truncate(Deduplicate(merged), limit)
}
