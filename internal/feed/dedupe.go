// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package feed

import "github.com/tomtom215/marquee/internal/models"

// Deduplicate returns items with only the first occurrence of each ID kept,
// in their original order. The input is not modified.
func Deduplicate(items []models.MediaItem) []models.MediaItem {
	out := make([]models.MediaItem, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i := range items {
		if _, dup := seen[items[i].ID]; dup {
			continue
		}
		seen[items[i].ID] = struct{}{}
		out = append(out, items[i])
	}
	return out
}

// truncate bounds items to limit. limit <= 0 yields an empty slice.
func truncate(items []models.MediaItem, limit int) []models.MediaItem {
	if limit <= 0 {
		return []models.MediaItem{}
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
