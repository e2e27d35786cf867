// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package feed

import (
	"context"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/models"
)

// Source produces an ordered list of items, typically from one or more
// catalog queries.
type Source func(ctx context.Context) ([]models.MediaItem, error)

// Resolve returns primary's items when it yields any. Otherwise it returns
// secondary's items. secondary is only called when primary is empty or
// failed, and a failure of either is logged and treated as empty.
func Resolve(ctx context.Context, primary, secondary Source) []models.MediaItem {
	if items := evaluate(ctx, primary, "primary"); len(items) > 0 {
		return items
	}
	return evaluate(ctx, secondary, "secondary")
}

func evaluate(ctx context.Context, src Source, tier string) []models.MediaItem {
	if src == nil {
		return []models.MediaItem{}
	}
	items, err := src(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logging.Ctx(ctx).Warn().Err(err).Str("tier", tier).Msg("Feed source failed, treating as empty")
		}
		return []models.MediaItem{}
	}
	if items == nil {
		return []models.MediaItem{}
	}
	return items
}
