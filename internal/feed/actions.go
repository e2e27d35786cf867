// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package feed

import (
	"context"
	"fmt"

	"github.com/tomtom215/marquee/internal/catalog"
)

// Action is a user-data change made from the feed.
type Action string

const (
	ActionMarkWatched   Action = "mark_watched"
	ActionMarkUnwatched Action = "mark_unwatched"
	ActionFavorite      Action = "favorite"
	ActionUnfavorite    Action = "unfavorite"
)

// ParseAction validates a wire action name.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionMarkWatched, ActionMarkUnwatched, ActionFavorite, ActionUnfavorite:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

// apply writes the action to the catalog.
func (a Action) apply(ctx context.Context, client catalog.Client, userID, itemID string) error {
	switch a {
	case ActionMarkWatched:
		return client.SetPlayed(ctx, userID, itemID, true)
	case ActionMarkUnwatched:
		return client.SetPlayed(ctx, userID, itemID, false)
	case ActionFavorite:
		return client.SetFavorite(ctx, userID, itemID, true)
	case ActionUnfavorite:
		return client.SetFavorite(ctx, userID, itemID, false)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, string(a))
	}
}
