// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import "github.com/tomtom215/marquee/internal/feed"

// RefreshRequest is the optional body of POST /api/v1/feed/refresh. Fields
// left nil keep the value of the previous session.
type RefreshRequest struct {
	MaxItemsPerRow         *int     `json:"max_items_per_row" validate:"omitnil,min=1,max=200"`
	EnableRewatchingNextUp *bool    `json:"enable_rewatching_next_up"`
	CombineContinueNext    *bool    `json:"combine_continue_next"`
	CombineStrategy        *string  `json:"combine_strategy" validate:"omitnil,oneof=recent interleave"`
	HeroLimit              *int     `json:"hero_limit" validate:"omitnil,min=0,max=50"`
	ExcludedLibraries      []string `json:"excluded_libraries" validate:"omitempty,max=100,dive,min=1,max=200"`

	// ReloadLibraries drops the cached library list before the reload.
	ReloadLibraries bool `json:"reload_libraries"`
}

// apply overlays the request onto base.
func (req *RefreshRequest) apply(base feed.Options) feed.Options {
	opts := base
	if req.MaxItemsPerRow != nil {
		opts.MaxItemsPerRow = *req.MaxItemsPerRow
	}
	if req.EnableRewatchingNextUp != nil {
		opts.EnableRewatchingNextUp = *req.EnableRewatchingNextUp
	}
	if req.CombineContinueNext != nil {
		opts.CombineContinueNext = *req.CombineContinueNext
	}
	if req.CombineStrategy != nil {
		opts.CombineStrategy = *req.CombineStrategy
	}
	if req.HeroLimit != nil {
		opts.HeroLimit = *req.HeroLimit
	}
	if req.ExcludedLibraries != nil {
		opts.ExcludedLibraries = append([]string(nil), req.ExcludedLibraries...)
	}
	return opts
}

// ItemActionRequest is the body of POST /api/v1/items/{id}/actions. ItemID
// is filled from the path.
type ItemActionRequest struct {
	ItemID string `json:"-" validate:"required,itemid"`
	Action string `json:"action" validate:"required,oneof=mark_watched mark_unwatched favorite unfavorite"`
}

// BackdropRequest is the body of POST /api/v1/feed/backdrop. A null item
// clears the backdrop.
type BackdropRequest struct {
	Item *BackdropItem `json:"item"`
}

// BackdropItem identifies the item shown behind the feed.
type BackdropItem struct {
	ID    string `json:"id" validate:"required,itemid"`
	Title string `json:"title" validate:"max=500"`
	Kind  string `json:"kind" validate:"omitempty,max=50"`
}

// ActionResponse is returned after a user action was written.
type ActionResponse struct {
	ItemID  string `json:"item_id"`
	Action  string `json:"action"`
	Session uint64 `json:"session"`
	LoadID  string `json:"load_id"`
}

// RefreshResponse is returned after a reload was started.
type RefreshResponse struct {
	Session uint64 `json:"session"`
	LoadID  string `json:"load_id"`
}
