// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package models

import (
	"strings"
	"time"
)

// ============================================================================
// Jellyfin REST Models
// ============================================================================
// Wire shapes returned by the Jellyfin item, view and live TV endpoints.
// Dates are kept as strings because Jellyfin emits 7-digit fractional
// seconds and sometimes omits the zone designator.
// Documentation: https://api.jellyfin.org/

// JellyfinItem is a BaseItemDto as returned by /Items and related endpoints.
type JellyfinItem struct {
	ID             string `json:"Id"`
	Name           string `json:"Name"`
	Type           string `json:"Type"`                     // "Movie", "Series", "Episode", "Program", ...
	CollectionType string `json:"CollectionType,omitempty"` // Only set on user views

	SeriesID   string `json:"SeriesId,omitempty"`
	SeriesName string `json:"SeriesName,omitempty"`
	ChannelID  string `json:"ChannelId,omitempty"`
	ParentID   string `json:"ParentId,omitempty"`

	PremiereDate string `json:"PremiereDate,omitempty"`
	DateCreated  string `json:"DateCreated,omitempty"`
	StartDate    string `json:"StartDate,omitempty"` // Live programs only
	EndDate      string `json:"EndDate,omitempty"`   // Live programs only

	RunTimeTicks int64 `json:"RunTimeTicks,omitempty"`
	IsSports     bool  `json:"IsSports,omitempty"`

	UserData *JellyfinUserData `json:"UserData,omitempty"`
}

// JellyfinUserData is the per-user state attached to an item.
type JellyfinUserData struct {
	PlayedPercentage      *float64 `json:"PlayedPercentage,omitempty"`
	PlaybackPositionTicks int64    `json:"PlaybackPositionTicks"`
	Played                bool     `json:"Played"`
	IsFavorite            bool     `json:"IsFavorite"`
	LastPlayedDate        string   `json:"LastPlayedDate,omitempty"`
}

// JellyfinItemsResult is the paged envelope around item queries.
type JellyfinItemsResult struct {
	Items            []JellyfinItem `json:"Items"`
	TotalRecordCount int            `json:"TotalRecordCount"`
	StartIndex       int            `json:"StartIndex"`
}

// JellyfinUser is the subset of UserDto the feed needs.
type JellyfinUser struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// jellyfinTimeLayouts are tried in order by ParseJellyfinTime.
var jellyfinTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseJellyfinTime parses a Jellyfin timestamp. Values without a zone are
// treated as UTC. Unparseable or empty values yield the zero time.
func ParseJellyfinTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range jellyfinTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// ToMediaItem maps a Jellyfin item onto the feed's immutable item snapshot.
func (j *JellyfinItem) ToMediaItem() MediaItem {
	item := MediaItem{
		ID:           j.ID,
		Title:        j.Name,
		Kind:         KindFromJellyfinType(j.Type),
		SeriesID:     j.SeriesID,
		ChannelID:    j.ChannelID,
		PremiereDate: ParseJellyfinTime(j.PremiereDate),
		StartDate:    ParseJellyfinTime(j.StartDate),
		EndDate:      ParseJellyfinTime(j.EndDate),
	}

	if ud := j.UserData; ud != nil {
		item.Watched = ud.Played
		item.Favorite = ud.IsFavorite
		item.LastPlayedAt = ParseJellyfinTime(ud.LastPlayedDate)

		switch {
		case ud.PlayedPercentage != nil:
			p := clampPercent(*ud.PlayedPercentage)
			item.Progress = &p
		case ud.PlaybackPositionTicks > 0 && j.RunTimeTicks > 0:
			p := clampPercent(float64(ud.PlaybackPositionTicks) * 100 / float64(j.RunTimeTicks))
			item.Progress = &p
		}
	}

	return item
}

// ToLibrary maps a user view onto a Library.
func (j *JellyfinItem) ToLibrary() Library {
	return Library{
		ID:             j.ID,
		Name:           j.Name,
		CollectionType: strings.ToLower(j.CollectionType),
	}
}

// MediaItemsFromJellyfin maps a slice of Jellyfin items, preserving order.
func MediaItemsFromJellyfin(items []JellyfinItem) []MediaItem {
	out := make([]MediaItem, 0, len(items))
	for i := range items {
		out = append(out, items[i].ToMediaItem())
	}
	return out
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
