// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package models

import "time"

// MediaKind classifies a catalog item.
type MediaKind string

const (
	KindMovie            MediaKind = "movie"
	KindSeries           MediaKind = "series"
	KindEpisode          MediaKind = "episode"
	KindLiveProgram      MediaKind = "live_program"
	KindChannel          MediaKind = "channel"
	KindBoxSet           MediaKind = "box_set"
	KindCollectionFolder MediaKind = "collection_folder"
	KindFolder           MediaKind = "folder"
	KindOther            MediaKind = "other"
)

// jellyfinTypeNames maps kinds to the BaseItemKind names used by the Jellyfin API.
var jellyfinTypeNames = map[MediaKind]string{
	KindMovie:            "Movie",
	KindSeries:           "Series",
	KindEpisode:          "Episode",
	KindLiveProgram:      "Program",
	KindChannel:          "TvChannel",
	KindBoxSet:           "BoxSet",
	KindCollectionFolder: "CollectionFolder",
	KindFolder:           "Folder",
}

// JellyfinType returns the Jellyfin BaseItemKind name for k, or "" for KindOther.
func (k MediaKind) JellyfinType() string {
	return jellyfinTypeNames[k]
}

// KindFromJellyfinType maps a Jellyfin BaseItemKind name to a MediaKind.
func KindFromJellyfinType(t string) MediaKind {
	switch t {
	case "Movie":
		return KindMovie
	case "Series":
		return KindSeries
	case "Episode":
		return KindEpisode
	case "Program", "LiveTvProgram":
		return KindLiveProgram
	case "TvChannel", "LiveTvChannel":
		return KindChannel
	case "BoxSet":
		return KindBoxSet
	case "CollectionFolder":
		return KindCollectionFolder
	case "Folder":
		return KindFolder
	default:
		return KindOther
	}
}

// MediaItem is an immutable snapshot of one catalog item at fetch time.
// Rows own their items; nothing mutates a MediaItem after it is built.
type MediaItem struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Kind  MediaKind `json:"kind"`

	// Progress is the playback position as a percentage in [0,100], nil when
	// the item has never been started.
	Progress *float64 `json:"progress,omitempty"`
	Watched  bool     `json:"watched"`
	Favorite bool     `json:"favorite"`

	// SeriesID links an episode to its series; ChannelID links a live
	// program to its channel.
	SeriesID  string `json:"series_id,omitempty"`
	ChannelID string `json:"channel_id,omitempty"`

	PremiereDate time.Time `json:"premiere_date"`
	LastPlayedAt time.Time `json:"last_played_at"`

	// StartDate and EndDate are only set for live programs.
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// HasProgress reports whether the item carries a partial playback position.
func (m *MediaItem) HasProgress() bool {
	return m.Progress != nil && *m.Progress > 0 && *m.Progress < 100
}

// AiringAt reports whether a live program's broadcast window contains t.
func (m *MediaItem) AiringAt(t time.Time) bool {
	if m.StartDate.IsZero() || m.EndDate.IsZero() {
		return false
	}
	return !t.Before(m.StartDate) && t.Before(m.EndDate)
}

// Collection types reported by Jellyfin user views.
const (
	CollectionMovies      = "movies"
	CollectionTVShows     = "tvshows"
	CollectionHomeVideos  = "homevideos"
	CollectionLiveTV      = "livetv"
	CollectionMusic       = "music"
	CollectionBoxSets     = "boxsets"
	CollectionPlaylists   = "playlists"
	CollectionMixed       = ""
	CollectionBooks       = "books"
	CollectionMusicVideos = "musicvideos"
)

// Library is a user-visible collection root such as "Movies" or "TV Shows".
type Library struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	CollectionType string `json:"collection_type,omitempty"`
}

// User identifies the catalog user a feed is built for.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
