// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package models defines the data structures shared across Marquee.

Key Components:

  - MediaItem: immutable snapshot of one catalog item at fetch time
  - MediaKind: movie, series, episode, live program, channel and the
    collection-like kinds used to resolve the "Featured" container
  - Library: a user-visible collection root (user view)
  - User: the catalog user a feed is built for

Jellyfin Models:

  - JellyfinItem / JellyfinUserData: BaseItemDto wire shape
  - JellyfinItemsResult: paged item query envelope
  - JellyfinUser: user lookup response

JellyfinItem.ToMediaItem and ToLibrary convert wire shapes into domain
types. Timestamps go through ParseJellyfinTime, which tolerates Jellyfin's
7-digit fractional seconds and missing zone designators.

Thread Safety:

MediaItem values are never mutated after construction, so slices of them
may be shared between goroutines once published.
*/
package models
