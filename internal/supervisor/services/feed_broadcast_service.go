// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"errors"

	"github.com/tomtom215/marquee/internal/feed"
	"github.com/tomtom215/marquee/internal/logging"
)

// defaultBroadcastBuffer absorbs one full session's worth of publishes.
const defaultBroadcastBuffer = 64

var errSubscriptionClosed = errors.New("feed subscription closed")

// UpdateSource is satisfied by *feed.Store.
type UpdateSource interface {
	Subscribe(buffer int, fields ...feed.Field) (<-chan feed.Update, func())
}

// UpdateBroadcaster is satisfied by *websocket.Hub.
type UpdateBroadcaster interface {
	BroadcastFeedUpdate(update feed.Update)
}

// FeedBroadcastService forwards every store publish to the WebSocket hub.
// Updates carry the full snapshot, so one dropped by the store's
// non-blocking delivery is superseded by the next.
type FeedBroadcastService struct {
	source UpdateSource
	hub    UpdateBroadcaster
	buffer int
	name   string
}

// NewFeedBroadcastService bridges source to hub.
func NewFeedBroadcastService(source UpdateSource, hub UpdateBroadcaster) *FeedBroadcastService {
	return &FeedBroadcastService{
		source: source,
		hub:    hub,
		buffer: defaultBroadcastBuffer,
		name:   "feed-broadcast",
	}
}

// Serve implements suture.Service. A subscription is taken per run, so a
// restart resubscribes.
func (s *FeedBroadcastService) Serve(ctx context.Context) error {
	updates, unsubscribe := s.source.Subscribe(s.buffer)
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return errSubscriptionClosed
			}
			logging.Trace().
				Str("field", string(update.Field)).
				Uint64("seq", update.Snapshot.Seq).
				Msg("Broadcasting feed update")
			s.hub.BroadcastFeedUpdate(update)
		}
	}
}

func (s *FeedBroadcastService) String() string {
	return s.name
}
