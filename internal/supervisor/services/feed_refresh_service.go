// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/tomtom215/marquee/internal/feed"
	"github.com/tomtom215/marquee/internal/logging"
)

// Refresher is satisfied by *feed.Orchestrator.
type Refresher interface {
	Refresh(ctx context.Context) *feed.Handle
}

// FeedRefreshService re-runs the feed on a fixed interval and optionally
// once at startup. A tick that finds the previous session still running is
// skipped rather than superseding it.
type FeedRefreshService struct {
	refresher   Refresher
	interval    time.Duration
	loadOnStart bool

	// initialDone survives supervisor restarts so the startup load runs once.
	initialDone atomic.Bool
	last        *feed.Handle
	name        string
}

// NewFeedRefreshService creates the scheduler. interval <= 0 disables
// periodic refresh.
func NewFeedRefreshService(refresher Refresher, interval time.Duration, loadOnStart bool) *FeedRefreshService {
	return &FeedRefreshService{
		refresher:   refresher,
		interval:    interval,
		loadOnStart: loadOnStart,
		name:        "feed-refresh",
	}
}

// Serve implements suture.Service.
func (s *FeedRefreshService) Serve(ctx context.Context) error {
	if s.loadOnStart && s.initialDone.CompareAndSwap(false, true) {
		s.last = s.refresher.Refresh(ctx)
		logging.Info().Str("load_id", s.last.ID()).Msg("Initial feed load started")
	}

	if s.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *FeedRefreshService) tick(ctx context.Context) {
	if s.last != nil {
		select {
		case <-s.last.Done():
		default:
			logging.Debug().Str("load_id", s.last.ID()).Msg("Previous feed load still running, skipping scheduled refresh")
			return
		}
	}
	s.last = s.refresher.Refresh(ctx)
	logging.Debug().Str("load_id", s.last.ID()).Dur("interval", s.interval).Msg("Scheduled feed refresh started")
}

func (s *FeedRefreshService) String() string {
	return s.name
}
