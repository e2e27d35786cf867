// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"context"
	"time"

	"github.com/tomtom215/marquee/internal/cache"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
)

// Ensure CachingClient implements Client
var _ Client = (*CachingClient)(nil)

const viewsCacheName = "views"

// CachingClient keeps each user's library list for a TTL so refreshes
// reuse it. Every other call passes straight through; item queries are
// never cached because the feed must reflect watched and favorite writes.
type CachingClient struct {
	Client
	views *cache.Cache[[]models.Library]
}

// NewCachingClient wraps client with a views cache. ttl <= 0 returns a
// client that caches nothing.
func NewCachingClient(client Client, ttl time.Duration) *CachingClient {
	c := &CachingClient{Client: client}
	if ttl > 0 {
		c.views = cache.New[[]models.Library](ttl, ttl)
	}
	return c
}

// GetUserViews returns the cached library list when fresh.
func (c *CachingClient) GetUserViews(ctx context.Context, userID string) ([]models.Library, error) {
	if c.views == nil {
		return c.Client.GetUserViews(ctx, userID)
	}

	if libs, ok := c.views.Get(userID); ok {
		metrics.RecordCacheLookup(viewsCacheName, true)
		return cloneLibraries(libs), nil
	}
	metrics.RecordCacheLookup(viewsCacheName, false)

	libs, err := c.Client.GetUserViews(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.views.Set(userID, cloneLibraries(libs))
	return libs, nil
}

// Invalidate drops the cached views for userID, or for everyone when
// userID is empty.
func (c *CachingClient) Invalidate(userID string) {
	if c.views == nil {
		return
	}
	if userID == "" {
		c.views.Clear()
		return
	}
	c.views.Delete(userID)
}

// Stats reports views cache statistics.
func (c *CachingClient) Stats() cache.Stats {
	if c.views == nil {
		return cache.Stats{}
	}
	return c.views.GetStats()
}

// Close stops the cache cleanup goroutine.
func (c *CachingClient) Close() {
	if c.views != nil {
		c.views.Close()
	}
}

func cloneLibraries(libs []models.Library) []models.Library {
	if libs == nil {
		return nil
	}
	out := make([]models.Library, len(libs))
	copy(out, libs)
	return out
}
