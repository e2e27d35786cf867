// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package cache provides a small generic TTL cache.
//
// The catalog layer uses it to keep a user's library list between feed
// sessions, so a refresh does not re-fetch views that rarely change.
package cache

import (
	"sync"
	"time"
)

// entry is a cached value with its expiry.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Stats tracks cache performance.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// Cache is a thread-safe in-memory cache with per-entry expiry.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	stats   Stats
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a cache whose entries live for ttl. A background goroutine
// removes expired entries every cleanupInterval until Close is called;
// cleanupInterval <= 0 disables it and entries expire lazily on Get.
//
//	views := cache.New[[]models.Library](5*time.Minute, time.Minute)
//	defer views.Close()
func New[V any](ttl, cleanupInterval time.Duration) *Cache[V] {
	c := &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	c.stats.LastCleanup = c.now()

	if cleanupInterval > 0 {
		go c.cleanupLoop(cleanupInterval)
	}
	return c
}

// Get returns the value for key if present and not expired.
// An expired entry is removed and counted as a miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		c.record(func(s *Stats) { s.Misses++ })
		return zero, false
	}

	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, still := c.entries[key]; still && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
			c.stats.Evictions++
			c.stats.TotalKeys = int64(len(c.entries))
		}
		c.stats.Misses++
		c.mu.Unlock()
		return zero, false
	}

	c.record(func(s *Stats) { s.Hits++ })
	return e.value, true
}

// Set stores value under key for the cache TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
	c.stats.TotalKeys = int64(len(c.entries))
}

// Delete removes key.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.stats.Evictions++
		c.stats.TotalKeys = int64(len(c.entries))
	}
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Evictions += int64(len(c.entries))
	c.entries = make(map[string]entry[V])
	c.stats.TotalKeys = 0
}

// GetStats returns a copy of the current statistics.
func (c *Cache[V]) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// HitRate returns the hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Close stops the background cleanup goroutine. Safe to call more than once.
func (c *Cache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache[V]) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

// cleanup removes all expired entries.
func (c *Cache[V]) cleanup() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			c.stats.Evictions++
		}
	}
	c.stats.TotalKeys = int64(len(c.entries))
	c.stats.LastCleanup = now
}

func (c *Cache[V]) record(fn func(*Stats)) {
	c.mu.Lock()
	fn(&c.stats)
	c.mu.Unlock()
}
