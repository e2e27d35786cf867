// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/marquee/internal/models"
)

// Client is the catalog query interface the feed depends on.
// JellyfinClient, CircuitBreakerClient and CachingClient implement it, and
// every method is safe for concurrent use.
type Client interface {
	// Ping checks connectivity.
	Ping(ctx context.Context) error

	// CurrentUser returns the user the feed is built for, or (nil, nil)
	// when no user is configured.
	CurrentUser(ctx context.Context) (*models.User, error)

	// GetUserViews lists the libraries visible to userID, in display order.
	GetUserViews(ctx context.Context, userID string) ([]models.Library, error)

	// GetItems runs a filtered, sorted, bounded item query.
	GetItems(ctx context.Context, q ItemQuery) ([]models.MediaItem, error)

	// GetResumeItems lists items with a partial playback position.
	GetResumeItems(ctx context.Context, userID string, limit int) ([]models.MediaItem, error)

	// GetNextUp lists the next unwatched episode of in-progress series.
	GetNextUp(ctx context.Context, q NextUpQuery) ([]models.MediaItem, error)

	// GetLatest lists recently added items under a library.
	GetLatest(ctx context.Context, userID, parentID string, limit int) ([]models.MediaItem, error)

	// GetPrograms lists live TV programs in a time window, start time ascending.
	GetPrograms(ctx context.Context, q ProgramQuery) ([]models.MediaItem, error)

	// SetPlayed marks an item watched or unwatched.
	SetPlayed(ctx context.Context, userID, itemID string, played bool) error

	// SetFavorite marks an item favorite or not.
	SetFavorite(ctx context.Context, userID, itemID string, favorite bool) error
}

// SortOrder is the direction of an item sort.
type SortOrder string

const (
	Ascending  SortOrder = "Ascending"
	Descending SortOrder = "Descending"
)

// Sort fields understood by the Jellyfin items endpoint.
const (
	SortByName         = "SortName"
	SortByPremiereDate = "PremiereDate"
	SortByDateCreated  = "DateCreated"
	SortByStartDate    = "StartDate"
)

// ItemQuery selects catalog items.
type ItemQuery struct {
	UserID     string
	ParentID   string
	SearchTerm string
	Kinds      []models.MediaKind
	SortBy     []string
	SortOrder  SortOrder
	Recursive  bool
	Limit      int
}

// NextUpQuery selects next-up episodes.
type NextUpQuery struct {
	UserID string
	Limit  int

	// EnableRewatching includes completed series that can be watched again.
	EnableRewatching bool
}

// ProgramQuery selects live TV programs. Programs are returned when they
// start no later than MaxStartDate and end no earlier than MinEndDate, so
// passing now for both yields what is on air.
type ProgramQuery struct {
	UserID       string
	MaxStartDate time.Time
	MinEndDate   time.Time
	SportsOnly   bool
	Limit        int
}

// ErrNotFound is matched by a StatusError carrying 404.
var ErrNotFound = errors.New("catalog: not found")

// StatusError is returned when the catalog answers with an unexpected status.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("jellyfin %s returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("jellyfin %s returned status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrNotFound) match a 404.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Temporary reports whether retrying later might succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
