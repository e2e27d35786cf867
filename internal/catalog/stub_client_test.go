// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"context"
	"sync/atomic"

	"github.com/tomtom215/marquee/internal/models"
)

// stubClient is a Client whose results are fixed and whose calls are counted.
type stubClient struct {
	err   error
	views []models.Library
	items []models.MediaItem

	viewCalls atomic.Int32
	itemCalls atomic.Int32
}

func (s *stubClient) Ping(context.Context) error { return s.err }

func (s *stubClient) CurrentUser(context.Context) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.User{ID: "user-1", Name: "Alice"}, nil
}

func (s *stubClient) GetUserViews(context.Context, string) ([]models.Library, error) {
	s.viewCalls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.views, nil
}

func (s *stubClient) GetItems(context.Context, ItemQuery) ([]models.MediaItem, error) {
	return s.itemResult()
}

func (s *stubClient) GetResumeItems(context.Context, string, int) ([]models.MediaItem, error) {
	return s.itemResult()
}

func (s *stubClient) GetNextUp(context.Context, NextUpQuery) ([]models.MediaItem, error) {
	return s.itemResult()
}

func (s *stubClient) GetLatest(context.Context, string, string, int) ([]models.MediaItem, error) {
	return s.itemResult()
}

func (s *stubClient) GetPrograms(context.Context, ProgramQuery) ([]models.MediaItem, error) {
	return s.itemResult()
}

func (s *stubClient) SetPlayed(context.Context, string, string, bool) error { return s.err }

func (s *stubClient) SetFavorite(context.Context, string, string, bool) error { return s.err }

func (s *stubClient) itemResult() ([]models.MediaItem, error) {
	s.itemCalls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}
