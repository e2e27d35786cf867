// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package feed

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/models"
)

// Row titles.
const (
	TitleContinueWatching = "Continue watching"
	TitleNextUp           = "Next up"
	TitleSportsOnNow      = "Sports on now"
	latestTitlePrefix     = "Recently added in "
)

// latestCollectionTypes are the library types that get a "Recently added"
// row. Live TV is left out; its recordings surface through a mixed view.
var latestCollectionTypes = map[string]struct{}{
	models.CollectionMovies:     {},
	models.CollectionTVShows:    {},
	models.CollectionHomeVideos: {},
	models.CollectionMixed:      {},
}

// latestRequest is one planned "Recently added" row.
type latestRequest struct {
	Library models.Library
	Title   string
}

// planLatest returns one request per library that supports a latest row,
// in library display order.
func planLatest(libs []models.Library) []latestRequest {
	plan := make([]latestRequest, 0, len(libs))
	for _, lib := range libs {
		if _, ok := latestCollectionTypes[lib.CollectionType]; !ok {
			continue
		}
		plan = append(plan, latestRequest{Library: lib, Title: latestTitlePrefix + lib.Name})
	}
	return plan
}

// filterLibraries drops libraries whose ID or name (case-insensitive)
// appears in excluded.
func filterLibraries(libs []models.Library, excluded []string) []models.Library {
	if len(excluded) == 0 {
		return libs
	}
	out := make([]models.Library, 0, len(libs))
	for _, lib := range libs {
		if slices.ContainsFunc(excluded, func(x string) bool {
			return x == lib.ID || strings.EqualFold(x, lib.Name)
		}) {
			continue
		}
		out = append(out, lib)
	}
	return out
}

func libraryIDs(libs []models.Library) []string {
	ids := make([]string, len(libs))
	for i, lib := range libs {
		ids[i] = lib.ID
	}
	return ids
}

// buildWatchingRows turns the resume and next-up lists into the watching
// rows: one combined row, or up to two rows with empty ones omitted.
func buildWatchingRows(resume, nextUp []models.MediaItem, combine bool, combiner Combiner, limit int) []Row {
	if combine {
		return []Row{SuccessRow(TitleContinueWatching, combiner.Combine(resume, nextUp, limit))}
	}

	rows := make([]Row, 0, 2)
	if len(resume) > 0 {
		rows = append(rows, SuccessRow(TitleContinueWatching, truncate(Deduplicate(resume), limit)))
	}
	if len(nextUp) > 0 {
		rows = append(rows, SuccessRow(TitleNextUp, truncate(Deduplicate(nextUp), limit)))
	}
	return rows
}

// latestOverfetch leaves room for duplicates that Deduplicate removes
// before a latest row is cut to its limit.
const latestOverfetch = 2

// loadSports lists sports programs on air at now, earliest start first.
// The query is unlimited: the same program is listed once per channel, so a
// server-side limit would cut the row before duplicates are removed.
func loadSports(ctx context.Context, client catalog.Client, userID string, limit int, now time.Time) ([]models.MediaItem, error) {
	programs, err := client.GetPrograms(ctx, catalog.ProgramQuery{
		UserID:       userID,
		MaxStartDate: now,
		MinEndDate:   now,
		SportsOnly:   true,
	})
	if err != nil {
		return nil, err
	}

	programs = Deduplicate(programs)
	slices.SortStableFunc(programs, func(a, b models.MediaItem) int {
		return a.StartDate.Compare(b.StartDate)
	})
	return truncate(programs, limit), nil
}

// loadLatest lists recently added items for one library.
func loadLatest(ctx context.Context, client catalog.Client, userID string, req latestRequest, limit int) ([]models.MediaItem, error) {
	items, err := client.GetLatest(ctx, userID, req.Library.ID, limit*latestOverfetch)
	if err != nil {
		return nil, err
	}
	return truncate(Deduplicate(items), limit), nil
}
