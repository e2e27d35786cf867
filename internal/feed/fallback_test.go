// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package feed

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/tomtom215/marquee/internal/models"
)

// countingSource returns a Source that yields ids (or err) and counts calls.
func countingSource(calls *int, err error, ids ...string) Source {
	return func(context.Context) ([]models.MediaItem, error) {
		*calls++
		if err != nil {
			return nil, err
		}
		items := make([]models.MediaItem, len(ids))
		for i, id := range ids {
			items[i] = testItem(id)
		}
		return items, nil
	}
}

func TestResolve(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name           string
		primaryIDs     []string
		primaryErr     error
		secondaryIDs   []string
		secondaryErr   error
		want           []string
		wantSecondCall int
	}{
		{"primary wins", []string{"a", "b"}, nil, []string{"x"}, nil, []string{"a", "b"}, 0},
		{"primary empty", nil, nil, []string{"x", "y"}, nil, []string{"x", "y"}, 1},
		{"primary fails", nil, boom, []string{"x"}, nil, []string{"x"}, 1},
		{"both fail", nil, boom, nil, boom, []string{}, 1},
		{"both empty", nil, nil, nil, nil, []string{}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var primaryCalls, secondaryCalls int
			got := Resolve(context.Background(),
				countingSource(&primaryCalls, tt.primaryErr, tt.primaryIDs...),
				countingSource(&secondaryCalls, tt.secondaryErr, tt.secondaryIDs...))

			if !slices.Equal(itemIDs(got), tt.want) {
				t.Errorf("Resolve = %v, want %v", itemIDs(got), tt.want)
			}
			if primaryCalls != 1 {
				t.Errorf("primary called %d times, want 1", primaryCalls)
			}
			if secondaryCalls != tt.wantSecondCall {
				t.Errorf("secondary called %d times, want %d", secondaryCalls, tt.wantSecondCall)
			}
		})
	}
}

func TestResolve_PrimaryReturnedUnchanged(t *testing.T) {
	primary := []models.MediaItem{testItem("a"), testItem("a")}
	got := Resolve(context.Background(),
		func(context.Context) ([]models.MediaItem, error) { return primary, nil },
		nil)

	if len(got) != 2 {
		t.Errorf("Resolve altered primary result: %v", itemIDs(got))
	}
}

func TestResolve_NilSecondary(t *testing.T) {
	got := Resolve(context.Background(), nil, nil)
	if got == nil || len(got) != 0 {
		t.Errorf("Resolve(nil, nil) = %v, want empty", got)
	}
}
