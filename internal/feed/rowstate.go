// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package feed

import "github.com/tomtom215/marquee/internal/models"

// Status is the loading state of a row or of the whole feed.
type Status string

const (
	StatusPending Status = "pending"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Resolved reports whether s is terminal for the current session.
func (s Status) Resolved() bool {
	return s == StatusSuccess || s == StatusError
}

// LoadState is the overall or refresh state of the feed.
type LoadState struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Row is one titled shelf. Items is only meaningful on success and Message
// only on error. Rows are values; a published row is never modified.
type Row struct {
	Title   string             `json:"title"`
	Status  Status             `json:"status"`
	Items   []models.MediaItem `json:"items"`
	Message string             `json:"message,omitempty"`
}

// LoadingRow is a placeholder shown while a row's source is in flight.
func LoadingRow(title string) Row {
	return Row{Title: title, Status: StatusLoading, Items: []models.MediaItem{}}
}

// SuccessRow is a resolved row. A nil items slice is stored as empty.
func SuccessRow(title string, items []models.MediaItem) Row {
	if items == nil {
		items = []models.MediaItem{}
	}
	return Row{Title: title, Status: StatusSuccess, Items: items}
}

// ErrorRow is a row whose source failed.
func ErrorRow(title string, err error) Row {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Row{Title: title, Status: StatusError, Items: []models.MediaItem{}, Message: msg}
}
