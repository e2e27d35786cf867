// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"net/http"
	"strings"
	"testing"
)

// Test assertion helpers. Using t.Helper() ensures error messages point to
// the calling line.

// checkStringEqual checks that got equals want, failing if not
func checkStringEqual(t *testing.T, fieldName, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %q, got %q", fieldName, want, got)
	}
}

// checkIntEqual checks that got equals want
func checkIntEqual(t *testing.T, fieldName string, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %d, got %d", fieldName, want, got)
	}
}

// checkNoError fails the test immediately on err
func checkNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// checkErrorContains checks that err is non-nil and mentions substr
func checkErrorContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Errorf("expected error containing %q, got %q", substr, err.Error())
	}
}

// checkSliceLen checks a slice length
func checkSliceLen(t *testing.T, name string, got, want int) {
	t.Helper()
	if got != want {
		t.Fatalf("%s: expected length %d, got %d", name, want, got)
	}
}

// checkTrue checks that condition holds
func checkTrue(t *testing.T, description string, condition bool) {
	t.Helper()
	if !condition {
		t.Errorf("expected %s", description)
	}
}

// verifyJellyfinHeaders checks the authentication and client headers
func verifyJellyfinHeaders(t *testing.T, r *http.Request) {
	t.Helper()
	checkStringEqual(t, "X-Emby-Token header", r.Header.Get("X-Emby-Token"), "test-api-key")
	checkStringEqual(t, "X-Emby-Client header", r.Header.Get("X-Emby-Client"), "Marquee")
	checkStringEqual(t, "X-Emby-Device-Id header", r.Header.Get("X-Emby-Device-Id"), "test-device")
	checkStringEqual(t, "Accept header", r.Header.Get("Accept"), "application/json")
}
