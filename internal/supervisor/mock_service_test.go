// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// mockService is a suture.Service that runs until cancelled, optionally
// failing a fixed number of times first.
type mockService struct {
	name      string
	maxFails  int32
	starts    atomic.Int32
	stops     atomic.Int32
	failCount atomic.Int32
}

func newMockService(name string) *mockService {
	return &mockService{name: name}
}

func (m *mockService) Serve(ctx context.Context) error {
	m.starts.Add(1)
	defer m.stops.Add(1)

	if m.maxFails > 0 && m.failCount.Add(1) <= m.maxFails {
		return errors.New("simulated failure")
	}

	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) String() string {
	return m.name
}
