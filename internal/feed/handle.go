// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package feed

import "context"

// Handle tracks one load session. It is returned before any catalog query
// runs; progress is observed through Phase1Done and Done.
type Handle struct {
	session uint64
	id      string

	phase1 chan struct{}
	done   chan struct{}
	err    error // written once, before phase1 is closed
}

func newHandle(session uint64, id string) *Handle {
	return &Handle{
		session: session,
		id:      id,
		phase1:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// ID returns the session id used in logs.
func (h *Handle) ID() string { return h.id }

// Session returns the store session number.
func (h *Handle) Session() uint64 { return h.session }

// Phase1Done is closed once the watching rows are published or the
// session has ended without publishing them.
func (h *Handle) Phase1Done() <-chan struct{} { return h.phase1 }

// Done is closed when every phase-two source has finished.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Err returns why phase one did not publish: a session-fatal error,
// ErrNoUser or ErrSuperseded. It is nil until Phase1Done is closed.
func (h *Handle) Err() error {
	select {
	case <-h.phase1:
		return h.err
	default:
		return nil
	}
}

// Wait blocks until phase one completes or ctx ends.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.phase1:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Handle) finishPhase1(err error) {
	h.err = err
	close(h.phase1)
}
