// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package feed assembles the personalized home feed.

A feed is a set of independently sourced rows (continue watching, next up,
one "Recently added" row per library, live sports on now) plus a hero
carousel. Sources are slow or flaky in different ways, so the feed is
published incrementally rather than all at once.

Staged Load:

 1. A cold start (no successful load yet) marks the feed Loading and
    clears the backdrop.
 2. The current user is resolved. Without one the feed stays Pending.
 3. Phase 1 loads resume, next-up and the library list, then publishes the
    watching rows along with Loading placeholders for every latest row and
    for sports. The feed is now Success.
 4. Phase 2 resolves the hero carousel, sports and every latest row
    concurrently (bounded by MaxConcurrentQueries). Each publishes on its
    own as soon as it finishes.

Failure Handling:

  - Before phase 1 publishes: session-fatal. A cold feed goes to Error; a
    warm feed keeps its content and reports the error in Refresh.
  - A latest row's query fails: that row alone becomes Error.
  - Sports or either hero tier fails: treated as empty, never Error.

Sessions:

Every StartOrRefresh starts a new session and cancels the previous one.
The Store only accepts writes tagged with the current session, so results
from a superseded session that arrive late are dropped even if the source
ignored cancellation.

Consumers read Store.Snapshot or subscribe to field updates:

	store := feed.NewStore()
	orch := feed.NewOrchestrator(client, store, nil)
	updates, cancel := store.Subscribe(16, feed.FieldLatest)
	defer cancel()

	h := orch.StartOrRefresh(ctx, feed.DefaultOptions())
	if err := h.Wait(ctx); err != nil {
	    // session-fatal, ErrNoUser or ErrSuperseded
	}
*/
package feed
