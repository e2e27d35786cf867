// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package websocket pushes live feed updates to connected home screens.

A Hub owns the set of connected clients and fans messages out to them. Each
Client runs a read goroutine (answers application-level pings, detects
disconnects) and a write goroutine (drains the client's send queue and sends
protocol pings).

Message Types:

  - feed_snapshot: full snapshot, sent once to a client right after it connects
  - feed_update: one field of the snapshot was published; carries the whole
    snapshot and its sequence number
  - ping / pong: application keepalive initiated by the client

Clients should ignore any snapshot whose seq is not greater than the last one
they rendered. Updates are delivered in order per client, but a freshly
connected client may see an update queued before its initial snapshot.

Backpressure:

A client whose send queue is full when a broadcast arrives is disconnected.
When the hub's own broadcast queue is full the message is dropped and counted
in websocket_errors_total{error_type="broadcast_full"}. Every feed_update
carries a complete snapshot, so a dropped update is repaired by the next one.

Usage:

	hub := websocket.NewHub()
	go hub.RunWithContext(ctx)

	client := websocket.NewClient(hub, conn)
	client.Enqueue(websocket.SnapshotMessage(store.Snapshot()))
	hub.Register <- client
	client.Start()

	hub.BroadcastFeedUpdate(update)
*/
package websocket
