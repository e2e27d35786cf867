// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package services adapts Marquee components to suture.Service.
//
// Each wrapper blocks in Serve until its context ends and returns
// ctx.Err() on a clean stop, so the supervisor can tell a shutdown from a
// crash. Dependencies are taken as small interfaces satisfied by the
// concrete types: *http.Server, *websocket.Hub, *feed.Store and
// *feed.Orchestrator.
package services
