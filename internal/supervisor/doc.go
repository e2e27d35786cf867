// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package supervisor runs Marquee's long-lived services under suture v4.

The tree isolates failures by layer:

	RootSupervisor ("marquee")
	├── FeedSupervisor ("feed-layer")
	│   ├── FeedRefreshService    startup load and periodic refresh
	│   └── FeedBroadcastService  store updates to the WebSocket hub
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocketHubService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashed service is restarted with backoff once FailureThreshold is
exceeded; its siblings in other layers keep running. Supervisor events are
logged through sutureslog into the zerolog-backed slog handler.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddFeedService(services.NewFeedRefreshService(orch, cfg.Feed.RefreshInterval, cfg.Feed.LoadOnStartup))
	tree.AddFeedService(services.NewFeedBroadcastService(orch.Store(), hub))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}
*/
package supervisor
