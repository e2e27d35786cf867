// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/marquee/internal/api"
	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/feed"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/supervisor"
	"github.com/tomtom215/marquee/internal/supervisor/services"
	ws "github.com/tomtom215/marquee/internal/websocket"
)

// catalogStack is the decorated catalog client plus the decorators the
// health endpoint reports on. breaker and views are nil when disabled.
type catalogStack struct {
	client  catalog.Client
	breaker *catalog.CircuitBreakerClient
	views   *catalog.CachingClient
}

// newCatalogStack builds Jellyfin -> circuit breaker -> views cache.
func newCatalogStack(cfg *config.Config) *catalogStack {
	jf := catalog.NewJellyfinClient(catalog.JellyfinClientConfig{
		BaseURL:           cfg.Jellyfin.URL,
		APIKey:            cfg.Jellyfin.APIKey,
		UserID:            cfg.Jellyfin.UserID,
		DeviceID:          cfg.Jellyfin.DeviceID,
		Timeout:           cfg.Jellyfin.Timeout,
		RequestsPerSecond: cfg.Jellyfin.RequestsPerSecond,
		Burst:             cfg.Jellyfin.Burst,
	})

	stack := &catalogStack{client: jf}
	if cfg.Jellyfin.CircuitBreaker {
		stack.breaker = catalog.NewCircuitBreakerClient(stack.client, "jellyfin")
		stack.client = stack.breaker
	}
	if cfg.Feed.ViewsCacheTTL > 0 {
		stack.views = catalog.NewCachingClient(stack.client, cfg.Feed.ViewsCacheTTL)
		stack.client = stack.views
	}
	return stack
}

func (s *catalogStack) Close() {
	if s.views != nil {
		s.views.Close()
	}
}

// applyReload pushes hot-reloadable settings into the running process and
// restarts the feed if one has been loaded before.
func applyReload(ctx context.Context, orch *feed.Orchestrator, cfg *config.Config) *feed.Handle {
	logging.SetLevelString(cfg.Logging.Level)
	orch.SetOptions(feed.OptionsFromConfig(&cfg.Feed))

	if orch.Store().Snapshot().Session == 0 {
		return nil
	}
	return orch.Refresh(ctx)
}

func main() {
	logging.Info().Msg("Starting Marquee...")

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("jellyfin_url", cfg.Jellyfin.URL).
		Str("environment", cfg.Server.Environment).
		Msg("Configuration loaded")

	stack := newCatalogStack(cfg)
	defer stack.Close()

	hero := feed.NewHeroSelector(stack.client, feed.HeroOptions{FeaturedName: cfg.Feed.FeaturedName})
	orch := feed.NewOrchestrator(stack.client, feed.NewStore(), hero)
	orch.SetOptions(feed.OptionsFromConfig(&cfg.Feed))
	defer orch.Close()
	logging.Info().
		Int("max_items_per_row", cfg.Feed.MaxItemsPerRow).
		Int("max_concurrent_queries", cfg.Feed.MaxConcurrentQueries).
		Str("combine_strategy", cfg.Feed.CombineStrategy).
		Msg("Feed orchestrator initialized")

	wsHub := ws.NewHub()

	handler := api.NewHandler(orch, stack.client, wsHub, cfg)
	if stack.breaker != nil {
		handler.SetCircuitBreaker(stack.breaker)
	}
	if stack.views != nil {
		handler.SetViewsCache(stack.views)
	}
	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromSecurity(&cfg.Security))

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	slogLogger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddFeedService(services.NewFeedRefreshService(orch, cfg.Feed.RefreshInterval, cfg.Feed.LoadOnStartup))
	tree.AddFeedService(services.NewFeedBroadcastService(orch.Store(), wsHub))
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	logging.Info().Msg("Supervisor tree initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if path := config.ResolveConfigPath(); path != "" {
		if err := config.WatchConfigFile(path, func() {
			newCfg, err := config.LoadWithKoanf()
			if err != nil {
				logging.Warn().Err(err).Str("path", path).Msg("Config reload rejected, keeping previous settings")
				return
			}
			if h := applyReload(ctx, orch, newCfg); h != nil {
				logging.Info().Str("path", path).Str("load_id", h.ID()).Msg("Config reloaded, feed refresh started")
				return
			}
			logging.Info().Str("path", path).Msg("Config reloaded")
		}); err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Config hot reload disabled")
		} else {
			logging.Info().Str("path", path).Msg("Watching config file for changes")
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutting down...")
		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				logging.Warn().Err(err).Msg("Supervisor stopped with error")
			}
		case <-time.After(15 * time.Second):
			logging.Warn().Msg("Supervisor did not stop within 15s")
		}
	case err := <-errCh:
		if err != nil {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
		cancel()
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop cleanly")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
