// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tomtom215/swipewave/internal/api"
	"github.com/tomtom215/swipewave/internal/cache"
	"github.com/tomtom215/swipewave/internal/config"
	"github.com/tomtom215/swipewave/internal/discovery"
	"github.com/tomtom215/swipewave/internal/feedback"
	"github.com/tomtom215/swipewave/internal/gesture"
	"github.com/tomtom215/swipewave/internal/logging"
	"github.com/tomtom215/swipewave/internal/models"
	"github.com/tomtom215/swipewave/internal/poller"
	"github.com/tomtom215/swipewave/internal/queue"
	"github.com/tomtom215/swipewave/internal/session"
	"github.com/tomtom215/swipewave/internal/supervisor"
	"github.com/tomtom215/swipewave/internal/supervisor/services"
	ws "github.com/tomtom215/swipewave/internal/websocket"
)

// app holds every wired component.
type app struct {
	cfg        *config.Config
	store      cache.Store
	breaker    *discovery.CircuitBreakerClient
	repo       *discovery.Repository
	feedback   *feedback.Store
	dispatcher *feedback.Dispatcher
	hub        *ws.Hub
	session    *session.Session
	poller     *poller.Poller
	handler    http.Handler

	unsubscribe func()
}

// newApp wires the components described by cfg. ctx scopes callbacks that
// outlive a single request, such as sync-triggered reloads.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	store, err := cache.Open(cache.Options{
		Backend:         cache.Backend(cfg.Cache.Backend),
		Path:            cfg.Cache.Path,
		CleanupInterval: cfg.Cache.CleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	a.store = store

	client := discovery.NewClient(discovery.ClientConfig{
		BaseURL:   cfg.API.BaseURL,
		Token:     cfg.API.Token,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		RateBurst: cfg.API.RateBurst,
	})
	breakerCfg := discovery.DefaultBreakerConfig()
	breakerCfg.MaxRequests = cfg.Breaker.MaxRequests
	breakerCfg.Interval = cfg.Breaker.Interval
	breakerCfg.Timeout = cfg.Breaker.Timeout
	breakerCfg.MinRequests = cfg.Breaker.MinRequests
	breakerCfg.FailureRatio = cfg.Breaker.FailureRatio
	a.breaker = discovery.NewCircuitBreakerClient(client, breakerCfg)

	a.repo = discovery.NewRepository(a.breaker, store, discovery.RepositoryConfig{
		RecommendationsTTL: cfg.Cache.RecommendationsTTL,
		VideosTTL:          cfg.Cache.VideosTTL,
	})

	a.hub = ws.NewHub()
	a.feedback = feedback.NewStore()
	a.unsubscribe = a.feedback.Subscribe(a.hub.FeedbackChanged)
	collections := feedback.NewCollections(a.feedback)

	a.dispatcher, err = feedback.NewDispatcher(feedback.DefaultDispatcherConfig(), a.repo, a.repo, a.hub)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("create feedback dispatcher: %w", err)
	}
	propagator := feedback.NewPropagator(a.feedback, a.dispatcher)

	mode, err := queue.ParseMode(cfg.Queue.Mode)
	if err != nil {
		a.close()
		return nil, err
	}
	sessCfg := session.DefaultConfig()
	sessCfg.Queue = queue.Options{Mode: mode, RestartThreshold: cfg.Queue.RestartThreshold}
	sessCfg.Thresholds = gesture.Thresholds{
		SwipeDistance: cfg.Gesture.SwipeThreshold,
		SwipeTimeout:  cfg.Gesture.SwipeTimeout,
		HintDistance:  cfg.Gesture.HintThreshold,
		IdleTimeout:   cfg.Gesture.IdleTimeout,
	}
	sessCfg.LoadRetries = cfg.Queue.LoadRetries
	sessCfg.Scope = a.hub

	// OnStatus only runs once the poller is started, after a.session is set.
	if cfg.Poller.Enabled {
		pollCfg := poller.Config{
			Policy: poller.DelayPolicy{
				CoarseDelay: cfg.Poller.CoarseDelay,
				FineDelay:   cfg.Poller.FineDelay,
			},
			BackoffInitial: cfg.Poller.BackoffInitial,
			BackoffMax:     cfg.Poller.BackoffMax,
			OnStatus: func(status models.SyncStatus) {
				a.hub.SyncStatus(status)
				go a.session.HandleSyncStatus(ctx, status)
			},
		}
		a.poller = poller.New(a.repo.SyncStatus, pollCfg)
	}

	deps := session.Deps{
		Source:      a.repo,
		Recorder:    propagator,
		Collections: collections,
		Sink:        a.hub,
		Notifier:    a.hub,
		Listener:    a.hub,
	}
	if a.poller != nil {
		deps.Sync = a.poller
	}
	a.session, err = session.New(sessCfg, deps)
	if err != nil {
		a.close()
		return nil, err
	}

	handler := api.NewHandler(a.session, collections, a.breaker)
	if a.poller != nil {
		handler.WithSyncTrigger(a.poller)
	}
	a.handler = api.NewRouter(handler, a.hub.Handler(cfg.Server.CORSOrigins), api.MiddlewareConfig{
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.Server.RateLimitRequests,
		RateLimitWindow:    cfg.Server.RateLimitWindow,
	}).Setup()

	return a, nil
}

// addServices registers the long-running components with tree.
func (a *app) addServices(tree *supervisor.SupervisorTree, server services.HTTPServer) {
	tree.AddBackgroundService(services.NewComponentService(a.hub.String(), a.hub))
	tree.AddBackgroundService(services.NewComponentService(a.dispatcher.String(), a.dispatcher))
	if a.poller != nil {
		tree.AddBackgroundService(services.NewComponentService(a.poller.String(), a.poller))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, a.cfg.Server.ShutdownTimeout))
}

// close releases everything newApp opened. Safe on a partially built app.
func (a *app) close() {
	if a.session != nil {
		a.session.Close()
	}
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if a.dispatcher != nil {
		if err := a.dispatcher.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close feedback dispatcher")
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close cache")
		}
	}
}
