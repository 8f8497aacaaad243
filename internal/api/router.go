// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires the Handler and the WebSocket endpoint into a chi mux.
type Router struct {
	handler *Handler
	ws      http.Handler
	config  MiddlewareConfig
}

// NewRouter creates a Router. ws may be nil to disable /api/v1/ws.
func NewRouter(handler *Handler, ws http.Handler, cfg MiddlewareConfig) *Router {
	return &Router{handler: handler, ws: ws, config: cfg}
}

// Setup builds the route tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(router.config))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(PrometheusMetrics)

		r.Get("/health", router.handler.Health)

		r.Group(func(r chi.Router) {
			r.Use(RateLimit(router.config))

			r.Get("/state", router.handler.State)
			r.Get("/recommendations/{bucket}", router.handler.Recommendations)
			r.Post("/reload", router.handler.Reload)
			r.Post("/sync/check", router.handler.SyncCheck)
			r.Post("/feedback", router.handler.Feedback)

			r.Route("/pointer", func(r chi.Router) {
				r.Post("/press", router.handler.PointerPress)
				r.Post("/move", router.handler.PointerMove)
				r.Post("/release", router.handler.PointerRelease)
				r.Post("/cancel", router.handler.PointerCancel)
				r.Post("/escape", router.handler.PointerEscape)
			})

			r.Route("/playback", func(r chi.Router) {
				r.Post("/next", router.handler.Next)
				r.Post("/previous", router.handler.Previous)
				r.Post("/error", router.handler.PlaybackError)
				r.Post("/ended", router.handler.PlaybackEnded)
			})

			r.Route("/queue", func(r chi.Router) {
				r.Post("/seek", router.handler.Seek)
				r.Post("/remove", router.handler.Remove)
			})

			r.Route("/preference", func(r chi.Router) {
				r.Post("/toggle-live", router.handler.ToggleLive)
				r.Post("/live", router.handler.SelectLive)
			})
		})

		if router.ws != nil {
			r.Get("/ws", router.ws.ServeHTTP)
		}
	})

	return r
}
