// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

/*
Package main is the Swipewave client process.

Swipewave plays a queue of recommended songs as videos and lets the listener
like or dislike each one with a horizontal swipe. This process owns the
session (queue, gestures, feedback) and exposes it to a display over a local
companion API.

# Application Architecture

	swipewave
	├── background
	│   ├── websocket-hub        pushes state, play/stop, notices
	│   ├── feedback-dispatcher  submits likes/dislikes (watermill gochannel)
	│   └── sync-poller          library sync status, phase-driven delays
	└── api
	    └── http-server          chi router on server.host:server.port

Initialization order:

 1. Configuration: koanf v2 (defaults, config.yaml, SWIPEWAVE_* env vars)
 2. Logging: zerolog, JSON or console
 3. Cache: in-memory or BadgerDB
 4. Discovery client: rate-limited HTTP client behind a gobreaker circuit breaker
 5. Feedback store, collections and dispatcher
 6. Session with the websocket hub as sink, listener and drag scope
 7. Supervisor tree, then the initial queue load

# Configuration

	SWIPEWAVE_API_BASE_URL=https://api.example.com
	SWIPEWAVE_API_TOKEN=...
	SWIPEWAVE_QUEUE_MODE=terminal
	SWIPEWAVE_CACHE_BACKEND=badger
	SWIPEWAVE_SERVER_PORT=8765
	./swipewave

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for
server.shutdown_timeout, the hub closes its clients and the dispatcher stops
taking records.
*/
package main
