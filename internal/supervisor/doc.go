// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

/*
Package supervisor runs Swipewave's long-lived services under a suture v4 tree.

	swipewave
	├── background
	│   ├── websocket-hub
	│   ├── feedback-dispatcher
	│   └── sync-poller (if poller.enabled)
	└── api
	    └── http-server

Crashed services are restarted with suture's failure threshold, decay and
backoff. Supervisor events are logged through sutureslog onto the zerolog
pipeline (logging.NewSlogLogger).

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddBackgroundService(services.NewComponentService("websocket-hub", hub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("supervisor stopped")
	}
*/
package supervisor
