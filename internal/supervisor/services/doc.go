// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

/*
Package services adapts Swipewave's long-running components to suture.Service.

  - HTTPServerService: ListenAndServe plus graceful Shutdown on cancel
  - ComponentService: any Serve(ctx) error loop; a clean early return becomes
    suture.ErrDoNotRestart

Usage:

	tree.AddBackgroundService(services.NewComponentService("websocket-hub", hub))
	tree.AddBackgroundService(services.NewComponentService("feedback-dispatcher", dispatcher))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
*/
package services
