// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

/*
Package websocket pushes session updates to connected display clients.

The Hub is the session's outward surface. It implements every callback the
session and the feedback pipeline need, turning each into a broadcast:

	session.PlaybackSink   Play / Stop           -> "play", "stop"
	session.StateListener  StateChanged          -> "state"
	gesture.Acquirer       Acquire / release     -> "drag_scope"
	feedback.Notifier      Notify                -> "notice"
	feedback.Store         FeedbackChanged       -> "feedback"
	poller                 SyncStatus            -> "sync_status"

All of these may be called while the session holds its lock, so none of them
block: messages go through a buffered channel and are dropped with a warning
when it is full.

Each client has two goroutines:
  - readPump: reads from the socket, answers "ping" with "pong"
  - writePump: writes queued messages and keeps the connection alive

A newly registered client immediately receives the most recent "state"
message, so a display that connects mid-session does not wait for the next
change.

Usage:

	hub := websocket.NewHub()
	go hub.Serve(ctx) // or add to the supervisor tree

	r.Get("/ws", hub.Handler([]string{"http://localhost:5173"}))
*/
package websocket
