// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

// Package logging provides the process-wide zerolog logger for Swipewave.
//
// Every component logs through this package rather than holding its own
// writer. The logger is configured once at startup and can be reconfigured
// at any time; before Init is called a JSON logger at info level writes to
// stderr so that early startup errors are never lost.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("song_id", id).Msg("Feedback recorded")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Feedback submission failed")
//
// # Components
//
// Long-lived components take a child logger tagged with their name:
//
//	log := logging.WithComponent("queue")
//	log.Debug().Int("position", pos).Msg("Advanced")
//
// # Context
//
// Correlation and request identifiers travel on the context. The API
// middleware attaches a request id; background work (poll cycles, feedback
// dispatch) attaches a correlation id. Ctx(ctx) returns a logger with both
// fields populated when present.
//
// # slog
//
// SlogHandler adapts the zerolog logger to log/slog for libraries that
// only speak slog, most notably the sutureslog event hook used by the
// supervisor tree.
//
// # Configuration
//
//	LOG_LEVEL   trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  json, console (default: json)
//	LOG_CALLER  include caller file:line (default: false)
package logging
