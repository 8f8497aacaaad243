// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

// Package feedback records like/dislike decisions and keeps every view of a
// song consistent with the latest decision.
//
// # Model
//
// Store is the single source of truth for decisions made in this session,
// keyed by song id. Collections holds the four recommendation buckets as the
// server delivered them and overlays the Store on every read, so the same
// song appearing in several buckets always reports the same user_feedback.
//
// # Recording
//
// Propagator.Record applies a decision in two steps and does no I/O:
//
//  1. Store.Set updates the decision and notifies subscribers before
//     returning.
//  2. A FeedbackRecord is handed to the Dispatcher and Record returns.
//
// # Submission
//
// The Dispatcher publishes records on an in-process watermill topic. Serve
// takes them one at a time: it patches the cached recommendation batch
// through a CachePatcher, keeping its original expiry, and then submits the
// decision to the recommendation API. A failed submission
// produces a feedback_failed notice; the local decision is kept and the
// record is not retried. When a song is decided twice before the first
// submission runs, only the newest decision is submitted.
package feedback
