// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

// Package session owns the interactive state of one listening session: the
// queue, the live/official preference, the swipe tracker and the feedback
// propagator.
//
// Every operation runs under the session mutex. Network calls made by Load
// happen outside it. The PlaybackSink, Notifier and StateListener are
// called with the mutex held and must not block or call back into the
// session.
//
// A committed swipe or a Like/Dislike records feedback for the current song
// and then advances. An entry whose video cannot be resolved is handled like
// a playback error: it is marked failed and skipped.
package session
