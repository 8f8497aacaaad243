// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package session

import (
	"github.com/tomtom215/swipewave/internal/models"
	"github.com/tomtom215/swipewave/internal/playback"
)

// State is a point-in-time view of the session.
type State struct {
	Entry           *models.QueueEntry       `json:"entry,omitempty"`
	Selection       *playback.Selection      `json:"selection,omitempty"`
	Position        int                      `json:"position"`
	Length          int                      `json:"length"`
	Mode            string                   `json:"mode"`
	Preference      playback.Preference      `json:"preference"`
	Dragging        bool                     `json:"dragging"`
	Hint            string                   `json:"hint"`
	Offset          float64                  `json:"offset"`
	Ended           bool                     `json:"ended"`
	Exhausted       bool                     `json:"exhausted"` // every entry failed to play
	HasVideos       bool                     `json:"has_videos"`
	Recommendations models.RecommendationSet `json:"recommendations"`
}

// PlaybackSink plays resolved selections.
type PlaybackSink interface {
	Play(sel playback.Selection, restart bool)
	Stop()
}

// StateListener receives the state after every change.
type StateListener interface {
	StateChanged(State)
}

// StateListenerFunc adapts a func to StateListener.
type StateListenerFunc func(State)

// StateChanged calls f(s).
func (f StateListenerFunc) StateChanged(s State) { f(s) }

type nopSink struct{}

func (nopSink) Play(playback.Selection, bool) {}
func (nopSink) Stop()                         {}
