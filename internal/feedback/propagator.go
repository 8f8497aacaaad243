// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package feedback

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/swipewave/internal/logging"
	"github.com/tomtom215/swipewave/internal/metrics"
	"github.com/tomtom215/swipewave/internal/models"
)

// ErrEmptySongID is returned when a decision names no song.
var ErrEmptySongID = errors.New("feedback: empty song id")

// Sink accepts records for asynchronous submission.
type Sink interface {
	Dispatch(ctx context.Context, rec models.FeedbackRecord) error
}

// Propagator applies decisions locally and hands them off for submission.
type Propagator struct {
	store  *Store
	sink   Sink
	now    func() time.Time
	logger zerolog.Logger
}

// NewPropagator wires a propagator.
func NewPropagator(store *Store, sink Sink) *Propagator {
	return &Propagator{
		store:  store,
		sink:   sink,
		now:    time.Now,
		logger: logging.WithComponent("feedback"),
	}
}

// Store returns the backing store.
func (p *Propagator) Store() *Store { return p.store }

// Record applies a decision. The store and its subscribers are updated before
// Record returns; the cache patch and the API submission happen later on the
// dispatcher. Record performs no I/O.
func (p *Propagator) Record(ctx context.Context, songID string, liked bool, source models.FeedbackSource) error {
	if songID == "" {
		return ErrEmptySongID
	}

	p.store.Set(songID, liked)
	metrics.RecordFeedback(liked, source)

	rec := models.FeedbackRecord{
		SongID:     songID,
		Liked:      liked,
		Source:     source,
		RecordedAt: p.now().UTC(),
	}
	if err := p.sink.Dispatch(ctx, rec); err != nil {
		// The local decision stands; only submission is lost.
		p.logger.Error().Err(err).Str("song_id", songID).Msg("Failed to queue feedback submission")
		metrics.RecordFeedbackSubmission(err)
	}

	logging.Ctx(ctx).Debug().
		Str("song_id", songID).
		Bool("liked", liked).
		Str("source", string(source)).
		Msg("Feedback recorded")
	return nil
}
