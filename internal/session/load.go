// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/swipewave/internal/logging"
	"github.com/tomtom215/swipewave/internal/metrics"
	"github.com/tomtom215/swipewave/internal/models"
	"github.com/tomtom215/swipewave/internal/poller"
)

// Load fetches the queue and recommendations and replaces the session's
// data. It first checks whether the server has any videos; when it has none a
// no_playable_entries notice is sent, the sync poller is asked to check and
// the old queue is kept. Queue fetch failures are retried with exponential
// backoff; when the retries run out a load_failed notice is sent and the old
// queue is kept. A recommendations failure is logged and leaves the buckets
// unchanged.
func (s *Session) Load(ctx context.Context) error {
	if !s.checkVideos(ctx) {
		return nil
	}

	entries, err := s.fetchQueue(ctx)
	if err != nil {
		s.mu.Lock()
		s.notify(models.Notice{
			Kind:        models.NoticeLoadFailed,
			Message:     "Could not load your queue. Try again later.",
			Dismissible: true,
		})
		s.mu.Unlock()
		return err
	}

	recs, recErr := s.source.Recommendations(ctx)
	if recErr != nil {
		logging.Ctx(ctx).Warn().Err(recErr).Msg("Failed to load recommendations")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if recErr == nil {
		s.collections.Load(recs)
	}
	s.nav.Replace(entries)
	s.exhausted = false
	s.playing = nil
	metrics.QueueLength.Set(float64(s.nav.Len()))

	switch {
	case s.nav.Len() > 0:
		s.playCurrentLocked(false)
	case len(entries) > 0:
		s.exhaustLocked()
	default:
		s.sink.Stop()
	}
	s.publishLocked()

	logging.Ctx(ctx).Info().
		Int("entries", s.nav.Len()).
		Int("dropped", len(entries)-s.nav.Len()).
		Msg("Queue loaded")
	return nil
}

// checkVideos records the server's has-videos flag and reports whether the
// queue should be fetched. A failed check is logged and the load goes ahead.
func (s *Session) checkVideos(ctx context.Context) bool {
	has, err := s.source.HasVideos(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to check for videos, loading queue anyway")
		has = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasVideos = has
	if has {
		return true
	}

	metrics.QueueTerminal.WithLabelValues("no_videos").Inc()
	s.notify(models.Notice{
		Kind:        models.NoticeNoPlayableEntries,
		Message:     "No videos are ready yet. They will appear once your library sync finishes.",
		Dismissible: true,
	})
	if s.sync != nil {
		s.sync.Trigger()
	}
	s.publishLocked()
	return false
}

// Reload drops cached recommendations and loads again.
func (s *Session) Reload(ctx context.Context) error {
	if err := s.source.Invalidate(ctx); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to invalidate recommendation cache")
	}
	return s.Load(ctx)
}

// HandleSyncStatus reloads once a library sync completes.
func (s *Session) HandleSyncStatus(ctx context.Context, status models.SyncStatus) {
	if status.Phase != models.PhaseComplete {
		return
	}
	if err := s.Reload(ctx); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("batch_id", status.BatchID).Msg("Reload after sync failed")
	}
}

func (s *Session) fetchQueue(ctx context.Context) ([]models.QueueEntry, error) {
	backoff := poller.NewBackoff(s.cfg.BackoffInitial, s.cfg.BackoffMax)

	var lastErr error
	for attempt := 1; attempt <= s.cfg.LoadRetries; attempt++ {
		entries, err := s.source.Queue(ctx)
		if err == nil {
			return entries, nil
		}
		lastErr = err
		if attempt == s.cfg.LoadRetries {
			break
		}

		delay := backoff.Next()
		logging.Ctx(ctx).Warn().Err(err).Int("attempt", attempt).Dur("retry_in", delay).Msg("Queue fetch failed")
		if err := s.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("load queue after %d attempts: %w", s.cfg.LoadRetries, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
