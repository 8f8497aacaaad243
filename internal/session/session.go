// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/swipewave/internal/feedback"
	"github.com/tomtom215/swipewave/internal/gesture"
	"github.com/tomtom215/swipewave/internal/logging"
	"github.com/tomtom215/swipewave/internal/metrics"
	"github.com/tomtom215/swipewave/internal/models"
	"github.com/tomtom215/swipewave/internal/playback"
	"github.com/tomtom215/swipewave/internal/queue"
)

// Source supplies queue and recommendation data.
type Source interface {
	HasVideos(ctx context.Context) (bool, error)
	Queue(ctx context.Context) ([]models.QueueEntry, error)
	Recommendations(ctx context.Context) (models.RecommendationSet, error)
	Invalidate(ctx context.Context) error
}

// SyncTrigger asks the library sync poller to check now.
type SyncTrigger interface {
	Trigger() bool
}

// Recorder applies feedback decisions.
type Recorder interface {
	Record(ctx context.Context, songID string, liked bool, source models.FeedbackSource) error
}

// Config configures a Session.
type Config struct {
	Queue          queue.Options
	Thresholds     gesture.Thresholds
	LoadRetries    int
	BackoffInitial time.Duration
	BackoffMax     time.Duration

	// Scope is acquired for the duration of every drag.
	Scope gesture.Acquirer

	// Clock drives the drag idle timeout (tests).
	Clock gesture.Clock

	// Sleep waits between load retries (tests).
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		Queue:          queue.DefaultOptions(),
		Thresholds:     gesture.DefaultThresholds(),
		LoadRetries:    3,
		BackoffInitial: 2 * time.Second,
		BackoffMax:     time.Minute,
	}
}

// Deps are the session's collaborators. Sink, Notifier, Listener and Sync
// may be nil.
type Deps struct {
	Source      Source
	Recorder    Recorder
	Collections *feedback.Collections
	Sink        PlaybackSink
	Notifier    feedback.Notifier
	Listener    StateListener
	Sync        SyncTrigger
}

// ReleaseResult reports what a pointer release did.
type ReleaseResult struct {
	Outcome   gesture.Outcome `json:"-"`
	Decision  string          `json:"decision"`
	Tap       bool            `json:"tap"`
	Committed bool            `json:"committed"`
}

// Session is the interactive state of one listener.
type Session struct {
	cfg         Config
	source      Source
	recorder    Recorder
	collections *feedback.Collections
	sink        PlaybackSink
	notifier    feedback.Notifier
	listener    StateListener
	sync        SyncTrigger
	logger      zerolog.Logger
	sleep       func(ctx context.Context, d time.Duration) error

	mu        sync.Mutex
	nav       *queue.Navigator
	pref      playback.Preference
	tracker   *gesture.Tracker
	motion    gesture.Motion
	playing   *playback.Selection
	exhausted bool
	hasVideos bool
}

// New creates an empty session. Call Load to fetch the queue.
func New(cfg Config, deps Deps) (*Session, error) {
	if deps.Source == nil || deps.Recorder == nil || deps.Collections == nil {
		return nil, errors.New("session: source, recorder and collections are required")
	}
	if cfg.LoadRetries < 1 {
		cfg.LoadRetries = 1
	}

	s := &Session{
		cfg:         cfg,
		source:      deps.Source,
		recorder:    deps.Recorder,
		collections: deps.Collections,
		sink:        deps.Sink,
		notifier:    deps.Notifier,
		listener:    deps.Listener,
		sync:        deps.Sync,
		logger:      logging.WithComponent("session"),
		sleep:       cfg.Sleep,
		nav:         queue.New(nil, cfg.Queue),
		hasVideos:   true,
	}
	if s.sink == nil {
		s.sink = nopSink{}
	}
	if s.sleep == nil {
		s.sleep = sleepCtx
	}

	opts := []gesture.Option{gesture.WithExitObserver(s.dragExited)}
	if cfg.Clock != nil {
		opts = append(opts, gesture.WithClock(cfg.Clock))
	}
	if cfg.Scope != nil {
		opts = append(opts, gesture.WithAcquirer(cfg.Scope))
	}
	s.tracker = gesture.NewTracker(cfg.Thresholds, opts...)
	return s, nil
}

// Close ends any drag and stops playback.
func (s *Session) Close() {
	s.tracker.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = nil
	s.sink.Stop()
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Press starts a drag. Presses on nested controls are ignored.
func (s *Session) Press(p gesture.Point, at time.Time, fromControl bool) bool {
	if fromControl {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracker.Press(p, at)
	s.motion = gesture.Motion{}
	s.publishLocked()
	return true
}

// Move updates the drag. It reports false when no drag is active.
func (s *Session) Move(p gesture.Point, at time.Time) (gesture.Motion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.tracker.Move(p, at)
	if !ok {
		return gesture.Motion{}, false
	}
	changed := m.Hint != s.motion.Hint
	s.motion = m
	if changed {
		s.publishLocked()
	}
	return m, true
}

// Release ends the drag. A committed swipe records feedback for the current
// song (right likes, left dislikes) and advances.
func (s *Session) Release(ctx context.Context, p gesture.Point, at time.Time) (ReleaseResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, ok := s.tracker.Release(p, at)
	s.motion = gesture.Motion{}
	if !ok {
		return ReleaseResult{Decision: gesture.None.String()}, nil
	}

	res := ReleaseResult{Outcome: out, Decision: out.Decision.String(), Tap: out.Tap}
	label := res.Decision
	if out.Tap {
		label = "tap"
	}
	metrics.GestureOutcomes.WithLabelValues(label).Inc()

	if out.Decision == gesture.None {
		s.publishLocked()
		return res, nil
	}

	err := s.decideLocked(ctx, out.Decision == gesture.Right, models.SourceSwipe)
	res.Committed = err == nil
	if err != nil {
		s.publishLocked()
	}
	return res, err
}

// Cancel aborts the drag.
func (s *Session) Cancel() bool { return s.abortDrag(s.tracker.Cancel) }

// Escape aborts the drag.
func (s *Session) Escape() bool { return s.abortDrag(s.tracker.Escape) }

func (s *Session) abortDrag(fn func() bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !fn() {
		return false
	}
	s.motion = gesture.Motion{}
	s.publishLocked()
	return true
}

// dragExited runs outside the tracker lock. Idle timeouts fire on the timer
// goroutine and do not hold the session lock.
func (s *Session) dragExited(reason gesture.ExitReason) {
	if reason != gesture.ReasonReleased {
		metrics.GestureCancellations.WithLabelValues(string(reason)).Inc()
	}
	if reason == gesture.ReasonIdleTimeout {
		go s.dragTimedOut()
	}
}

func (s *Session) dragTimedOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tracker.State() == gesture.Dragging {
		return
	}
	s.motion = gesture.Motion{}
	s.publishLocked()
}

// Like records a like for the current song and advances.
func (s *Session) Like(ctx context.Context) error { return s.decide(ctx, true) }

// Dislike records a dislike for the current song and advances.
func (s *Session) Dislike(ctx context.Context) error { return s.decide(ctx, false) }

func (s *Session) decide(ctx context.Context, liked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decideLocked(ctx, liked, models.SourceButton)
}

// decideLocked records a decision for the current entry and moves the deck
// forward. The deck never wraps, whatever the queue mode. Once it has ended
// or every entry failed, the notice is the current card and decisions are
// rejected.
func (s *Session) decideLocked(ctx context.Context, liked bool, source models.FeedbackSource) error {
	cur, ok := s.nav.Current()
	switch {
	case !ok:
		return queue.ErrEmptyQueue
	case s.nav.Ended():
		return queue.ErrEndOfQueue
	case s.exhausted:
		return queue.ErrNoPlayableEntries
	}
	if err := s.recorder.Record(ctx, cur.SongID, liked, source); err != nil {
		return fmt.Errorf("record feedback: %w", err)
	}
	_, err := s.nav.AdvanceDeck()
	return s.settleLocked(err)
}

// Next moves to the next entry.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advanceLocked(queue.Next, false)
}

// Previous restarts the current entry when playback is past the restart
// threshold, otherwise moves back. When there is nothing before the current
// entry it is replayed from the start.
func (s *Session) Previous(playbackPosition time.Duration) (queue.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	action, _, err := s.nav.Previous(playbackPosition)
	if err != nil {
		return action, err
	}
	s.exhausted = false
	s.playCurrentLocked(action != queue.ActionMoved)
	s.publishLocked()
	return action, nil
}

// PlaybackError skips the current entry as unplayable.
func (s *Session) PlaybackError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	metrics.QueueSkips.WithLabelValues("playback_error").Inc()
	return s.advanceLocked(queue.Next, true)
}

// PlaybackEnded auto-advances unless the deck already ended.
func (s *Session) PlaybackEnded() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nav.Ended() || s.exhausted {
		return nil
	}
	return s.advanceLocked(queue.Next, false)
}

// Seek jumps to entry i.
func (s *Session) Seek(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.nav.Seek(i); err != nil {
		return err
	}
	s.exhausted = false
	s.playCurrentLocked(false)
	s.publishLocked()
	return nil
}

// Remove deletes entry i from the queue.
func (s *Session) Remove(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.nav.Remove(i); err != nil {
		return err
	}
	metrics.QueueLength.Set(float64(s.nav.Len()))
	if s.nav.Len() == 0 {
		s.stopLocked()
	} else {
		s.playCurrentLocked(false)
	}
	s.publishLocked()
	return nil
}

// TogglePreferLive flips between official and live videos.
func (s *Session) TogglePreferLive() playback.Preference {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pref.TogglePreferLive()
	s.playCurrentLocked(false)
	s.publishLocked()
	return s.pref
}

// SelectLive picks a live performance of the current entry.
func (s *Session) SelectLive(i int) playback.Preference {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pref.SelectLive(i)
	s.playCurrentLocked(false)
	s.publishLocked()
	return s.pref
}

// advanceLocked moves the queue and plays the result. Terminal conditions
// become notices.
func (s *Session) advanceLocked(dir queue.Direction, onError bool) error {
	_, err := s.nav.Advance(dir, onError)
	return s.settleLocked(err)
}

// settleLocked plays the entry a move landed on, or turns a terminal move
// error into a notice.
func (s *Session) settleLocked(err error) error {
	switch {
	case err == nil:
		s.exhausted = false
		s.playCurrentLocked(false)
	case errors.Is(err, queue.ErrEndOfQueue):
		s.endOfQueueLocked()
	case errors.Is(err, queue.ErrNoPlayableEntries):
		s.exhaustLocked()
	default:
		s.publishLocked()
		return err
	}
	s.publishLocked()
	return nil
}

// playCurrentLocked resolves and plays the current entry. An entry that
// cannot be resolved is skipped as a playback error.
func (s *Session) playCurrentLocked(restart bool) {
	for attempts := s.nav.Len(); attempts > 0; attempts-- {
		cur, ok := s.nav.Current()
		if !ok {
			s.stopLocked()
			return
		}
		sel, ok := playback.Resolve(&cur, s.pref)
		if ok {
			if restart || s.playing == nil || *s.playing != sel {
				s.playing = &sel
				s.sink.Play(sel, restart)
			}
			return
		}

		metrics.QueueSkips.WithLabelValues("unresolvable").Inc()
		s.logger.Debug().Str("song_id", cur.SongID).Msg("No playable video, skipping")
		if _, err := s.nav.Advance(queue.Next, true); err != nil {
			switch {
			case errors.Is(err, queue.ErrNoPlayableEntries):
				s.exhaustLocked()
			case errors.Is(err, queue.ErrEndOfQueue):
				s.endOfQueueLocked()
			default:
				s.stopLocked()
			}
			return
		}
	}
}

func (s *Session) endOfQueueLocked() {
	metrics.QueueTerminal.WithLabelValues("end_of_queue").Inc()
	s.stopLocked()
	s.notify(models.Notice{
		Kind:        models.NoticeEndOfQueue,
		Message:     "You've reached the end of the queue.",
		Dismissible: true,
	})
}

func (s *Session) exhaustLocked() {
	s.exhausted = true
	metrics.QueueTerminal.WithLabelValues("no_playable_entries").Inc()
	s.stopLocked()
	s.notify(models.Notice{
		Kind:        models.NoticeNoPlayableEntries,
		Message:     "None of the songs in the queue can be played.",
		Dismissible: true,
	})
}

func (s *Session) stopLocked() {
	if s.playing != nil {
		s.playing = nil
		s.sink.Stop()
	}
}

func (s *Session) notify(n models.Notice) {
	if s.notifier != nil {
		s.notifier.Notify(n)
	}
}

func (s *Session) publishLocked() {
	if s.listener != nil {
		s.listener.StateChanged(s.snapshotLocked())
	}
}

func (s *Session) snapshotLocked() State {
	st := State{
		Position:        s.nav.Position(),
		Length:          s.nav.Len(),
		Mode:            modeName(s.nav.Mode()),
		Preference:      s.pref,
		Dragging:        s.tracker.State() == gesture.Dragging,
		Hint:            s.motion.Hint.String(),
		Offset:          s.motion.OffsetX,
		Ended:           s.nav.Ended(),
		Exhausted:       s.exhausted,
		HasVideos:       s.hasVideos,
		Recommendations: s.collections.All(),
	}
	if cur, ok := s.nav.Current(); ok {
		st.Entry = &cur
	}
	if s.playing != nil {
		sel := *s.playing
		st.Selection = &sel
	}
	return st
}

func modeName(m queue.Mode) string {
	if m == queue.ModeTerminal {
		return "terminal"
	}
	return "wrap"
}
