// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/swipewave/internal/feedback"
	"github.com/tomtom215/swipewave/internal/gesture"
	"github.com/tomtom215/swipewave/internal/models"
	"github.com/tomtom215/swipewave/internal/playback"
	"github.com/tomtom215/swipewave/internal/queue"
)

type fakeSource struct {
	entries     []models.QueueEntry
	recs        models.RecommendationSet
	queueErrs   []error // consumed one per Queue call
	recErr      error
	noVideos    bool
	videosErr   error
	videoChecks int
	queueCalls  int
	invalidated int
}

func (f *fakeSource) HasVideos(context.Context) (bool, error) {
	f.videoChecks++
	if f.videosErr != nil {
		return false, f.videosErr
	}
	return !f.noVideos, nil
}

func (f *fakeSource) Queue(context.Context) ([]models.QueueEntry, error) {
	f.queueCalls++
	if len(f.queueErrs) > 0 {
		err := f.queueErrs[0]
		f.queueErrs = f.queueErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.entries, nil
}

func (f *fakeSource) Recommendations(context.Context) (models.RecommendationSet, error) {
	return f.recs, f.recErr
}

func (f *fakeSource) Invalidate(context.Context) error {
	f.invalidated++
	return nil
}

type nullSink struct{}

func (nullSink) Dispatch(context.Context, models.FeedbackRecord) error { return nil }

type recordingPlayer struct {
	plays    []playback.Selection
	restarts int
	stops    int
}

func (p *recordingPlayer) Play(sel playback.Selection, restart bool) {
	p.plays = append(p.plays, sel)
	if restart {
		p.restarts++
	}
}

func (p *recordingPlayer) Stop() { p.stops++ }

func (p *recordingPlayer) lastSong(t *testing.T) string {
	t.Helper()
	if len(p.plays) == 0 {
		t.Fatal("nothing played")
	}
	return p.plays[len(p.plays)-1].SongID
}

type noticeLog struct {
	mu      sync.Mutex
	notices []models.Notice
}

func (n *noticeLog) Notify(notice models.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *noticeLog) kinds() []models.NoticeKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]models.NoticeKind, len(n.notices))
	for i, x := range n.notices {
		out[i] = x.Kind
	}
	return out
}

type countingTrigger struct{ calls int }

func (c *countingTrigger) Trigger() bool {
	c.calls++
	return true
}

type fakeTimer struct{ stopped bool }

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	mu  sync.Mutex
	fns []func()
}

func (c *fakeClock) AfterFunc(_ time.Duration, f func()) gesture.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns = append(c.fns, f)
	return &fakeTimer{}
}

func (c *fakeClock) fireLast() {
	c.mu.Lock()
	f := c.fns[len(c.fns)-1]
	c.mu.Unlock()
	f()
}

type harness struct {
	s       *Session
	src     *fakeSource
	store   *feedback.Store
	coll    *feedback.Collections
	player  *recordingPlayer
	notices *noticeLog
	clock   *fakeClock
	sync    *countingTrigger
	states  []State
}

func official(id string) models.QueueEntry {
	return models.QueueEntry{SongID: id, Title: id, OfficialVideo: &models.Video{ID: "v-" + id, Title: id}}
}

func newHarness(t *testing.T, mode queue.Mode, entries ...models.QueueEntry) *harness {
	t.Helper()

	h := &harness{
		src:     &fakeSource{entries: entries},
		store:   feedback.NewStore(),
		player:  &recordingPlayer{},
		notices: &noticeLog{},
		clock:   &fakeClock{},
		sync:    &countingTrigger{},
	}
	h.coll = feedback.NewCollections(h.store)

	cfg := DefaultConfig()
	cfg.Queue.Mode = mode
	cfg.Clock = h.clock
	cfg.Sleep = func(context.Context, time.Duration) error { return nil }

	s, err := New(cfg, Deps{
		Source:      h.src,
		Recorder:    feedback.NewPropagator(h.store, nullSink{}),
		Collections: h.coll,
		Sink:        h.player,
		Notifier:    h.notices,
		Listener:    StateListenerFunc(func(st State) { h.states = append(h.states, st) }),
		Sync:        h.sync,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	h.s = s
	return h
}

func (h *harness) load(t *testing.T) {
	t.Helper()
	if err := h.s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func checkCurrent(t *testing.T, s *Session, want string) {
	t.Helper()
	st := s.Snapshot()
	if st.Entry == nil {
		t.Fatalf("no current entry, want %s", want)
	}
	if st.Entry.SongID != want {
		t.Errorf("current = %s, want %s", st.Entry.SongID, want)
	}
}

func TestLoadPlaysFirstEntry(t *testing.T) {
	t.Parallel()

	h := newHarness(t, queue.ModeWrap, official("s1"), models.QueueEntry{SongID: "bare"}, official("s2"))
	h.load(t)

	st := h.s.Snapshot()
	if st.Length != 2 || st.Position != 0 {
		t.Errorf("length=%d position=%d", st.Length, st.Position)
	}
	if h.player.lastSong(t) != "s1" {
		t.Errorf("played %s", h.player.lastSong(t))
	}
	if len(h.states) == 0 {
		t.Error("no state published")
	}
}

func TestLoadRetriesThenNotifies(t *testing.T) {
	t.Parallel()

	boom := errors.New("unavailable")
	h := newHarness(t, queue.ModeWrap, official("s1"))
	h.src.queueErrs = []error{boom, boom, boom}

	err := h.s.Load(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if h.src.queueCalls != 3 {
		t.Errorf("queue calls = %d, want 3", h.src.queueCalls)
	}
	if got := h.notices.kinds(); len(got) != 1 || got[0] != models.NoticeLoadFailed {
		t.Errorf("notices = %v", got)
	}
}

func TestLoadRecoversAfterRetry(t *testing.T) {
	t.Parallel()

	h := newHarness(t, queue.ModeWrap, official("s1"))
	h.src.queueErrs = []error{errors.New("blip"), nil}
	h.load(t)

	if h.src.queueCalls != 2 {
		t.Errorf("queue calls = %d", h.src.queueCalls)
	}
	checkCurrent(t, h.s, "s1")
}

func TestSwipeRightLikesAndAdvances(t *testing.T) {
	t.Parallel()

	h := newHarness(t, queue.ModeTerminal, official("s1"), official("s2"))
	h.src.recs = models.RecommendationSet{
		Hybrid:  []models.RecommendedSong{{ID: "s1"}},
		Similar: []models.RecommendedSong{{ID: "x"}, {ID: "s1"}},
	}
	h.load(t)

	t0 := time.Unix(1000, 0)
	if !h.s.Press(gesture.Point{X: 0}, t0, false) {
		t.Fatal("press ignored")
	}
	if _, ok := h.s.Move(gesture.Point{X: 60}, t0.Add(50*time.Millisecond)); !ok {
		t.Fatal("move ignored")
	}
	if st := h.s.Snapshot(); !st.Dragging || st.Hint != "right" {
		t.Errorf("dragging=%v hint=%s", st.Dragging, st.Hint)
	}

	res, err := h.s.Release(context.Background(), gesture.Point{X: 150}, t0.Add(200*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Committed || res.Decision != "right" {
		t.Errorf("result = %+v", res)
	}

	if liked, ok := h.store.Get("s1"); !ok || !liked {
		t.Error("s1 not liked")
	}
	for _, b := range []models.Bucket{models.BucketHybrid, models.BucketSimilar} {
		for _, song := range h.coll.View(b) {
			if song.ID == "s1" && (song.UserFeedback == nil || !*song.UserFeedback) {
				t.Errorf("bucket %s disagrees", b)
			}
		}
	}
	checkCurrent(t, h.s, "s2")
	if st := h.s.Snapshot(); st.Dragging {
		t.Error("still dragging after release")
	}
}

func TestSlowSwipeDoesNothing(t *testing.T) {
	t.Parallel()

	h := newHarness(t, queue.ModeTerminal, official("s1"), official("s2"))
	h.load(t)

	t0 := time.Unix(1000, 0)
	h.s.Press(gesture.Point{X: 0}, t0, false)
	res, err := h.s.Release(context.Background(), gesture.Point{X: 150}, t0.Add(400*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if res.Committed || res.Decision != "none" {
		t.Errorf("result = %+v", res)
	}
	if h.store.Len() != 0 {
		t.Error("feedback recorded for slow swipe")
	}
	checkCurrent(t, h.s, "s1")
}

func TestTapIsReported(t *testing.T) {
	t.Parallel()

	h := newHarness(t, queue.ModeTerminal, official("s1"))
	h.load(t)

	t0 := time.Unix(1000, 0)
	h.s.Press(gesture.Point{X: 10, Y: 10}, t0, false)
	res, _ := h.s.Release(context.Background(), gesture.Point{X: 10, Y: 10}, t0.Add(10*time.Millisecond))
	if !res.Tap || res.Committed {
		t.Errorf("result = %+v", res)
	}
}

func TestPressFromControlIgnored(t *testing.T) {
	t.Parallel()

	h := newHarness(t, queue.ModeTerminal, official("s1"))
	h.load(t)

	if h.s.Press(gesture.Point{}, time.Now(), true) {
		t.Error("press from control accepted")
	}
	if h.s.Snapshot().Dragging {
		t.Error("dragging after control press")
	}
	if _, ok := h.s.Move(gesture.Point{X: 200}, time.Now()); ok {
		t.Error("move without drag accepted")
	}
}

func TestCancelEscapeAndIdleConverge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		abort func(h *harness)
	}{
		{"cancel", func(h *harness) { h.s.Cancel() }},
		{"escape", func(h *harness) { h.s.Escape() }},
		{"idle timeout", func(h *harness) { h.clock.fireLast() }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t, queue.ModeTerminal, official("s1"), official("s2"))
			h.load(t)

			t0 := time.Unix(1000, 0)
			h.s.Press(gesture.Point{}, t0, false)
			h.s.Move(gesture.Point{X: 80}, t0.Add(10*time.Millisecond))
			tt.abort(h)

			if h.s.Snapshot().Dragging {
				t.Error("still dragging")
			}
			res, _ := h.s.Release(context.Background(), gesture.Point{X: 200}, t0.Add(50*time.Millisecond))
			if res.Committed {
				t.Error("release after abort committed a decision")
			}
			if h.store.Len() != 0 {
				t.Error("feedback recorded")
			}
			checkCurrent(t, h.s, "s1")
		})
	}
}

func TestButtonsRecordAndAdvance(t *testing.T) {
	t.Parallel()

	h := newHarness(t, queue.ModeTerminal, official("s1"), official("s2"))
	h.load(t)
	ctx := context.Background()

	if err := h.s.Dislike(ctx); err != nil {
		t.Fatal(err)
	}
	if liked, ok := h.store.Get("s1"); !ok || liked {
		t.Error("s1 not disliked")
	}
	checkCurrent(t, h.s, "s2")

	if err := h.s.Like(ctx); err != nil {
		t.Fatal(err)
	}
	if !h.s.Snapshot().Ended {
		t.Error("deck should have ended")
	}
	if got := h.notices.kinds(); len(got) != 1 || got[0] != models.NoticeEndOfQueue {
		t.Errorf("notices = %v", got)
	}

	// No further auto-advance once ended.
	stops := h.player.stops
	if err := h.s.PlaybackEnded(); err != nil {
		t.Fatal(err)
	}
	if len(h.notices.kinds()) != 1 || h.player.stops != stops {
		t.Error("PlaybackEnded acted on an ended deck")
	}
}

func TestButtonsOnEmptyQueue(t *testing.T) {
	t.Parallel()

	h := newHarness(t, queue.ModeTerminal)
	h.load(t)
	if err := h.s.Like(context.Background()); !errors.Is(err, queue.ErrEmptyQueue) {
		t.Errorf("err = %v", err)
	}
}

func TestPreviousRestartsOrMoves(t *testing.T) {
	t.Parallel()

	h := newHarness(t, queue.ModeWrap, official("s1"), official("s2"), official("s3"))
	h.load(t)

	action, err := h.s.Previous(10 * time.Second)
	if err != nil || action != queue.ActionRestart {
		t.Fatalf("action=%v err=%v", action, err)
	}
	if h.player.restarts != 1 || h.player.lastSong(t) != "s1" {
		t.Errorf("restarts=%d last=%s", h.player.restarts, h.player.lastSong(t))
	}

	action, err = h.s.Previous(0)
	if err != nil || action != queue.ActionMoved {
		t.Fatalf("action=%v err=%v", action, err)
	}
	checkCurrent(t, h.s, "s3")
}

func TestPlaybackErrorSkipsUntilExhausted(t *testing.T) {
	t.Parallel()

	h := newHarness(t, queue.ModeWrap, official("s1"), official("s2"))
	h.load(t)

	if err := h.s.PlaybackError(); err != nil {
		t.Fatal(err)
	}
	checkCurrent(t, h.s, "s2")

	if err := h.s.PlaybackError(); err != nil {
		t.Fatal(err)
	}
	st := h.s.Snapshot()
	if !st.Exhausted || st.Selection != nil {
		t.Errorf("exhausted=%v selection=%v", st.Exhausted, st.Selection)
	}
	if got := h.notices.kinds(); len(got) != 1 || got[0] != models.NoticeNoPlayableEntries {
		t.Errorf("notices = %v", got)
	}
}

func TestPreferLiveSwitchesVideo(t *testing.T) {
	t.Parallel()

	entry := official("s1")
	entry.LivePerformances = []models.Video{{ID: "live-0"}, {ID: "live-1"}}
	h := newHarness(t, queue.ModeWrap, entry)
	h.load(t)

	pref := h.s.TogglePreferLive()
	if !pref.PreferLive || pref.SelectedLiveIndex != 0 {
		t.Errorf("pref = %+v", pref)
	}
	if got := h.player.plays[len(h.player.plays)-1].VideoID; got != "live-0" {
		t.Errorf("playing %s", got)
	}

	h.s.SelectLive(1)
	if got := h.player.plays[len(h.player.plays)-1].VideoID; got != "live-1" {
		t.Errorf("playing %s", got)
	}

	plays := len(h.player.plays)
	h.s.SelectLive(1)
	if len(h.player.plays) != plays {
		t.Error("replayed an unchanged selection")
	}
}

func TestRemoveCurrent(t *testing.T) {
	t.Parallel()

	h := newHarness(t, queue.ModeWrap, official("s1"))
	h.load(t)

	if err := h.s.Remove(0); err != nil {
		t.Fatal(err)
	}
	st := h.s.Snapshot()
	if st.Entry != nil || st.Length != 0 {
		t.Errorf("state = %+v", st)
	}
	if h.player.stops == 0 {
		t.Error("playback not stopped")
	}
	if err := h.s.Remove(0); !errors.Is(err, queue.ErrIndexOutOfRange) {
		t.Errorf("err = %v", err)
	}
}

func TestSyncCompleteReloads(t *testing.T) {
	t.Parallel()

	h := newHarness(t, queue.ModeWrap, official("s1"))
	h.load(t)

	h.s.HandleSyncStatus(context.Background(), models.SyncStatus{Phase: models.PhaseProcessing})
	if h.src.invalidated != 0 {
		t.Error("reloaded before completion")
	}

	h.src.entries = []models.QueueEntry{official("n1"), official("n2")}
	h.s.HandleSyncStatus(context.Background(), models.SyncStatus{Phase: models.PhaseComplete})
	if h.src.invalidated != 1 {
		t.Errorf("invalidated = %d", h.src.invalidated)
	}
	checkCurrent(t, h.s, "n1")
	if h.s.Snapshot().Length != 2 {
		t.Error("queue not replaced")
	}
}

func TestNewRequiresDeps(t *testing.T) {
	t.Parallel()

	if _, err := New(DefaultConfig(), Deps{}); err == nil {
		t.Error("expected error")
	}
}

func (h *harness) swipe(t *testing.T, dx float64) (ReleaseResult, error) {
	t.Helper()
	t0 := time.Unix(1000, 0)
	if !h.s.Press(gesture.Point{}, t0, false) {
		t.Fatal("press ignored")
	}
	return h.s.Release(context.Background(), gesture.Point{X: dx}, t0.Add(100*time.Millisecond))
}

func TestSwipeDeckStopsAtEndInDefaultMode(t *testing.T) {
	t.Parallel()

	h := newHarness(t, DefaultConfig().Queue.Mode, official("s1"), official("s2"))
	h.load(t)

	for i := 0; i < 2; i++ {
		res, err := h.swipe(t, 150)
		if err != nil || !res.Committed {
			t.Fatalf("swipe %d: result=%+v err=%v", i, res, err)
		}
	}

	st := h.s.Snapshot()
	if st.Mode != "wrap" {
		t.Errorf("mode = %s, want the wrap default", st.Mode)
	}
	if !st.Ended || st.Selection != nil {
		t.Errorf("ended=%v selection=%v", st.Ended, st.Selection)
	}
	checkCurrent(t, h.s, "s2")
	if got := h.notices.kinds(); len(got) != 1 || got[0] != models.NoticeEndOfQueue {
		t.Errorf("notices = %v", got)
	}
	if h.player.stops == 0 {
		t.Error("playback not stopped at end of deck")
	}
	for _, id := range []string{"s1", "s2"} {
		if liked, ok := h.store.Get(id); !ok || !liked {
			t.Errorf("%s not liked", id)
		}
	}

	// Manual navigation still wraps.
	if err := h.s.Next(); err != nil {
		t.Fatal(err)
	}
	checkCurrent(t, h.s, "s1")
	if h.s.Snapshot().Ended {
		t.Error("ended flag kept after moving")
	}
}

func TestDecisionsRejectedAfterDeckEnds(t *testing.T) {
	t.Parallel()

	h := newHarness(t, queue.ModeTerminal, official("s1"), official("s2"))
	h.load(t)
	ctx := context.Background()

	if err := h.s.Like(ctx); err != nil {
		t.Fatal(err)
	}
	if err := h.s.Like(ctx); err != nil {
		t.Fatal(err)
	}
	if !h.s.Snapshot().Ended {
		t.Fatal("deck should have ended")
	}

	tests := []struct {
		name   string
		decide func() error
	}{
		{"dislike button", func() error { return h.s.Dislike(ctx) }},
		{"like button", func() error { return h.s.Like(ctx) }},
		{"swipe", func() error {
			res, err := h.swipe(t, -150)
			if res.Committed {
				t.Error("swipe committed on an ended deck")
			}
			return err
		}},
	}
	for _, tt := range tests {
		if err := tt.decide(); !errors.Is(err, queue.ErrEndOfQueue) {
			t.Errorf("%s: err = %v, want ErrEndOfQueue", tt.name, err)
		}
	}

	if liked, ok := h.store.Get("s2"); !ok || !liked {
		t.Error("s2 decision overwritten")
	}
	if got := h.notices.kinds(); len(got) != 1 {
		t.Errorf("notices = %v, want a single end_of_queue", got)
	}
}

func TestDecisionsRejectedWhenExhausted(t *testing.T) {
	t.Parallel()

	h := newHarness(t, queue.ModeWrap, official("s1"))
	h.load(t)

	if err := h.s.PlaybackError(); err != nil {
		t.Fatal(err)
	}
	if !h.s.Snapshot().Exhausted {
		t.Fatal("queue should be exhausted")
	}
	if err := h.s.Like(context.Background()); !errors.Is(err, queue.ErrNoPlayableEntries) {
		t.Errorf("err = %v, want ErrNoPlayableEntries", err)
	}
	if h.store.Len() != 0 {
		t.Error("feedback recorded for an exhausted queue")
	}
}

func TestPlaybackErrorOnLastCardEndsDeck(t *testing.T) {
	t.Parallel()

	h := newHarness(t, queue.ModeTerminal, official("s1"), official("s2"), official("s3"))
	h.load(t)
	for i := 0; i < 2; i++ {
		if err := h.s.Next(); err != nil {
			t.Fatal(err)
		}
	}
	checkCurrent(t, h.s, "s3")

	stops := h.player.stops
	if err := h.s.PlaybackError(); err != nil {
		t.Fatal(err)
	}

	st := h.s.Snapshot()
	if !st.Ended || st.Exhausted {
		t.Errorf("ended=%v exhausted=%v, want ended only", st.Ended, st.Exhausted)
	}
	if got := h.notices.kinds(); len(got) != 1 || got[0] != models.NoticeEndOfQueue {
		t.Errorf("notices = %v", got)
	}
	if h.player.stops != stops+1 {
		t.Errorf("stops = %d, want %d", h.player.stops, stops+1)
	}
}

func TestPreviousAtDeckStartReplays(t *testing.T) {
	t.Parallel()

	h := newHarness(t, queue.ModeTerminal, official("s1"), official("s2"))
	h.load(t)
	plays := len(h.player.plays)

	action, err := h.s.Previous(0)
	if err != nil || action != queue.ActionStayed {
		t.Fatalf("action=%v err=%v", action, err)
	}
	if len(h.player.plays) != plays+1 || h.player.restarts != 1 || h.player.lastSong(t) != "s1" {
		t.Errorf("plays=%d restarts=%d", len(h.player.plays)-plays, h.player.restarts)
	}
}

func TestLoadWithoutVideos(t *testing.T) {
	t.Parallel()

	h := newHarness(t, queue.ModeTerminal, official("s1"))
	h.src.noVideos = true

	h.load(t)
	st := h.s.Snapshot()
	if st.HasVideos || st.Length != 0 {
		t.Errorf("has_videos=%v length=%d", st.HasVideos, st.Length)
	}
	if h.src.queueCalls != 0 {
		t.Errorf("queue fetched %d times without videos", h.src.queueCalls)
	}
	if got := h.notices.kinds(); len(got) != 1 || got[0] != models.NoticeNoPlayableEntries {
		t.Errorf("notices = %v", got)
	}
	if h.sync.calls != 1 {
		t.Errorf("sync triggered %d times, want 1", h.sync.calls)
	}

	h.src.noVideos = false
	h.load(t)
	if st := h.s.Snapshot(); !st.HasVideos || st.Length != 1 {
		t.Errorf("after videos arrive: has_videos=%v length=%d", st.HasVideos, st.Length)
	}
	checkCurrent(t, h.s, "s1")
}

func TestLoadContinuesWhenVideoCheckFails(t *testing.T) {
	t.Parallel()

	h := newHarness(t, queue.ModeTerminal, official("s1"))
	h.src.videosErr = errors.New("check failed")
	h.load(t)

	if h.src.videoChecks != 1 || h.src.queueCalls != 1 {
		t.Errorf("video checks=%d queue calls=%d", h.src.videoChecks, h.src.queueCalls)
	}
	if !h.s.Snapshot().HasVideos {
		t.Error("failed check reported as no videos")
	}
	if len(h.notices.kinds()) != 0 {
		t.Errorf("notices = %v", h.notices.kinds())
	}
}
