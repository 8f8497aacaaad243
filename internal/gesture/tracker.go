// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package gesture

import (
	"sync"
	"time"
)

// State is the tracker state.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// ExitReason tells why a drag ended.
type ExitReason string

const (
	ReasonReleased    ExitReason = "released"
	ReasonCancel      ExitReason = "cancel"
	ReasonEscape      ExitReason = "escape"
	ReasonIdleTimeout ExitReason = "idle_timeout"
	ReasonSuperseded  ExitReason = "superseded"
	ReasonTeardown    ExitReason = "teardown"
)

// Timer is the subset of *time.Timer the tracker needs.
type Timer interface {
	Stop() bool
}

// Clock schedules the idle timeout.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Acquirer attaches whatever a drag needs while it is in progress and
// returns the function that detaches it.
type Acquirer interface {
	Acquire() (release func())
}

// AcquireFunc adapts a function to Acquirer.
type AcquireFunc func() func()

// Acquire implements Acquirer.
func (f AcquireFunc) Acquire() func() { return f() }

// Motion is the drag feedback for one move.
type Motion struct {
	OffsetX float64   `json:"offset_x"`
	OffsetY float64   `json:"offset_y"`
	Hint    Direction `json:"-"`
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces the wall clock (tests).
func WithClock(c Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithAcquirer sets the scope acquired for each drag.
func WithAcquirer(a Acquirer) Option {
	return func(t *Tracker) { t.acquirer = a }
}

// WithExitObserver is called after every exit from Dragging, outside the
// tracker lock.
func WithExitObserver(fn func(ExitReason)) Option {
	return func(t *Tracker) { t.onExit = fn }
}

type drag struct {
	gen     uint64
	start   Sample
	last    Sample
	release func()
	timer   Timer
}

// Tracker is the Idle/Dragging state machine. Safe for concurrent use; the
// idle timer fires on its own goroutine.
type Tracker struct {
	mu       sync.Mutex
	th       Thresholds
	clock    Clock
	acquirer Acquirer
	onExit   func(ExitReason)

	cur *drag // nil when Idle
	gen uint64
}

// NewTracker returns an idle tracker.
func NewTracker(th Thresholds, opts ...Option) *Tracker {
	t := &Tracker{th: th, clock: realClock{}}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// State returns the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cur == nil {
		return Idle
	}
	return Dragging
}

// Press starts a drag. An active drag is ended first as superseded, and its
// scope is released before the new one is acquired.
func (t *Tracker) Press(p Point, at time.Time) {
	t.abort(ReasonSuperseded, 0)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cur != nil {
		// Another Press won the race; keep it.
		return
	}

	t.gen++
	d := &drag{gen: t.gen, start: Sample{Point: p, Time: at}}
	d.last = d.start
	if t.acquirer != nil {
		d.release = t.acquirer.Acquire()
	}
	t.cur = d
	t.armLocked(d)
}

// Move updates the active drag. Without an active drag it returns false and
// does nothing.
func (t *Tracker) Move(p Point, at time.Time) (Motion, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	d := t.cur
	if d == nil {
		return Motion{}, false
	}
	d.last = Sample{Point: p, Time: at}
	t.armLocked(d)

	dx := p.X - d.start.X
	return Motion{OffsetX: dx, OffsetY: p.Y - d.start.Y, Hint: HintFor(dx, t.th)}, true
}

// Release ends the active drag and classifies it.
func (t *Tracker) Release(p Point, at time.Time) (Outcome, bool) {
	t.mu.Lock()
	d := t.cur
	if d == nil {
		t.mu.Unlock()
		return Outcome{}, false
	}
	out := Classify(d.start, Sample{Point: p, Time: at}, t.th)
	e := t.exitLocked(ReasonReleased)
	t.mu.Unlock()

	e.run(t.onExit)
	return out, true
}

// Cancel ends the active drag without a decision (pointer cancel event).
func (t *Tracker) Cancel() bool {
	return t.abort(ReasonCancel, 0)
}

// Escape ends the active drag without a decision (Escape key).
func (t *Tracker) Escape() bool {
	return t.abort(ReasonEscape, 0)
}

// Close ends any active drag. Used on teardown.
func (t *Tracker) Close() {
	t.abort(ReasonTeardown, 0)
}

func (t *Tracker) abort(reason ExitReason, gen uint64) bool {
	t.mu.Lock()
	if t.cur == nil || (gen != 0 && t.cur.gen != gen) {
		t.mu.Unlock()
		return false
	}
	e := t.exitLocked(reason)
	t.mu.Unlock()

	e.run(t.onExit)
	return true
}

func (t *Tracker) armLocked(d *drag) {
	if d.timer != nil {
		d.timer.Stop()
	}
	if t.th.IdleTimeout <= 0 {
		return
	}
	gen := d.gen
	d.timer = t.clock.AfterFunc(t.th.IdleTimeout, func() {
		t.abort(ReasonIdleTimeout, gen)
	})
}

// exit is the deferred half of a transition to Idle, run without the lock.
type exit struct {
	release func()
	reason  ExitReason
	valid   bool
}

func (e exit) run(observer func(ExitReason)) {
	if !e.valid {
		return
	}
	if e.release != nil {
		e.release()
	}
	if observer != nil {
		observer(e.reason)
	}
}

// exitLocked is the only transition out of Dragging.
func (t *Tracker) exitLocked(reason ExitReason) exit {
	d := t.cur
	t.cur = nil
	if d.timer != nil {
		d.timer.Stop()
	}
	return exit{release: d.release, reason: reason, valid: true}
}
