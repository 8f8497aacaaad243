// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

// Package queue implements the playback queue navigator.
//
// A Navigator holds an ordered list of playable entries and a position. In
// ModeWrap the queue is circular: Next from the last entry goes to the
// first and Previous from the first goes to the last. In ModeTerminal (the
// swipe deck) Next from the last entry stops with ErrEndOfQueue.
//
// AdvanceDeck is the step taken after a like or dislike. It stops at the last
// entry with ErrEndOfQueue in either mode, so rated songs never come back
// around.
//
// Entries that fail to play are marked when advancing with onError; an
// error-driven advance never lands on a marked entry, and once every entry
// is marked it returns ErrNoPlayableEntries instead of cycling forever.
//
// A Navigator is not safe for concurrent use. The session serializes access.
package queue

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/swipewave/internal/models"
	"github.com/tomtom215/swipewave/internal/playback"
)

var (
	ErrEmptyQueue        = errors.New("queue is empty")
	ErrEndOfQueue        = errors.New("end of queue")
	ErrNoPlayableEntries = errors.New("no playable entries left in queue")
	ErrIndexOutOfRange   = errors.New("queue index out of range")
)

// Direction of travel.
type Direction int

const (
	Next Direction = iota
	Previous
)

func (d Direction) delta() int {
	if d == Previous {
		return -1
	}
	return 1
}

// Mode selects the end-of-queue behavior.
type Mode int

const (
	ModeWrap Mode = iota
	ModeTerminal
)

// ParseMode maps "wrap" and "terminal".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "wrap", "":
		return ModeWrap, nil
	case "terminal":
		return ModeTerminal, nil
	}
	return ModeWrap, fmt.Errorf("unknown queue mode %q", s)
}

// Action is what Previous did.
type Action int

const (
	ActionMoved Action = iota
	ActionRestart
	ActionStayed
)

func (a Action) String() string {
	switch a {
	case ActionRestart:
		return "restart"
	case ActionStayed:
		return "stayed"
	}
	return "moved"
}

// Options configure a Navigator.
type Options struct {
	Mode             Mode
	RestartThreshold time.Duration // Previous restarts the track past this point
}

// DefaultOptions is ModeWrap with a 3s restart threshold.
func DefaultOptions() Options {
	return Options{Mode: ModeWrap, RestartThreshold: 3 * time.Second}
}

// Navigator is the queue state.
type Navigator struct {
	opts     Options
	entries  []models.QueueEntry
	failed   []bool
	position int
	ended    bool
}

// New builds a navigator from entries, dropping unplayable ones.
func New(entries []models.QueueEntry, opts Options) *Navigator {
	n := &Navigator{opts: opts}
	n.Replace(entries)
	return n
}

// Replace swaps in a fresh list and resets all navigation state.
func (n *Navigator) Replace(entries []models.QueueEntry) {
	n.entries = playback.FilterPlayable(entries)
	n.failed = make([]bool, len(n.entries))
	n.position = 0
	n.ended = false
}

// Len returns the number of entries.
func (n *Navigator) Len() int { return len(n.entries) }

// Position returns the current index (0 when empty).
func (n *Navigator) Position() int { return n.position }

// Mode returns the configured mode.
func (n *Navigator) Mode() Mode { return n.opts.Mode }

// Ended reports whether the queue ran past its last entry, through a
// terminal Advance or AdvanceDeck. Any later move clears it.
func (n *Navigator) Ended() bool { return n.ended }

// Entries returns a copy of the entries.
func (n *Navigator) Entries() []models.QueueEntry {
	out := make([]models.QueueEntry, len(n.entries))
	copy(out, n.entries)
	return out
}

// FailedCount returns how many entries are marked as failed.
func (n *Navigator) FailedCount() int {
	c := 0
	for _, f := range n.failed {
		if f {
			c++
		}
	}
	return c
}

// Current returns the entry at the position. ok is false only when empty.
func (n *Navigator) Current() (models.QueueEntry, bool) {
	if len(n.entries) == 0 {
		return models.QueueEntry{}, false
	}
	return n.entries[n.position], true
}

// Advance moves one step in dir. With onError the current entry is marked
// failed first and the move skips every failed entry.
func (n *Navigator) Advance(dir Direction, onError bool) (models.QueueEntry, error) {
	size := len(n.entries)
	if size == 0 {
		return models.QueueEntry{}, ErrEmptyQueue
	}

	if onError {
		n.failed[n.position] = true
		return n.skipFailed(dir)
	}

	next, ok := n.step(n.position, dir)
	if !ok {
		return n.stopAt(dir)
	}
	n.moveTo(next)
	return n.entries[n.position], nil
}

// AdvanceDeck moves past the current entry after a feedback decision. It
// never wraps: from the last entry it sets Ended and returns ErrEndOfQueue.
// Failure marks are not consulted.
func (n *Navigator) AdvanceDeck() (models.QueueEntry, error) {
	if len(n.entries) == 0 {
		return models.QueueEntry{}, ErrEmptyQueue
	}
	if n.position+1 >= len(n.entries) {
		n.ended = true
		return n.entries[n.position], ErrEndOfQueue
	}
	n.moveTo(n.position + 1)
	return n.entries[n.position], nil
}

// Previous restarts the current entry when playback is past the restart
// threshold, otherwise moves back one entry. The threshold is checked
// before any wrap-around.
func (n *Navigator) Previous(playbackPosition time.Duration) (Action, models.QueueEntry, error) {
	cur, ok := n.Current()
	if !ok {
		return ActionStayed, models.QueueEntry{}, ErrEmptyQueue
	}
	if playbackPosition > n.opts.RestartThreshold {
		return ActionRestart, cur, nil
	}

	before := n.position
	entry, err := n.Advance(Previous, false)
	if err != nil {
		return ActionStayed, entry, err
	}
	if n.position == before && len(n.entries) > 1 {
		return ActionStayed, entry, nil
	}
	return ActionMoved, entry, nil
}

// Seek jumps to index i.
func (n *Navigator) Seek(i int) (models.QueueEntry, error) {
	if i < 0 || i >= len(n.entries) {
		return models.QueueEntry{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	n.moveTo(i)
	return n.entries[i], nil
}

// Remove deletes entry i. Removing an entry before the position shifts the
// position down so the same entry stays current. Removing the current entry
// makes the following entry current, or the new last entry when it was last.
func (n *Navigator) Remove(i int) (models.QueueEntry, error) {
	if i < 0 || i >= len(n.entries) {
		return models.QueueEntry{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}

	removed := n.entries[i]
	n.entries = append(n.entries[:i], n.entries[i+1:]...)
	n.failed = append(n.failed[:i], n.failed[i+1:]...)

	switch {
	case len(n.entries) == 0:
		n.position = 0
	case i < n.position:
		n.position--
	case i == n.position && n.position >= len(n.entries):
		n.position = len(n.entries) - 1
	}
	n.ended = false
	return removed, nil
}

// step computes the neighbor index. ok is false when a terminal queue has
// no neighbor in that direction.
func (n *Navigator) step(from int, dir Direction) (int, bool) {
	size := len(n.entries)
	if n.opts.Mode == ModeTerminal {
		to := from + dir.delta()
		if to < 0 || to >= size {
			return from, false
		}
		return to, true
	}
	return (from + dir.delta() + size) % size, true
}

func (n *Navigator) skipFailed(dir Direction) (models.QueueEntry, error) {
	idx := n.position
	for i := 0; i < len(n.entries); i++ {
		next, ok := n.step(idx, dir)
		if !ok {
			break
		}
		idx = next
		if !n.failed[idx] {
			n.moveTo(idx)
			return n.entries[idx], nil
		}
	}

	if n.FailedCount() == len(n.entries) {
		return n.entries[n.position], ErrNoPlayableEntries
	}
	// Terminal queue with nothing playable ahead.
	return n.stopAt(dir)
}

func (n *Navigator) stopAt(dir Direction) (models.QueueEntry, error) {
	if dir == Next {
		n.ended = true
		return n.entries[n.position], ErrEndOfQueue
	}
	// Previous at the start of a terminal queue stays put.
	return n.entries[n.position], nil
}

func (n *Navigator) moveTo(i int) {
	n.position = i
	n.ended = false
}
