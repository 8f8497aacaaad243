// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package feedback

import "sync"

// Change is delivered to subscribers after a decision is applied.
type Change struct {
	SongID string
	Liked  bool
}

// Store maps song ids to the user's decision.
type Store struct {
	mu          sync.RWMutex
	decisions   map[string]bool
	subscribers map[uint64]func(Change)
	nextSub     uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		decisions:   make(map[string]bool),
		subscribers: make(map[uint64]func(Change)),
	}
}

// Get returns the decision for songID.
func (s *Store) Get(songID string) (liked, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	liked, ok = s.decisions[songID]
	return liked, ok
}

// Set records a decision and notifies every subscriber before returning.
// Subscribers run on the caller's goroutine without the store lock held.
func (s *Store) Set(songID string, liked bool) {
	s.mu.Lock()
	s.decisions[songID] = liked
	subs := make([]func(Change), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	c := Change{SongID: songID, Liked: liked}
	for _, fn := range subs {
		fn(c)
	}
}

// setIfAbsent seeds a decision without notifying. It reports whether the
// value was stored.
func (s *Store) setIfAbsent(songID string, liked bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decisions[songID]; ok {
		return false
	}
	s.decisions[songID] = liked
	return true
}

// Len returns the number of decided songs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.decisions)
}

// Snapshot returns a copy of all decisions.
func (s *Store) Snapshot() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.decisions))
	for k, v := range s.decisions {
		out[k] = v
	}
	return out
}

// Subscribe registers fn for every future Set. The returned func removes it
// and is safe to call more than once.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}
