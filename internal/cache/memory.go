// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Stats tracks cache performance.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// MemoryStore is a thread-safe in-memory Store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	stats   Stats
	closed  bool

	now  func() time.Time
	stop chan struct{}
	done chan struct{}
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore starts a store whose expired entries are swept every
// cleanupInterval (default 1m). Expired entries are never returned, swept or not.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	m := &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	m.stats.LastCleanup = m.now()
	go m.cleanupLoop(cleanupInterval)
	return m
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return nil, false, ErrClosed
	}
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		m.record(func(s *Stats) { s.Misses++ })
		return nil, false, nil
	}

	if !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		if cur, still := m.entries[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		m.record(func(s *Stats) { s.Misses++; s.Evictions++ })
		return nil, false, nil
	}

	m.record(func(s *Stats) { s.Hits++ })
	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, true, nil
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data := make([]byte, len(value))
	copy(data, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.entries[key] = entry{data: data, expiresAt: m.now().Add(ttl)}
	m.stats.TotalKeys = int64(len(m.entries))
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if _, ok := m.entries[key]; ok {
		delete(m.entries, key)
		m.stats.Evictions++
		m.stats.TotalKeys = int64(len(m.entries))
	}
	return nil
}

// Close stops the cleanup loop and drops all entries. Safe to call twice.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.entries = nil
	m.mu.Unlock()

	close(m.stop)
	<-m.done
	return nil
}

// GetStats returns a snapshot of the counters.
func (m *MemoryStore) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// HitRate returns hits as a percentage of lookups.
func (m *MemoryStore) HitRate() float64 {
	s := m.GetStats()
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

func (m *MemoryStore) record(fn func(*Stats)) {
	m.mu.Lock()
	fn(&m.stats)
	m.mu.Unlock()
}

func (m *MemoryStore) cleanupLoop(interval time.Duration) {
	defer close(m.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

func (m *MemoryStore) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}

	now := m.now()
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
			m.stats.Evictions++
		}
	}
	m.stats.TotalKeys = int64(len(m.entries))
	m.stats.LastCleanup = now
}
