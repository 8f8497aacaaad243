// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package feedback

import (
	"sync"

	"github.com/tomtom215/swipewave/internal/models"
)

// Collections holds the recommendation buckets and reads feedback from a Store.
type Collections struct {
	store *Store

	mu  sync.RWMutex
	set models.RecommendationSet
}

// NewCollections creates empty collections backed by store.
func NewCollections(store *Store) *Collections {
	return &Collections{store: store}
}

// Load replaces every bucket. Server-supplied feedback seeds the store only
// for songs the user has not decided locally, and returns how many were seeded.
func (c *Collections) Load(set models.RecommendationSet) int {
	seeded := 0
	for _, b := range models.AllBuckets {
		for _, song := range set.Bucket(b) {
			if liked, ok := song.Liked(); ok && c.store.setIfAbsent(song.ID, liked) {
				seeded++
			}
		}
	}

	c.mu.Lock()
	c.set = set
	c.mu.Unlock()
	return seeded
}

// View returns one bucket with the store's decisions applied.
func (c *Collections) View(b models.Bucket) []models.RecommendedSong {
	c.mu.RLock()
	src := c.set.Bucket(b)
	out := make([]models.RecommendedSong, len(src))
	copy(out, src)
	c.mu.RUnlock()

	for i := range out {
		c.overlay(&out[i])
	}
	return out
}

// All returns every bucket with the store's decisions applied.
func (c *Collections) All() models.RecommendationSet {
	var out models.RecommendationSet
	for _, b := range models.AllBuckets {
		out.SetBucket(b, c.View(b))
	}
	return out
}

// Song finds the first copy of songID across buckets.
func (c *Collections) Song(songID string) (models.RecommendedSong, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, b := range models.AllBuckets {
		for _, song := range c.set.Bucket(b) {
			if song.ID == songID {
				c.overlay(&song)
				return song, true
			}
		}
	}
	return models.RecommendedSong{}, false
}

// Len returns the number of songs across buckets, duplicates included.
func (c *Collections) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.set.Len()
}

func (c *Collections) overlay(song *models.RecommendedSong) {
	if liked, ok := c.store.Get(song.ID); ok {
		v := liked
		song.UserFeedback = &v
	} else {
		song.UserFeedback = nil
	}
}
