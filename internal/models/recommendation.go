// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package models

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Bucket names one recommendation source.
type Bucket string

const (
	BucketHybrid  Bucket = "hybrid"
	BucketFriends Bucket = "friends"
	BucketSimilar Bucket = "similar"
	BucketLyrical Bucket = "lyrical"
)

// AllBuckets lists every bucket in display order.
var AllBuckets = []Bucket{BucketHybrid, BucketFriends, BucketSimilar, BucketLyrical}

// ParseBucket validates a bucket name. The legacy "from_friends" name maps to friends.
func ParseBucket(s string) (Bucket, error) {
	switch s {
	case string(BucketHybrid):
		return BucketHybrid, nil
	case string(BucketFriends), "from_friends":
		return BucketFriends, nil
	case string(BucketSimilar):
		return BucketSimilar, nil
	case string(BucketLyrical):
		return BucketLyrical, nil
	}
	return "", fmt.Errorf("unknown recommendation bucket %q", s)
}

// RecommendedSong is a song suggested by one of the buckets.
type RecommendedSong struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Artists      []string           `json:"artists"`
	Album        string             `json:"album,omitempty"`
	ImageURL     string             `json:"image_url,omitempty"`
	Scores       map[string]float64 `json:"scores,omitempty"`
	UserFeedback *bool              `json:"user_feedback,omitempty"` // nil until the user decides
}

// Liked reports the recorded decision, if any.
func (s *RecommendedSong) Liked() (liked, decided bool) {
	if s.UserFeedback == nil {
		return false, false
	}
	return *s.UserFeedback, true
}

// RecommendationSet is the body of GET /recommendations/api-response.
type RecommendationSet struct {
	Hybrid  []RecommendedSong `json:"hybrid"`
	Friends []RecommendedSong `json:"friends"`
	Similar []RecommendedSong `json:"similar"`
	Lyrical []RecommendedSong `json:"lyrical"`
}

// UnmarshalJSON accepts the legacy from_friends key. friends wins when both are sent.
func (r *RecommendationSet) UnmarshalJSON(data []byte) error {
	var wire struct {
		Hybrid      []RecommendedSong `json:"hybrid"`
		Friends     []RecommendedSong `json:"friends"`
		FromFriends []RecommendedSong `json:"from_friends"`
		Similar     []RecommendedSong `json:"similar"`
		Lyrical     []RecommendedSong `json:"lyrical"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	r.Hybrid = wire.Hybrid
	r.Friends = wire.Friends
	if r.Friends == nil {
		r.Friends = wire.FromFriends
	}
	r.Similar = wire.Similar
	r.Lyrical = wire.Lyrical
	return nil
}

// Bucket returns the songs of a single bucket.
func (r *RecommendationSet) Bucket(b Bucket) []RecommendedSong {
	switch b {
	case BucketHybrid:
		return r.Hybrid
	case BucketFriends:
		return r.Friends
	case BucketSimilar:
		return r.Similar
	case BucketLyrical:
		return r.Lyrical
	}
	return nil
}

// SetBucket replaces the songs of a single bucket.
func (r *RecommendationSet) SetBucket(b Bucket, songs []RecommendedSong) {
	switch b {
	case BucketHybrid:
		r.Hybrid = songs
	case BucketFriends:
		r.Friends = songs
	case BucketSimilar:
		r.Similar = songs
	case BucketLyrical:
		r.Lyrical = songs
	}
}

// Len is the total number of songs across buckets, duplicates included.
func (r *RecommendationSet) Len() int {
	return len(r.Hybrid) + len(r.Friends) + len(r.Similar) + len(r.Lyrical)
}

// ApplyFeedback sets UserFeedback on every copy of songID in every bucket and
// returns how many copies changed.
func (r *RecommendationSet) ApplyFeedback(songID string, liked bool) int {
	n := 0
	for _, b := range AllBuckets {
		songs := r.Bucket(b)
		for i := range songs {
			if songs[i].ID == songID {
				v := liked
				songs[i].UserFeedback = &v
				n++
			}
		}
	}
	return n
}
