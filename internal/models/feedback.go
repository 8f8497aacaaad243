// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package models

import "time"

// FeedbackSource tells how a decision was made.
type FeedbackSource string

const (
	SourceSwipe  FeedbackSource = "swipe"
	SourceButton FeedbackSource = "button"
)

// FeedbackRecord is one like/dislike decision. It is submitted once and never retried.
type FeedbackRecord struct {
	SongID           string         `json:"song_id"`
	Liked            bool           `json:"liked"`
	RecommendationID string         `json:"recommendation_id,omitempty"`
	Source           FeedbackSource `json:"source,omitempty"`
	RecordedAt       time.Time      `json:"recorded_at"`
}

// FeedbackRequest is the body of POST /recommendations/feedback.
type FeedbackRequest struct {
	SongID string `json:"song_id"`
	Liked  bool   `json:"liked"`
}

// Request converts the record to its wire form.
func (f *FeedbackRecord) Request() FeedbackRequest {
	return FeedbackRequest{SongID: f.SongID, Liked: f.Liked}
}
