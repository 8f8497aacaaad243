// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package models

import "strings"

// Video is a playable video variant of a song.
type Video struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// QueueEntry is one song in the playback queue together with its video variants.
type QueueEntry struct {
	SongID           string   `json:"song_id"`
	Title            string   `json:"title"`
	Artists          []string `json:"artists"`
	Album            string   `json:"album,omitempty"`
	DurationMs       int64    `json:"duration_ms,omitempty"`
	StreamingURI     string   `json:"streaming_uri,omitempty"` // opaque deep link, never played here
	OfficialVideo    *Video   `json:"official_video,omitempty"`
	LivePerformances []Video  `json:"live_performances,omitempty"`
}

// HasOfficialVideo reports whether an official video with a usable id exists.
func (e *QueueEntry) HasOfficialVideo() bool {
	return e.OfficialVideo != nil && e.OfficialVideo.ID != ""
}

// FirstLive returns the index of the first live performance with a usable
// id, or -1.
func (e *QueueEntry) FirstLive() int {
	for i := range e.LivePerformances {
		if e.LivePerformances[i].ID != "" {
			return i
		}
	}
	return -1
}

// Playable reports whether at least one video variant has a usable id.
func (e *QueueEntry) Playable() bool {
	return e.HasOfficialVideo() || e.FirstLive() >= 0
}

// ArtistLine joins the artists for display.
func (e *QueueEntry) ArtistLine() string {
	return strings.Join(e.Artists, ", ")
}

// QueueResponse is the body of GET /youtube/recommendations/all.
type QueueResponse struct {
	QueueItems []QueueEntry `json:"queue_items"`
}

// HasVideosResponse is the body of GET /youtube/recommendations/check.
type HasVideosResponse struct {
	HasVideos bool `json:"has_videos"`
}
