// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package models

// NoticeKind classifies a user-visible notice.
type NoticeKind string

const (
	NoticeEndOfQueue        NoticeKind = "end_of_queue"
	NoticeNoPlayableEntries NoticeKind = "no_playable_entries"
	NoticeFeedbackFailed    NoticeKind = "feedback_failed"
	NoticeLoadFailed        NoticeKind = "load_failed"
)

// Notice is a transient message for the display layer.
type Notice struct {
	Kind        NoticeKind `json:"kind"`
	Message     string     `json:"message"`
	SongID      string     `json:"song_id,omitempty"`
	Dismissible bool       `json:"dismissible"`
}
