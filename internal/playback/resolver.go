// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

// Package playback decides which video variant of a queue entry is played.
//
// Resolution order:
//
//  1. PreferLive with at least one live performance: the selected live
//     performance, or the first one when the selection is out of range.
//  2. The official video.
//  3. The first live performance.
//  4. Nothing: the entry is unplayable.
//
// A video with an empty id does not count, so a selection never carries an
// empty VideoID. Resolve is total. It never panics and never returns a video
// that does not belong to the entry.
package playback

import "github.com/tomtom215/swipewave/internal/models"

// Preference is the user's choice between official and live videos.
type Preference struct {
	PreferLive        bool `json:"prefer_live"`
	SelectedLiveIndex int  `json:"selected_live_index"`
}

// TogglePreferLive flips PreferLive and always resets the live selection.
func (p *Preference) TogglePreferLive() {
	p.PreferLive = !p.PreferLive
	p.SelectedLiveIndex = 0
}

// SelectLive picks a live performance. Negative indices clamp to 0; indices
// past the end are kept and clamped at resolve time, since the next entry may
// have more performances.
func (p *Preference) SelectLive(i int) {
	if i < 0 {
		i = 0
	}
	p.SelectedLiveIndex = i
}

// Selection is the resolved video for one entry.
type Selection struct {
	SongID    string `json:"song_id"`
	VideoID   string `json:"video_id"`
	Title     string `json:"title"`
	Live      bool   `json:"live"`
	LiveIndex int    `json:"live_index"` // meaningful only when Live
}

// Resolve returns the video to play for entry under pref.
func Resolve(entry *models.QueueEntry, pref Preference) (Selection, bool) {
	if entry == nil {
		return Selection{}, false
	}

	live := entry.LivePerformances
	first := entry.FirstLive()
	if pref.PreferLive && first >= 0 {
		idx := pref.SelectedLiveIndex
		if idx < 0 || idx >= len(live) || live[idx].ID == "" {
			idx = first
		}
		return liveSelection(entry.SongID, live, idx), true
	}

	if entry.HasOfficialVideo() {
		return Selection{
			SongID:  entry.SongID,
			VideoID: entry.OfficialVideo.ID,
			Title:   entry.OfficialVideo.Title,
		}, true
	}

	if first >= 0 {
		return liveSelection(entry.SongID, live, first), true
	}
	return Selection{}, false
}

func liveSelection(songID string, live []models.Video, idx int) Selection {
	return Selection{
		SongID:    songID,
		VideoID:   live[idx].ID,
		Title:     live[idx].Title,
		Live:      true,
		LiveIndex: idx,
	}
}

// Playable reports whether Resolve can ever succeed for entry.
func Playable(entry *models.QueueEntry) bool {
	return entry != nil && entry.Playable()
}

// FilterPlayable returns the playable entries, preserving order.
func FilterPlayable(entries []models.QueueEntry) []models.QueueEntry {
	out := make([]models.QueueEntry, 0, len(entries))
	for i := range entries {
		if Playable(&entries[i]) {
			out = append(out, entries[i])
		}
	}
	return out
}
