// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package playback

import (
	"testing"

	"github.com/tomtom215/swipewave/internal/models"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	official := &models.Video{ID: "off", Title: "Official"}
	live := []models.Video{{ID: "l0"}, {ID: "l1"}, {ID: "l2"}}

	tests := []struct {
		name     string
		entry    models.QueueEntry
		pref     Preference
		wantID   string
		wantLive bool
		wantOK   bool
	}{
		{"official by default", models.QueueEntry{OfficialVideo: official, LivePerformances: live}, Preference{}, "off", false, true},
		{"prefer live picks selection", models.QueueEntry{OfficialVideo: official, LivePerformances: live}, Preference{PreferLive: true, SelectedLiveIndex: 2}, "l2", true, true},
		{"prefer live clamps out of range", models.QueueEntry{LivePerformances: live}, Preference{PreferLive: true, SelectedLiveIndex: 7}, "l0", true, true},
		{"prefer live clamps negative", models.QueueEntry{LivePerformances: live}, Preference{PreferLive: true, SelectedLiveIndex: -1}, "l0", true, true},
		{"prefer live without live falls back to official", models.QueueEntry{OfficialVideo: official}, Preference{PreferLive: true, SelectedLiveIndex: 5}, "off", false, true},
		{"no official uses first live", models.QueueEntry{LivePerformances: live}, Preference{SelectedLiveIndex: 2}, "l0", true, true},
		{"empty official id is absent", models.QueueEntry{OfficialVideo: &models.Video{}, LivePerformances: live[1:]}, Preference{}, "l1", true, true},
		{"nothing playable", models.QueueEntry{}, Preference{PreferLive: true}, "", false, false},
		{"empty live ids are absent", models.QueueEntry{LivePerformances: []models.Video{{}, {Title: "x"}}}, Preference{PreferLive: true}, "", false, false},
		{"empty live ids fall back to official", models.QueueEntry{OfficialVideo: official, LivePerformances: []models.Video{{}}}, Preference{PreferLive: true}, "off", false, true},
		{"selected live with empty id uses first usable", models.QueueEntry{LivePerformances: []models.Video{{}, {ID: "l1"}, {}}}, Preference{PreferLive: true, SelectedLiveIndex: 2}, "l1", true, true},
		{"no official skips empty live ids", models.QueueEntry{LivePerformances: []models.Video{{}, {ID: "l1"}}}, Preference{}, "l1", true, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sel, ok := Resolve(&tt.entry, tt.pref)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if sel.VideoID != tt.wantID {
				t.Errorf("VideoID = %q, want %q", sel.VideoID, tt.wantID)
			}
			if sel.Live != tt.wantLive {
				t.Errorf("Live = %v, want %v", sel.Live, tt.wantLive)
			}
		})
	}
}

func TestResolveNilEntry(t *testing.T) {
	t.Parallel()

	if _, ok := Resolve(nil, Preference{PreferLive: true}); ok {
		t.Error("Resolve(nil) ok = true")
	}
}

func TestTogglePreferLiveResetsIndex(t *testing.T) {
	t.Parallel()

	p := Preference{SelectedLiveIndex: 4}
	p.TogglePreferLive()
	if !p.PreferLive || p.SelectedLiveIndex != 0 {
		t.Fatalf("after first toggle = %+v", p)
	}

	p.SelectLive(3)
	p.TogglePreferLive()
	if p.PreferLive || p.SelectedLiveIndex != 0 {
		t.Fatalf("after second toggle = %+v", p)
	}
}

func TestSelectLiveClampsNegative(t *testing.T) {
	t.Parallel()

	var p Preference
	p.SelectLive(-3)
	if p.SelectedLiveIndex != 0 {
		t.Errorf("SelectedLiveIndex = %d, want 0", p.SelectedLiveIndex)
	}
}

func TestFilterPlayable(t *testing.T) {
	t.Parallel()

	in := []models.QueueEntry{
		{SongID: "a", OfficialVideo: &models.Video{ID: "v"}},
		{SongID: "b"},
		{SongID: "c", LivePerformances: []models.Video{{ID: "l"}}},
		{SongID: "d", LivePerformances: []models.Video{{Title: "no id"}}},
	}
	out := FilterPlayable(in)
	if len(out) != 2 || out[0].SongID != "a" || out[1].SongID != "c" {
		t.Errorf("FilterPlayable() = %+v", out)
	}
}
