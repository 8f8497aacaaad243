// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestRecommendationSetDecodesLegacyFriendsKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		wantFirst string
		wantLen   int
	}{
		{"current key", `{"friends":[{"id":"a"}]}`, "a", 1},
		{"legacy key", `{"from_friends":[{"id":"b"},{"id":"c"}]}`, "b", 2},
		{"both keys prefer friends", `{"friends":[{"id":"a"}],"from_friends":[{"id":"b"}]}`, "a", 1},
		{"neither key", `{"hybrid":[{"id":"h"}]}`, "", 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var set RecommendationSet
			if err := json.Unmarshal([]byte(tt.body), &set); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if len(set.Friends) != tt.wantLen {
				t.Fatalf("len(Friends) = %d, want %d", len(set.Friends), tt.wantLen)
			}
			if tt.wantLen > 0 && set.Friends[0].ID != tt.wantFirst {
				t.Errorf("Friends[0].ID = %q, want %q", set.Friends[0].ID, tt.wantFirst)
			}
		})
	}
}

func TestRecommendationSetEncodesFriends(t *testing.T) {
	t.Parallel()

	set := RecommendationSet{Friends: []RecommendedSong{{ID: "x"}}}
	data, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(data), "from_friends") {
		t.Errorf("encoded legacy key: %s", data)
	}
	if !strings.Contains(string(data), `"friends":[{"id":"x"`) {
		t.Errorf("missing friends key: %s", data)
	}
}

func TestApplyFeedbackTouchesEveryCopy(t *testing.T) {
	t.Parallel()

	set := RecommendationSet{
		Hybrid:  []RecommendedSong{{ID: "s1"}, {ID: "s2"}},
		Friends: []RecommendedSong{{ID: "s1"}},
		Lyrical: []RecommendedSong{{ID: "s3"}, {ID: "s1"}},
	}

	if n := set.ApplyFeedback("s1", true); n != 3 {
		t.Fatalf("ApplyFeedback() = %d, want 3", n)
	}
	for _, b := range AllBuckets {
		for _, s := range set.Bucket(b) {
			liked, decided := s.Liked()
			if s.ID == "s1" && (!decided || !liked) {
				t.Errorf("%s/%s not liked", b, s.ID)
			}
			if s.ID != "s1" && decided {
				t.Errorf("%s/%s unexpectedly decided", b, s.ID)
			}
		}
	}
}

func TestParseBucket(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"hybrid", "friends", "from_friends", "similar", "lyrical"} {
		if _, err := ParseBucket(name); err != nil {
			t.Errorf("ParseBucket(%q) error = %v", name, err)
		}
	}
	if b, _ := ParseBucket("from_friends"); b != BucketFriends {
		t.Errorf("legacy name mapped to %q", b)
	}
	if _, err := ParseBucket("trending"); err == nil {
		t.Error("expected error for unknown bucket")
	}
}

func TestQueueEntryPlayable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry QueueEntry
		want  bool
	}{
		{"official only", QueueEntry{OfficialVideo: &Video{ID: "v"}}, true},
		{"live only", QueueEntry{LivePerformances: []Video{{ID: "l"}}}, true},
		{"empty official id", QueueEntry{OfficialVideo: &Video{}}, false},
		{"empty live ids", QueueEntry{LivePerformances: []Video{{}, {Title: "untitled"}}}, false},
		{"second live usable", QueueEntry{LivePerformances: []Video{{}, {ID: "l"}}}, true},
		{"nothing", QueueEntry{}, false},
	}
	for _, tt := range tests {
		if got := tt.entry.Playable(); got != tt.want {
			t.Errorf("%s: Playable() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSyncStatusTerminal(t *testing.T) {
	t.Parallel()

	for phase, want := range map[SyncPhase]bool{
		PhaseQueued:     false,
		PhaseFetching:   false,
		PhaseProcessing: false,
		PhaseFinalizing: false,
		PhaseComplete:   true,
		PhaseFailed:     true,
		PhaseIdle:       true,
	} {
		if got := (SyncStatus{Phase: phase}).Terminal(); got != want {
			t.Errorf("Terminal(%s) = %v, want %v", phase, got, want)
		}
	}
}
