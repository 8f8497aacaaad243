// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package discovery

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/swipewave/internal/models"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{BaseURL: srv.URL + "/", Token: "secret", Timeout: 5 * time.Second})
}

func TestClientGetRecommendations(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != PathRecommendations || r.Method != http.MethodGet {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		_, _ = io.WriteString(w, `{"hybrid":[{"id":"s1","title":"One"}],"from_friends":[{"id":"s2","title":"Two"}],"similar":[],"lyrical":[]}`)
	})

	set, err := client.GetRecommendations(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Hybrid) != 1 || set.Hybrid[0].ID != "s1" {
		t.Errorf("hybrid = %+v", set.Hybrid)
	}
	if len(set.Friends) != 1 || set.Friends[0].ID != "s2" {
		t.Errorf("friends = %+v", set.Friends)
	}
}

func TestClientGetQueue(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"queue_items":[{"song_id":"s1","title":"One","artists":["A"],"official_video":{"id":"v1","title":"One (Official)"},"live_performances":[{"id":"l1","title":"Live"}]}]}`)
	})

	entries, err := client.GetQueue(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	e := entries[0]
	if !e.HasOfficialVideo() || e.OfficialVideo.ID != "v1" || len(e.LivePerformances) != 1 {
		t.Errorf("entry = %+v", e)
	}
}

func TestClientSubmitFeedback(t *testing.T) {
	t.Parallel()

	var got models.FeedbackRequest
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != PathFeedback {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.SubmitFeedback(context.Background(), models.FeedbackRequest{SongID: "s1", Liked: true}); err != nil {
		t.Fatal(err)
	}
	if got != (models.FeedbackRequest{SongID: "s1", Liked: true}) {
		t.Errorf("server received %+v", got)
	}
}

func TestClientStatusError(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := client.SubmitFeedback(context.Background(), models.FeedbackRequest{SongID: "s1"})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.StatusCode != 500 || !se.Server() || se.Body != "boom" {
		t.Errorf("status error = %+v", se)
	}
	if StatusCode(err) != 500 {
		t.Errorf("StatusCode = %d", StatusCode(err))
	}
	if !strings.Contains(err.Error(), "s1") {
		t.Errorf("error lacks song id: %v", err)
	}
}

func TestClientCheckVideosAndSyncStatus(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathHasVideos:
			_, _ = io.WriteString(w, `{"has_videos":true}`)
		case PathSyncStatus:
			_, _ = io.WriteString(w, `{"phase":"processing","progress":0.5}`)
		default:
			http.NotFound(w, r)
		}
	})

	has, err := client.CheckVideos(context.Background())
	if err != nil || !has {
		t.Errorf("CheckVideos = %v, %v", has, err)
	}
	status, err := client.GetSyncStatus(context.Background())
	if err != nil || status.Phase != models.PhaseProcessing || status.Progress != 0.5 {
		t.Errorf("GetSyncStatus = %+v, %v", status, err)
	}
}

func TestClientDecodeError(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{not json`)
	})
	if _, err := client.CheckVideos(context.Background()); err == nil {
		t.Error("expected decode error")
	}
}

func TestClientCancelledContext(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.GetQueue(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
