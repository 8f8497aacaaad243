// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	defer s.Close()

	if err := SetJSON(ctx, s, "p", payload{Name: "a", Count: 2}, 5*time.Minute); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}

	var got payload
	env, hit, err := GetJSON(ctx, s, "p", &got)
	if err != nil || !hit {
		t.Fatalf("GetJSON() hit=%v err=%v", hit, err)
	}
	if got.Name != "a" || got.Count != 2 {
		t.Errorf("decoded = %+v", got)
	}
	if env.TTLMs != (5 * time.Minute).Milliseconds() {
		t.Errorf("TTLMs = %d", env.TTLMs)
	}
	if r := env.Remaining(time.Now()); r <= 4*time.Minute || r > 5*time.Minute {
		t.Errorf("Remaining = %v", r)
	}
}

func TestGetJSONMalformedIsMiss(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{{{`},
		{"truncated", `{"stored_at":"2026-01-01T00:00:00Z","ttl_ms":30`},
		{"bare value without envelope", `{"name":"a","count":1}`},
		{"wrong data shape", `{"stored_at":"2099-01-01T00:00:00Z","ttl_ms":60000,"data":[1,2,3]}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			s := NewMemoryStore(time.Minute)
			defer s.Close()

			_ = s.Set(ctx, "p", []byte(tt.raw), time.Minute)

			var got payload
			_, hit, err := GetJSON(ctx, s, "p", &got)
			if err != nil {
				t.Fatalf("GetJSON() error = %v, want nil", err)
			}
			if hit {
				t.Fatal("malformed payload reported as hit")
			}
			if _, still, _ := s.Get(ctx, "p"); still {
				t.Error("malformed payload was not removed")
			}
		})
	}
}

func TestGetJSONExpiredEnvelopeIsMiss(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	defer s.Close()

	// The store still holds it but the envelope says it expired.
	raw, _ := json.Marshal(Envelope{
		StoredAt: time.Now().Add(-10 * time.Minute),
		TTLMs:    (5 * time.Minute).Milliseconds(),
		Data:     json.RawMessage(`{"name":"old"}`),
	})
	_ = s.Set(ctx, "p", raw, time.Hour)

	var got payload
	if _, hit, _ := GetJSON(ctx, s, "p", &got); hit {
		t.Error("expired envelope reported as hit")
	}
}

func TestReplaceJSONKeepsExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	defer s.Close()

	stored := time.Now().Add(-2 * time.Minute).UTC()
	prev := Envelope{StoredAt: stored, TTLMs: (5 * time.Minute).Milliseconds()}
	if err := ReplaceJSON(ctx, s, "p", payload{Name: "patched"}, prev); err != nil {
		t.Fatalf("ReplaceJSON() error = %v", err)
	}

	var got payload
	env, hit, _ := GetJSON(ctx, s, "p", &got)
	if !hit || got.Name != "patched" {
		t.Fatalf("GetJSON() = %+v hit=%v", got, hit)
	}
	if !env.StoredAt.Equal(stored) {
		t.Errorf("StoredAt = %v, want original %v", env.StoredAt, stored)
	}
	if r := env.Remaining(time.Now()); r > 3*time.Minute {
		t.Errorf("Remaining = %v, want <= 3m", r)
	}

	expired := Envelope{StoredAt: time.Now().Add(-time.Hour), TTLMs: 1000}
	if err := ReplaceJSON(ctx, s, "gone", payload{}, expired); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get(ctx, "gone"); ok {
		t.Error("ReplaceJSON wrote an already expired envelope")
	}
}
