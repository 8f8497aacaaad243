// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package cache

import (
	"context"
	"testing"
	"time"
)

func newTestBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()
	b, err := OpenBadger("", true)
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestBadgerStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := newTestBadgerStore(t)

	if _, ok, err := b.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("Get(missing) = %v, %v", ok, err)
	}
	if err := b.Set(ctx, "k", []byte(`{"a":1}`), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := b.Get(ctx, "k")
	if err != nil || !ok || string(got) != `{"a":1}` {
		t.Fatalf("Get() = %q, %v, %v", got, ok, err)
	}
	if err := b.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := b.Get(ctx, "k"); ok {
		t.Error("key present after Delete")
	}
}

func TestBadgerStoreTTL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := newTestBadgerStore(t)

	// Badger TTLs have one second resolution.
	if err := b.Set(ctx, "k", []byte("v"), time.Second); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2100 * time.Millisecond)
	if _, ok, _ := b.Get(ctx, "k"); ok {
		t.Error("expired key still readable")
	}
}

func TestBadgerStoreClosed(t *testing.T) {
	t.Parallel()
	b, err := OpenBadger("", true)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestOpenBackends(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"memory", Options{Backend: BackendMemory}, false},
		{"default is memory", Options{}, false},
		{"badger in memory", Options{Backend: BackendBadger, InMemory: true}, false},
		{"badger on disk", Options{Backend: BackendBadger, Path: t.TempDir()}, false},
		{"badger without path", Options{Backend: BackendBadger}, true},
		{"unknown", Options{Backend: "redis"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				_ = s.Close()
			}
		})
	}
}
