// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("cache: store closed")

// Store is a byte-oriented key-value store with per-entry expiry.
type Store interface {
	// Get returns the value and true when the key exists and has not expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value for ttl. A non-positive ttl stores nothing.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendBadger Backend = "badger"
)

// Options selects and configures a Store.
type Options struct {
	Backend         Backend
	Path            string        // badger directory
	InMemory        bool          // badger without disk (tests)
	CleanupInterval time.Duration // memory cleanup period
}

// Open creates the Store described by opts.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryStore(opts.CleanupInterval), nil
	case BackendBadger:
		return OpenBadger(opts.Path, opts.InMemory)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
