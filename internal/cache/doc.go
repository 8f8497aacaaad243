// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

/*
Package cache provides the local key-value store used for read-through
caching of recommendation API responses.

# Backends

Two Store implementations exist:

  - MemoryStore: process-local map with per-entry expiry and a background
    cleanup loop. Entries are lost on restart.
  - BadgerStore: BadgerDB-backed store using native entry TTLs. Cached
    recommendation batches survive restarts until they expire.

Open selects one from configuration.

# JSON Envelopes

GetJSON and SetJSON wrap values in a small envelope that records when the
value was stored and for how long it is valid:

	{"stored_at":"2026-01-02T15:04:05Z","ttl_ms":300000,"data":{...}}

A payload that does not decode (truncated, written by an older version,
wrong schema) is treated exactly like a miss and removed, so the caller falls
through to a live fetch and overwrites it. The envelope also lets a
read-modify-write keep the original expiry (see Remaining).

# Usage

	store, err := cache.Open(cache.Options{Backend: "memory"})
	...
	var set models.RecommendationSet
	env, hit, err := cache.GetJSON(ctx, store, "recommendations:batch", &set)
	if !hit {
	    set = fetchLive()
	    _ = cache.SetJSON(ctx, store, "recommendations:batch", set, 5*time.Minute)
	}
*/
package cache
