// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

/*
Package discovery talks to the recommendation API.

Client is the plain HTTP client: JSON over HTTPS with an optional bearer
token, paced by a token bucket. Non-2xx responses are returned as
*StatusError.

CircuitBreakerClient wraps any ClientInterface with sony/gobreaker. 4xx
responses and caller cancellation do not count as failures; 5xx responses
and transport errors do. While the circuit is open calls fail fast with an
error wrapping ErrCircuitOpen.

Repository adds a read-through cache over cache.Store for the two read paths
that are safe to serve stale:

	recommendations:batch   5 minutes
	youtube:has_videos      10 minutes

A miss, an expired entry or a malformed payload triggers a live fetch that
overwrites the entry. Cache failures are logged and fall through to the live
fetch. PatchFeedback rewrites the cached batch after a decision without
extending its expiry.
*/
package discovery
