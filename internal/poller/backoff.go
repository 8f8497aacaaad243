// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package poller

import "time"

// Backoff produces exponentially growing delays. The zero value is not
// usable; use NewBackoff.
type Backoff struct {
	initial time.Duration
	max     time.Duration
	factor  float64
	next    time.Duration
}

// NewBackoff starts at initial and doubles up to max.
func NewBackoff(initial, maxDelay time.Duration) *Backoff {
	if initial <= 0 {
		initial = 2 * time.Second
	}
	if maxDelay < initial {
		maxDelay = initial
	}
	return &Backoff{initial: initial, max: maxDelay, factor: 2, next: initial}
}

// Next returns the current delay and grows the following one.
func (b *Backoff) Next() time.Duration {
	d := b.next
	grown := time.Duration(float64(b.next) * b.factor)
	if grown > b.max || grown <= 0 {
		grown = b.max
	}
	b.next = grown
	return d
}

// Reset returns to the initial delay.
func (b *Backoff) Reset() { b.next = b.initial }
