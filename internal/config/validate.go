// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package config

import (
	"fmt"

	"github.com/tomtom215/swipewave/internal/logging"
	"github.com/tomtom215/swipewave/internal/validation"
)

// Validate checks field constraints and the rules that span fields.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if c.Gesture.HintThreshold >= c.Gesture.SwipeThreshold {
		return fmt.Errorf("gesture.hint_threshold (%v) must be below gesture.swipe_threshold (%v)",
			c.Gesture.HintThreshold, c.Gesture.SwipeThreshold)
	}
	if c.Gesture.IdleTimeout <= c.Gesture.SwipeTimeout {
		return fmt.Errorf("gesture.idle_timeout (%v) must exceed gesture.swipe_timeout (%v)",
			c.Gesture.IdleTimeout, c.Gesture.SwipeTimeout)
	}
	if c.Poller.BackoffMax < c.Poller.BackoffInitial {
		return fmt.Errorf("poller.backoff_max (%v) must not be below poller.backoff_initial (%v)",
			c.Poller.BackoffMax, c.Poller.BackoffInitial)
	}
	if c.Cache.Backend == "badger" && c.Cache.Path == "" {
		return fmt.Errorf("cache.path is required when cache.backend=badger")
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}
	return nil
}
