// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

/*
Package gesture turns raw pointer samples into like/dislike decisions.

# Classification

Classify looks only at the press and release samples:

	distance := release.X - press.X
	elapsed  := release.Time - press.Time

	Right  distance >  SwipeThreshold and elapsed < SwipeTimeout
	Left   distance < -SwipeThreshold and elapsed < SwipeTimeout
	None   otherwise

Both comparisons are strict: exactly 100px or exactly 300ms is None. A drag
with zero net movement is always None and is flagged as a Tap so the caller
can treat it as a click.

HintFor gives the direction to highlight while the pointer is still down
(±30px by default). The hint is feedback only; the release decides.

# Tracker

Tracker is the drag state machine:

	          Press
	  Idle ─────────▶ Dragging ──┐ Move (re-arms idle timer)
	   ▲                 │  ▲────┘
	   │   Release / Cancel / Escape / idle timeout / Press / Close
	   └─────────────────┘

Entering Dragging acquires a session scope from the Acquirer (document-level
pointer listeners and the text-selection lock in a browser display). Every
exit from Dragging runs the same transition: the idle timer is stopped, the
scope is released exactly once and the exit reason is reported. A Move or
Release without a Press is ignored.
*/
package gesture
