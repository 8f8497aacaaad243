// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package gesture

import "time"

// Direction is a horizontal swipe direction.
type Direction int

const (
	None Direction = iota
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// Thresholds configure classification.
type Thresholds struct {
	SwipeDistance float64       // px, strict
	SwipeTimeout  time.Duration // strict
	HintDistance  float64       // px, strict
	IdleTimeout   time.Duration // force-cancel after this long without events
}

// DefaultThresholds returns 100px / 300ms / 30px / 3s.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SwipeDistance: 100,
		SwipeTimeout:  300 * time.Millisecond,
		HintDistance:  30,
		IdleTimeout:   3 * time.Second,
	}
}

// Point is a pointer position in display pixels.
type Point struct {
	X float64
	Y float64
}

// Sample is a pointer position at a moment.
type Sample struct {
	Point
	Time time.Time
}

// Outcome is the result of classifying a finished drag.
type Outcome struct {
	Decision Direction
	Tap      bool // no net movement at all
	Distance float64
	Elapsed  time.Duration
}

// Classify decides a drag from its press and release samples.
func Classify(press, release Sample, th Thresholds) Outcome {
	dx := release.X - press.X
	dy := release.Y - press.Y
	out := Outcome{
		Distance: dx,
		Elapsed:  release.Time.Sub(press.Time),
	}

	if dx == 0 && dy == 0 {
		out.Tap = true
		return out
	}
	if out.Elapsed >= th.SwipeTimeout {
		return out
	}

	switch {
	case dx > th.SwipeDistance:
		out.Decision = Right
	case dx < -th.SwipeDistance:
		out.Decision = Left
	}
	return out
}

// HintFor returns the direction to highlight for a horizontal offset.
func HintFor(offset float64, th Thresholds) Direction {
	switch {
	case offset > th.HintDistance:
		return Right
	case offset < -th.HintDistance:
		return Left
	default:
		return None
	}
}
