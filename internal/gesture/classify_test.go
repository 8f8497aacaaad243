// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package gesture

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func sample(x, y float64, after time.Duration) Sample {
	return Sample{Point: Point{X: x, Y: y}, Time: t0.Add(after)}
}

func TestClassify(t *testing.T) {
	t.Parallel()
	th := DefaultThresholds()

	tests := []struct {
		name    string
		dx, dy  float64
		elapsed time.Duration
		want    Direction
		wantTap bool
	}{
		{"fast right", 150, 0, 200 * time.Millisecond, Right, false},
		{"slow right", 150, 0, 400 * time.Millisecond, None, false},
		{"fast left", -150, 10, 100 * time.Millisecond, Left, false},
		{"exactly threshold distance", 100, 0, 100 * time.Millisecond, None, false},
		{"exactly threshold negative", -100, 0, 100 * time.Millisecond, None, false},
		{"just past threshold", 100.5, 0, 100 * time.Millisecond, Right, false},
		{"exactly timeout", 200, 0, 300 * time.Millisecond, None, false},
		{"just under timeout", 200, 0, 299 * time.Millisecond, Right, false},
		{"short drag", 40, 0, 50 * time.Millisecond, None, false},
		{"vertical only", 0, 200, 50 * time.Millisecond, None, false},
		{"no movement", 0, 0, 50 * time.Millisecond, None, true},
		{"no movement long press", 0, 0, 5 * time.Second, None, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := Classify(sample(200, 300, 0), sample(200+tt.dx, 300+tt.dy, tt.elapsed), th)
			if out.Decision != tt.want {
				t.Errorf("Decision = %v, want %v", out.Decision, tt.want)
			}
			if out.Tap != tt.wantTap {
				t.Errorf("Tap = %v, want %v", out.Tap, tt.wantTap)
			}
			if out.Elapsed != tt.elapsed {
				t.Errorf("Elapsed = %v, want %v", out.Elapsed, tt.elapsed)
			}
		})
	}
}

func TestClassifyCustomThresholds(t *testing.T) {
	t.Parallel()

	th := Thresholds{SwipeDistance: 50, SwipeTimeout: time.Second, HintDistance: 10, IdleTimeout: 3 * time.Second}
	out := Classify(sample(0, 0, 0), sample(60, 0, 800*time.Millisecond), th)
	if out.Decision != Right {
		t.Errorf("Decision = %v, want right", out.Decision)
	}
}

func TestHintFor(t *testing.T) {
	t.Parallel()
	th := DefaultThresholds()

	tests := []struct {
		offset float64
		want   Direction
	}{
		{0, None},
		{30, None},
		{31, Right},
		{-30, None},
		{-31, Left},
		{250, Right},
	}
	for _, tt := range tests {
		if got := HintFor(tt.offset, th); got != tt.want {
			t.Errorf("HintFor(%v) = %v, want %v", tt.offset, got, tt.want)
		}
	}
}

func TestDirectionString(t *testing.T) {
	t.Parallel()

	if Left.String() != "left" || Right.String() != "right" || None.String() != "none" {
		t.Error("unexpected Direction strings")
	}
}
