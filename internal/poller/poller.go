// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

// Package poller polls the background library sync status with a single
// self-rescheduling timer.
//
// Only one poll is ever pending or in flight. The delay before the next poll
// depends on the phase the last poll reported:
//
//	queued, fetching        CoarseDelay (10s)
//	processing, finalizing  FineDelay (2s)
//	idle, complete, failed  polling pauses until Trigger
//
// Fetch errors back off exponentially and reset on the next success.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/swipewave/internal/logging"
	"github.com/tomtom215/swipewave/internal/metrics"
	"github.com/tomtom215/swipewave/internal/models"
)

// FetchFunc retrieves the current sync status.
type FetchFunc func(ctx context.Context) (models.SyncStatus, error)

// Timer is the subset of *time.Timer the poller uses.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// DelayPolicy maps a phase to the delay before the next poll.
type DelayPolicy struct {
	CoarseDelay time.Duration
	FineDelay   time.Duration
}

// Next returns the delay after phase, or false when polling should pause.
func (p DelayPolicy) Next(phase models.SyncPhase) (time.Duration, bool) {
	switch phase {
	case models.PhaseQueued, models.PhaseFetching:
		return p.CoarseDelay, true
	case models.PhaseProcessing, models.PhaseFinalizing:
		return p.FineDelay, true
	default:
		return 0, false
	}
}

// Config configures a Poller.
type Config struct {
	Policy         DelayPolicy
	BackoffInitial time.Duration
	BackoffMax     time.Duration
	Clock          Clock

	// OnStatus receives every successful poll result.
	OnStatus func(models.SyncStatus)
}

// DefaultConfig returns production delays.
func DefaultConfig() Config {
	return Config{
		Policy:         DelayPolicy{CoarseDelay: 10 * time.Second, FineDelay: 2 * time.Second},
		BackoffInitial: 2 * time.Second,
		BackoffMax:     time.Minute,
	}
}

// Poller runs FetchFunc on a schedule derived from the reported phase.
type Poller struct {
	fetch    FetchFunc
	cfg      Config
	clock    Clock
	backoff  *Backoff
	logger   zerolog.Logger
	onStatus func(models.SyncStatus)

	mu       sync.Mutex
	running  bool
	base     context.Context
	timer    Timer
	inFlight bool
	cancel   context.CancelFunc
	gen      uint64
	last     models.SyncStatus
}

// New creates a stopped poller.
func New(fetch FetchFunc, cfg Config) *Poller {
	def := DefaultConfig()
	if cfg.Policy.CoarseDelay <= 0 {
		cfg.Policy.CoarseDelay = def.Policy.CoarseDelay
	}
	if cfg.Policy.FineDelay <= 0 {
		cfg.Policy.FineDelay = def.Policy.FineDelay
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	onStatus := cfg.OnStatus
	if onStatus == nil {
		onStatus = func(models.SyncStatus) {}
	}
	return &Poller{
		fetch:    fetch,
		cfg:      cfg,
		clock:    clock,
		backoff:  NewBackoff(cfg.BackoffInitial, cfg.BackoffMax),
		logger:   logging.WithComponent("poller"),
		onStatus: onStatus,
	}
}

// Start polls immediately and keeps polling until Stop or ctx is done.
// Calling Start on a running poller does nothing.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.base = ctx
	p.backoff.Reset()
	p.scheduleLocked(0)
}

// Trigger polls now unless a poll is already in flight or the poller is
// stopped. It resumes a paused poller.
func (p *Poller) Trigger() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running || p.inFlight {
		return false
	}
	p.scheduleLocked(0)
	return true
}

// Stop cancels the pending poll and any request in flight. Safe to call
// repeatedly.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.running = false
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// Serve runs the poller until ctx is cancelled.
func (p *Poller) Serve(ctx context.Context) error {
	p.Start(ctx)
	<-ctx.Done()
	p.Stop()
	return ctx.Err()
}

// String names the service for the supervisor.
func (p *Poller) String() string { return "sync-poller" }

// Running reports whether the poller was started and not stopped.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Pending reports whether a poll is scheduled or in flight.
func (p *Poller) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timer != nil || p.inFlight
}

// Last returns the most recent successful status.
func (p *Poller) Last() models.SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// scheduleLocked replaces any pending poll with one after d.
func (p *Poller) scheduleLocked(d time.Duration) {
	p.gen++
	gen := p.gen
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = p.clock.AfterFunc(d, func() { p.poll(gen) })
}

func (p *Poller) poll(gen uint64) {
	p.mu.Lock()
	if !p.running || gen != p.gen || p.inFlight {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	p.inFlight = true
	ctx, cancel := context.WithCancel(logging.ContextWithNewCorrelationID(p.base))
	p.cancel = cancel
	p.mu.Unlock()

	start := time.Now()
	status, err := p.fetch(ctx)
	cancel()

	p.mu.Lock()
	p.inFlight = false
	p.cancel = nil
	if !p.running || gen != p.gen {
		p.mu.Unlock()
		return
	}

	if err != nil {
		metrics.RecordPoll("", time.Since(start))
		delay := p.backoff.Next()
		p.scheduleLocked(delay)
		p.mu.Unlock()
		logging.Ctx(ctx).Warn().Err(err).Dur("retry_in", delay).Msg("Sync status poll failed")
		return
	}

	metrics.RecordPoll(status.Phase, time.Since(start))
	p.backoff.Reset()
	p.last = status
	if delay, ok := p.cfg.Policy.Next(status.Phase); ok {
		p.scheduleLocked(delay)
	}
	p.mu.Unlock()

	logging.Ctx(ctx).Debug().Str("phase", string(status.Phase)).Float64("progress", status.Progress).Msg("Sync status")
	p.onStatus(status)
}
