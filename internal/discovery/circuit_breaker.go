// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/swipewave/internal/logging"
	"github.com/tomtom215/swipewave/internal/metrics"
	"github.com/tomtom215/swipewave/internal/models"
)

// ErrCircuitOpen is wrapped by every call rejected by an open circuit.
var ErrCircuitOpen = errors.New("recommendation API circuit open")

var _ ClientInterface = (*CircuitBreakerClient)(nil)

// BreakerConfig tunes the circuit breaker.
type BreakerConfig struct {
	Name         string
	MaxRequests  uint32        // allowed in half-open
	Interval     time.Duration // closed-state count reset
	Timeout      time.Duration // open before half-open
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerConfig opens after 60% failures over at least 10 requests and
// stays open for 30 seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:         "discovery-api",
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// CircuitBreakerClient wraps a ClientInterface with a circuit breaker.
//
// The breaker uses real time for its interval and timeout.
type CircuitBreakerClient struct {
	client ClientInterface
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient wraps client.
func NewCircuitBreakerClient(client ClientInterface, cfg BreakerConfig) *CircuitBreakerClient {
	if cfg.Name == "" {
		cfg.Name = DefaultBreakerConfig().Name
	}
	name := cfg.Name

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := ratio >= cfg.FailureRatio
			if trip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("[CIRCUIT BREAKER] Opening recommendation API circuit")
			}
			return trip
		},

		IsSuccessful: isSuccessful,

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] Recommendation API state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{client: client, cb: cb, name: name}
}

// isSuccessful keeps client errors and caller cancellation out of the
// failure counts.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	if code := StatusCode(err); code >= 400 && code < 500 && code != 429 {
		return true
	}
	return false
}

func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Debug().Err(err).Msg("[CIRCUIT BREAKER] Recommendation API request rejected")
			return nil, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(cbc.cb.Counts().ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)
	return result, nil
}

// castResult converts a breaker result back to its concrete type.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// GetRecommendations fetches recommendations through the breaker.
func (cbc *CircuitBreakerClient) GetRecommendations(ctx context.Context) (models.RecommendationSet, error) {
	return castResult[models.RecommendationSet](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetRecommendations(ctx)
	}))
}

// GetQueue fetches the queue through the breaker.
func (cbc *CircuitBreakerClient) GetQueue(ctx context.Context) ([]models.QueueEntry, error) {
	return castResult[[]models.QueueEntry](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetQueue(ctx)
	}))
}

// SubmitFeedback posts a decision through the breaker.
func (cbc *CircuitBreakerClient) SubmitFeedback(ctx context.Context, req models.FeedbackRequest) error {
	_, err := cbc.execute(func() (interface{}, error) {
		return nil, cbc.client.SubmitFeedback(ctx, req)
	})
	return err
}

// CheckVideos checks for videos through the breaker.
func (cbc *CircuitBreakerClient) CheckVideos(ctx context.Context) (bool, error) {
	return castResult[bool](cbc.execute(func() (interface{}, error) {
		return cbc.client.CheckVideos(ctx)
	}))
}

// GetSyncStatus fetches the sync status through the breaker.
func (cbc *CircuitBreakerClient) GetSyncStatus(ctx context.Context) (models.SyncStatus, error) {
	return castResult[models.SyncStatus](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetSyncStatus(ctx)
	}))
}

// State returns the breaker state.
func (cbc *CircuitBreakerClient) State() gobreaker.State { return cbc.cb.State() }

// StateString returns the breaker state as closed, half-open or open.
func (cbc *CircuitBreakerClient) StateString() string { return stateToString(cbc.cb.State()) }

// Counts returns the breaker counts.
func (cbc *CircuitBreakerClient) Counts() gobreaker.Counts { return cbc.cb.Counts() }

// Name returns the breaker name.
func (cbc *CircuitBreakerClient) Name() string { return cbc.name }

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
