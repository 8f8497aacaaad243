// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/swipewave/internal/models"
)

var (
	// Gesture Metrics
	GestureOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipewave_gesture_outcomes_total",
			Help: "Released drags by classified decision",
		},
		[]string{"decision"},
	)

	GestureCancellations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipewave_gesture_cancellations_total",
			Help: "Drags that ended without a decision",
		},
		[]string{"reason"}, // cancel, escape, idle_timeout, superseded, teardown
	)

	// Feedback Metrics
	FeedbackRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipewave_feedback_recorded_total",
			Help: "Feedback decisions applied locally",
		},
		[]string{"liked", "source"},
	)

	FeedbackSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipewave_feedback_submissions_total",
			Help: "Feedback submissions to the recommendation API",
		},
		[]string{"result"},
	)

	// Queue Metrics
	QueueSkips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipewave_queue_skips_total",
			Help: "Entries skipped because they could not be played",
		},
		[]string{"reason"},
	)

	QueueTerminal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipewave_queue_terminal_total",
			Help: "Times the queue reached a terminal condition",
		},
		[]string{"kind"},
	)

	QueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swipewave_queue_length",
			Help: "Number of playable entries in the current queue",
		},
	)

	// Cache Metrics
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipewave_cache_lookups_total",
			Help: "Read-through cache lookups",
		},
		[]string{"key", "result"},
	)

	// Discovery API Metrics
	DiscoveryRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swipewave_discovery_request_duration_seconds",
			Help:    "Latency of recommendation API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	DiscoveryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipewave_discovery_requests_total",
			Help: "Recommendation API requests by status",
		},
		[]string{"endpoint", "status"},
	)

	// Poller Metrics
	PollDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "swipewave_poll_duration_seconds",
			Help:    "Duration of a single sync status poll",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	PollPhase = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "swipewave_poll_phase",
			Help: "Last reported sync phase (1 for the active phase)",
		},
		[]string{"phase"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// HTTP Metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipewave_http_requests_total",
			Help: "Companion API requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swipewave_http_request_duration_seconds",
			Help:    "Companion API request latency",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"method", "route"},
	)

	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swipewave_websocket_connections",
			Help: "Connected display clients",
		},
	)
)

var pollPhases = []models.SyncPhase{
	models.PhaseIdle, models.PhaseQueued, models.PhaseFetching, models.PhaseProcessing,
	models.PhaseFinalizing, models.PhaseComplete, models.PhaseFailed,
}

// RecordFeedback counts a locally applied decision.
func RecordFeedback(liked bool, source models.FeedbackSource) {
	FeedbackRecorded.WithLabelValues(strconv.FormatBool(liked), string(source)).Inc()
}

// RecordFeedbackSubmission counts the outcome of a feedback POST.
func RecordFeedbackSubmission(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	FeedbackSubmissions.WithLabelValues(result).Inc()
}

// RecordDiscoveryRequest records latency and status of one API call.
// status 0 means the request never produced a response.
func RecordDiscoveryRequest(endpoint string, status int, duration time.Duration) {
	DiscoveryRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	DiscoveryRequests.WithLabelValues(endpoint, label).Inc()
}

// RecordPoll records one poll cycle and marks the reported phase.
func RecordPoll(phase models.SyncPhase, duration time.Duration) {
	PollDuration.Observe(duration.Seconds())
	if phase == "" {
		return
	}
	for _, p := range pollPhases {
		v := 0.0
		if p == phase {
			v = 1
		}
		PollPhase.WithLabelValues(string(p)).Set(v)
	}
}

// RecordHTTPRequest records one companion API request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
