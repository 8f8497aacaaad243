// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

/*
Package metrics provides Prometheus instrumentation for Swipewave.

All collectors are registered with the default registry through promauto at
package initialization and are exposed by the companion server at /metrics:

	curl http://localhost:8765/metrics

# Available Metrics

Gestures:
  - swipewave_gesture_outcomes_total{decision}: released drags by decision (left, right, none, tap)
  - swipewave_gesture_cancellations_total{reason}: drags ended without a decision

Feedback:
  - swipewave_feedback_recorded_total{liked,source}
  - swipewave_feedback_submissions_total{result}: success, failure

Queue:
  - swipewave_queue_skips_total{reason}: error, unresolvable
  - swipewave_queue_terminal_total{kind}: end_of_queue, no_playable_entries
  - swipewave_queue_length

Cache:
  - swipewave_cache_lookups_total{key,result}: hit, miss, malformed

Discovery API:
  - swipewave_discovery_request_duration_seconds{endpoint}
  - swipewave_discovery_requests_total{endpoint,status}

Poller:
  - swipewave_poll_duration_seconds
  - swipewave_poll_phase{phase}: 1 for the last reported phase

Circuit breaker:
  - circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

HTTP and WebSocket:
  - swipewave_http_requests_total{method,route,status}
  - swipewave_http_request_duration_seconds{method,route}
  - swipewave_websocket_connections
*/
package metrics
