// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

/*
Package config loads Swipewave configuration.

# Configuration Sources

Configuration is layered with koanf, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml,
    /etc/swipewave/config.yaml
 3. Environment variables listed below

Unknown environment variables are ignored.

# Environment Variables

Recommendation API (APIConfig):
  - API_BASE_URL: base URL of the recommendation API (required)
  - API_TOKEN: bearer token sent on every request
  - API_TIMEOUT: per-request timeout (default: 15s)
  - API_RATE_LIMIT: outbound requests per second (default: 5)
  - API_RATE_BURST: outbound burst (default: 10)

Circuit breaker (BreakerConfig):
  - BREAKER_MIN_REQUESTS: requests before the failure ratio is evaluated (default: 10)
  - BREAKER_FAILURE_RATIO: ratio that trips the breaker (default: 0.6)
  - BREAKER_TIMEOUT: open state duration (default: 30s)

Gestures (GestureConfig):
  - GESTURE_SWIPE_THRESHOLD: horizontal px needed to commit (default: 100)
  - GESTURE_SWIPE_TIMEOUT: max drag duration for a commit (default: 300ms)
  - GESTURE_HINT_THRESHOLD: px before a direction hint shows (default: 30)
  - GESTURE_IDLE_TIMEOUT: idle drag force-cancel (default: 3s)

Queue (QueueConfig):
  - QUEUE_MODE: wrap or terminal (default: wrap). Applies to next, previous
    and error skips; a like or dislike on the last card always ends the deck
  - QUEUE_RESTART_THRESHOLD: "previous" restarts the track past this position (default: 3s)
  - QUEUE_LOAD_RETRIES: queue fetch attempts before a notice (default: 3)

Cache (CacheConfig):
  - CACHE_BACKEND: memory or badger (default: memory)
  - CACHE_PATH: badger directory (default: /data/swipewave-cache)
  - CACHE_RECOMMENDATIONS_TTL: recommendation batch TTL (default: 5m)
  - CACHE_VIDEOS_TTL: has-videos flag TTL (default: 10m)

Poller (PollerConfig):
  - POLLER_ENABLED: poll library sync status (default: true)
  - POLLER_COARSE_DELAY: delay while queued or fetching (default: 10s)
  - POLLER_FINE_DELAY: delay while processing (default: 2s)
  - POLLER_BACKOFF_INITIAL / POLLER_BACKOFF_MAX: error backoff (default: 2s / 60s)

Companion server (ServerConfig):
  - HTTP_HOST / HTTP_PORT: bind address (default: 127.0.0.1:8765)
  - CORS_ORIGINS: comma-separated allowed display origins
  - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW: per-IP limit (default: 600 per 1m)

Logging (LoggingConfig):
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
*/
package config
