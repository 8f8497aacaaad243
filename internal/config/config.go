// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the complete process configuration.
type Config struct {
	API     APIConfig     `koanf:"api"`
	Breaker BreakerConfig `koanf:"breaker"`
	Gesture GestureConfig `koanf:"gesture"`
	Queue   QueueConfig   `koanf:"queue"`
	Cache   CacheConfig   `koanf:"cache"`
	Poller  PollerConfig  `koanf:"poller"`
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
}

// APIConfig configures the recommendation API client.
type APIConfig struct {
	BaseURL   string        `koanf:"base_url" validate:"required,url"`
	Token     string        `koanf:"token"`
	Timeout   time.Duration `koanf:"timeout" validate:"gt=0"`
	RateLimit float64       `koanf:"rate_limit" validate:"gt=0"`
	RateBurst int           `koanf:"rate_burst" validate:"gte=1"`
}

// BreakerConfig configures the circuit breaker around the API client.
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests" validate:"gte=1"` // allowed in half-open
	Interval     time.Duration `koanf:"interval" validate:"gte=0"`     // closed-state counter reset
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"`       // open -> half-open
	MinRequests  uint32        `koanf:"min_requests" validate:"gte=1"`
	FailureRatio float64       `koanf:"failure_ratio" validate:"gt=0,lte=1"`
}

// GestureConfig holds the swipe classification thresholds.
type GestureConfig struct {
	SwipeThreshold float64       `koanf:"swipe_threshold" validate:"gt=0"`
	SwipeTimeout   time.Duration `koanf:"swipe_timeout" validate:"gt=0"`
	HintThreshold  float64       `koanf:"hint_threshold" validate:"gt=0"`
	IdleTimeout    time.Duration `koanf:"idle_timeout" validate:"gt=0"`
}

// QueueConfig configures the playback queue.
type QueueConfig struct {
	Mode             string        `koanf:"mode" validate:"oneof=wrap terminal"`
	RestartThreshold time.Duration `koanf:"restart_threshold" validate:"gte=0"`
	LoadRetries      int           `koanf:"load_retries" validate:"gte=1,lte=10"`
}

// CacheConfig configures the local key-value cache.
type CacheConfig struct {
	Backend            string        `koanf:"backend" validate:"oneof=memory badger"`
	Path               string        `koanf:"path"`
	RecommendationsTTL time.Duration `koanf:"recommendations_ttl" validate:"gt=0"`
	VideosTTL          time.Duration `koanf:"videos_ttl" validate:"gt=0"`
	CleanupInterval    time.Duration `koanf:"cleanup_interval" validate:"gt=0"`
}

// PollerConfig configures the library sync poller.
type PollerConfig struct {
	Enabled        bool          `koanf:"enabled"`
	CoarseDelay    time.Duration `koanf:"coarse_delay" validate:"gt=0"`
	FineDelay      time.Duration `koanf:"fine_delay" validate:"gt=0"`
	BackoffInitial time.Duration `koanf:"backoff_initial" validate:"gt=0"`
	BackoffMax     time.Duration `koanf:"backoff_max" validate:"gt=0"`
}

// ServerConfig configures the local companion HTTP server.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port" validate:"gte=1,lte=65535"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// LoggingConfig configures internal/logging.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
