// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/swipewave/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Timeout:   15 * time.Second,
			RateLimit: 5,
			RateBurst: 10,
		},
		Breaker: BreakerConfig{
			MaxRequests:  3,
			Interval:     time.Minute,
			Timeout:      30 * time.Second,
			MinRequests:  10,
			FailureRatio: 0.6,
		},
		Gesture: GestureConfig{
			SwipeThreshold: 100,
			SwipeTimeout:   300 * time.Millisecond,
			HintThreshold:  30,
			IdleTimeout:    3 * time.Second,
		},
		Queue: QueueConfig{
			Mode:             "wrap",
			RestartThreshold: 3 * time.Second,
			LoadRetries:      3,
		},
		Cache: CacheConfig{
			Backend:            "memory",
			Path:               "/data/swipewave-cache",
			RecommendationsTTL: 5 * time.Minute,
			VideosTTL:          10 * time.Minute,
			CleanupInterval:    time.Minute,
		},
		Poller: PollerConfig{
			Enabled:        true,
			CoarseDelay:    10 * time.Second,
			FineDelay:      2 * time.Second,
			BackoffInitial: 2 * time.Second,
			BackoffMax:     time.Minute,
		},
		Server: ServerConfig{
			Host:              "127.0.0.1",
			Port:              8765,
			CORSOrigins:       []string{"http://localhost:5173"},
			RateLimitRequests: 600,
			RateLimitWindow:   time.Minute,
			ShutdownTimeout:   10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Default returns the built-in configuration without reading files or the
// environment. Tests and embedders start from it.
func Default() *Config {
	return defaultConfig()
}

// Load builds the configuration from defaults, the optional YAML file and
// the environment, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"api_base_url":   "api.base_url",
	"api_token":      "api.token",
	"api_timeout":    "api.timeout",
	"api_rate_limit": "api.rate_limit",
	"api_rate_burst": "api.rate_burst",

	"breaker_max_requests":  "breaker.max_requests",
	"breaker_interval":      "breaker.interval",
	"breaker_timeout":       "breaker.timeout",
	"breaker_min_requests":  "breaker.min_requests",
	"breaker_failure_ratio": "breaker.failure_ratio",

	"gesture_swipe_threshold": "gesture.swipe_threshold",
	"gesture_swipe_timeout":   "gesture.swipe_timeout",
	"gesture_hint_threshold":  "gesture.hint_threshold",
	"gesture_idle_timeout":    "gesture.idle_timeout",

	"queue_mode":              "queue.mode",
	"queue_restart_threshold": "queue.restart_threshold",
	"queue_load_retries":      "queue.load_retries",

	"cache_backend":             "cache.backend",
	"cache_path":                "cache.path",
	"cache_recommendations_ttl": "cache.recommendations_ttl",
	"cache_videos_ttl":          "cache.videos_ttl",
	"cache_cleanup_interval":    "cache.cleanup_interval",

	"poller_enabled":         "poller.enabled",
	"poller_coarse_delay":    "poller.coarse_delay",
	"poller_fine_delay":      "poller.fine_delay",
	"poller_backoff_initial": "poller.backoff_initial",
	"poller_backoff_max":     "poller.backoff_max",

	"http_host":               "server.host",
	"http_port":               "server.port",
	"cors_origins":            "server.cors_origins",
	"rate_limit_requests":     "server.rate_limit_requests",
	"rate_limit_window":       "server.rate_limit_window",
	"server_shutdown_timeout": "server.shutdown_timeout",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to a koanf path.
// Unmapped names return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
