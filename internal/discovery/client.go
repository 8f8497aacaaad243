// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package discovery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/swipewave/internal/metrics"
	"github.com/tomtom215/swipewave/internal/models"
)

// API paths.
const (
	PathRecommendations = "/recommendations/api-response"
	PathQueue           = "/youtube/recommendations/all"
	PathFeedback        = "/recommendations/feedback"
	PathHasVideos       = "/youtube/recommendations/check"
	PathSyncStatus      = "/library/sync/status"
)

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 1024

// ClientInterface is the recommendation API.
type ClientInterface interface {
	GetRecommendations(ctx context.Context) (models.RecommendationSet, error)
	GetQueue(ctx context.Context) ([]models.QueueEntry, error)
	SubmitFeedback(ctx context.Context, req models.FeedbackRequest) error
	CheckVideos(ctx context.Context) (bool, error)
	GetSyncStatus(ctx context.Context) (models.SyncStatus, error)
}

var _ ClientInterface = (*Client)(nil)

// StatusError is a non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s returned status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Server reports a 5xx response.
func (e *StatusError) Server() bool { return e.StatusCode >= 500 }

// StatusCode extracts the HTTP status from err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	RateLimit float64 // requests per second, <= 0 disables pacing
	RateBurst int

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client is the HTTP implementation of ClientInterface.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client for cfg.
func NewClient(cfg ClientConfig) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: hc,
		limiter:    limiter,
	}
}

// GetRecommendations fetches the four recommendation buckets.
func (c *Client) GetRecommendations(ctx context.Context) (models.RecommendationSet, error) {
	var set models.RecommendationSet
	if err := c.do(ctx, http.MethodGet, PathRecommendations, nil, &set); err != nil {
		return models.RecommendationSet{}, fmt.Errorf("get recommendations: %w", err)
	}
	return set, nil
}

// GetQueue fetches the playback queue.
func (c *Client) GetQueue(ctx context.Context) ([]models.QueueEntry, error) {
	var resp models.QueueResponse
	if err := c.do(ctx, http.MethodGet, PathQueue, nil, &resp); err != nil {
		return nil, fmt.Errorf("get queue: %w", err)
	}
	return resp.QueueItems, nil
}

// SubmitFeedback posts one decision. Any 2xx is success.
func (c *Client) SubmitFeedback(ctx context.Context, req models.FeedbackRequest) error {
	if err := c.do(ctx, http.MethodPost, PathFeedback, req, nil); err != nil {
		return fmt.Errorf("submit feedback for %s: %w", req.SongID, err)
	}
	return nil
}

// CheckVideos reports whether the queue has any videos yet.
func (c *Client) CheckVideos(ctx context.Context) (bool, error) {
	var resp models.HasVideosResponse
	if err := c.do(ctx, http.MethodGet, PathHasVideos, nil, &resp); err != nil {
		return false, fmt.Errorf("check videos: %w", err)
	}
	return resp.HasVideos, nil
}

// GetSyncStatus fetches the background library sync status.
func (c *Client) GetSyncStatus(ctx context.Context) (models.SyncStatus, error) {
	var status models.SyncStatus
	if err := c.do(ctx, http.MethodGet, PathSyncStatus, nil, &status); err != nil {
		return models.SyncStatus{}, fmt.Errorf("get sync status: %w", err)
	}
	return status, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordDiscoveryRequest(path, 0, time.Since(start))
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.RecordDiscoveryRequest(path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
