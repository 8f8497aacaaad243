// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package discovery

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/swipewave/internal/cache"
	"github.com/tomtom215/swipewave/internal/logging"
	"github.com/tomtom215/swipewave/internal/metrics"
	"github.com/tomtom215/swipewave/internal/models"
)

// Cache keys.
const (
	KeyRecommendations = "recommendations:batch"
	KeyHasVideos       = "youtube:has_videos"
)

// RepositoryConfig sets the cache lifetimes.
type RepositoryConfig struct {
	RecommendationsTTL time.Duration
	VideosTTL          time.Duration
}

// DefaultRepositoryConfig returns 5 and 10 minute lifetimes.
func DefaultRepositoryConfig() RepositoryConfig {
	return RepositoryConfig{
		RecommendationsTTL: 5 * time.Minute,
		VideosTTL:          10 * time.Minute,
	}
}

// Repository is a read-through cache in front of the API client.
type Repository struct {
	client ClientInterface
	store  cache.Store
	cfg    RepositoryConfig
	logger zerolog.Logger

	// patchMu serializes read-modify-write of the cached batch.
	patchMu sync.Mutex
}

// NewRepository creates a repository over client and store.
func NewRepository(client ClientInterface, store cache.Store, cfg RepositoryConfig) *Repository {
	def := DefaultRepositoryConfig()
	if cfg.RecommendationsTTL <= 0 {
		cfg.RecommendationsTTL = def.RecommendationsTTL
	}
	if cfg.VideosTTL <= 0 {
		cfg.VideosTTL = def.VideosTTL
	}
	return &Repository{
		client: client,
		store:  store,
		cfg:    cfg,
		logger: logging.WithComponent("discovery"),
	}
}

// Recommendations returns the cached batch or fetches a fresh one.
func (r *Repository) Recommendations(ctx context.Context) (models.RecommendationSet, error) {
	var set models.RecommendationSet
	if r.lookup(ctx, KeyRecommendations, &set) {
		return set, nil
	}

	set, err := r.client.GetRecommendations(ctx)
	if err != nil {
		return models.RecommendationSet{}, err
	}
	r.save(ctx, KeyRecommendations, set, r.cfg.RecommendationsTTL)
	return set, nil
}

// HasVideos returns the cached has-videos flag or checks the API.
func (r *Repository) HasVideos(ctx context.Context) (bool, error) {
	var has bool
	if r.lookup(ctx, KeyHasVideos, &has) {
		return has, nil
	}

	has, err := r.client.CheckVideos(ctx)
	if err != nil {
		return false, err
	}
	r.save(ctx, KeyHasVideos, has, r.cfg.VideosTTL)
	return has, nil
}

// Queue always fetches the queue live.
func (r *Repository) Queue(ctx context.Context) ([]models.QueueEntry, error) {
	return r.client.GetQueue(ctx)
}

// SyncStatus always fetches the sync status live.
func (r *Repository) SyncStatus(ctx context.Context) (models.SyncStatus, error) {
	return r.client.GetSyncStatus(ctx)
}

// SubmitFeedback posts a decision.
func (r *Repository) SubmitFeedback(ctx context.Context, req models.FeedbackRequest) error {
	return r.client.SubmitFeedback(ctx, req)
}

// PatchFeedback sets user_feedback on every copy of songID in the cached
// batch, keeping the entry's original expiry. A missing or expired batch is
// left alone.
func (r *Repository) PatchFeedback(ctx context.Context, songID string, liked bool) error {
	r.patchMu.Lock()
	defer r.patchMu.Unlock()

	var set models.RecommendationSet
	env, hit, err := cache.GetJSON(ctx, r.store, KeyRecommendations, &set)
	if err != nil || !hit {
		return err
	}
	if set.ApplyFeedback(songID, liked) == 0 {
		return nil
	}
	return cache.ReplaceJSON(ctx, r.store, KeyRecommendations, set, env)
}

// Invalidate drops the cached recommendation batch and has-videos flag.
func (r *Repository) Invalidate(ctx context.Context) error {
	if err := r.store.Delete(ctx, KeyRecommendations); err != nil {
		return err
	}
	return r.store.Delete(ctx, KeyHasVideos)
}

func (r *Repository) lookup(ctx context.Context, key string, dst interface{}) bool {
	_, hit, err := cache.GetJSON(ctx, r.store, key, dst)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues(key, "error").Inc()
		r.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed, fetching live")
		return false
	case !hit:
		metrics.CacheLookups.WithLabelValues(key, "miss").Inc()
		return false
	default:
		metrics.CacheLookups.WithLabelValues(key, "hit").Inc()
		return true
	}
}

func (r *Repository) save(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if err := cache.SetJSON(ctx, r.store, key, v, ttl); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}
