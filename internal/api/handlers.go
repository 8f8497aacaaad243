// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/swipewave/internal/discovery"
	"github.com/tomtom215/swipewave/internal/feedback"
	"github.com/tomtom215/swipewave/internal/gesture"
	"github.com/tomtom215/swipewave/internal/logging"
	"github.com/tomtom215/swipewave/internal/models"
	"github.com/tomtom215/swipewave/internal/playback"
	"github.com/tomtom215/swipewave/internal/queue"
	"github.com/tomtom215/swipewave/internal/session"
	"github.com/tomtom215/swipewave/internal/validation"
)

const maxBodyBytes = 64 * 1024

// Controller is the session surface driven by the API.
type Controller interface {
	Snapshot() session.State
	Press(p gesture.Point, at time.Time, fromControl bool) bool
	Move(p gesture.Point, at time.Time) (gesture.Motion, bool)
	Release(ctx context.Context, p gesture.Point, at time.Time) (session.ReleaseResult, error)
	Cancel() bool
	Escape() bool
	Like(ctx context.Context) error
	Dislike(ctx context.Context) error
	Next() error
	Previous(playbackPosition time.Duration) (queue.Action, error)
	PlaybackError() error
	PlaybackEnded() error
	Seek(i int) error
	Remove(i int) error
	TogglePreferLive() playback.Preference
	SelectLive(i int) playback.Preference
	Reload(ctx context.Context) error
}

// BucketViewer returns one recommendation bucket with feedback applied.
type BucketViewer interface {
	View(b models.Bucket) []models.RecommendedSong
}

// BreakerStatus reports the discovery circuit breaker state.
type BreakerStatus interface {
	StateString() string
}

// SyncTrigger starts an immediate library sync check.
type SyncTrigger interface {
	Trigger() bool
}

// Handler serves the companion API.
type Handler struct {
	session Controller
	buckets BucketViewer
	breaker BreakerStatus
	sync    SyncTrigger
	now     func() time.Time
}

// NewHandler creates a Handler. breaker may be nil.
func NewHandler(ctrl Controller, buckets BucketViewer, breaker BreakerStatus) *Handler {
	return &Handler{session: ctrl, buckets: buckets, breaker: breaker, now: time.Now}
}

// WithSyncTrigger enables POST /api/v1/sync/check.
func (h *Handler) WithSyncTrigger(t SyncTrigger) *Handler {
	h.sync = t
	return h
}

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse struct {
	Status         string `json:"status"`
	CircuitBreaker string `json:"circuit_breaker,omitempty"`
	QueueLength    int    `json:"queue_length"`
	HasVideos      bool   `json:"has_videos"`
}

// PointerRequest carries a pointer position. TMs is a Unix millisecond
// timestamp; zero means now.
type PointerRequest struct {
	X           float64 `json:"x" validate:"gte=-100000,lte=100000"`
	Y           float64 `json:"y" validate:"gte=-100000,lte=100000"`
	TMs         int64   `json:"t_ms" validate:"gte=0"`
	FromControl bool    `json:"from_control"`
}

// FeedbackAction is the body of POST /api/v1/feedback.
type FeedbackAction struct {
	Liked *bool `json:"liked" validate:"required"`
}

// PreviousRequest is the body of POST /api/v1/playback/previous.
type PreviousRequest struct {
	PositionMs int64 `json:"position_ms" validate:"gte=0"`
}

// IndexRequest addresses one queue entry or live video.
type IndexRequest struct {
	Index *int `json:"index" validate:"required,gte=0"`
}

// Health reports liveness plus circuit breaker state.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.session.Snapshot()
	resp := HealthResponse{Status: "ok", QueueLength: st.Length, HasVideos: st.HasVideos}
	if h.breaker != nil {
		resp.CircuitBreaker = h.breaker.StateString()
		if resp.CircuitBreaker == "open" {
			resp.Status = "degraded"
		}
	}
	WriteSuccess(w, r, resp)
}

// State returns the session snapshot.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.session.Snapshot())
}

// PointerPress starts a drag.
func (h *Handler) PointerPress(w http.ResponseWriter, r *http.Request) {
	var req PointerRequest
	if !decodeValid(w, r, &req) {
		return
	}
	started := h.session.Press(gesture.Point{X: req.X, Y: req.Y}, h.at(req.TMs), req.FromControl)
	WriteSuccess(w, r, map[string]bool{"started": started})
}

// PointerMove updates the drag.
func (h *Handler) PointerMove(w http.ResponseWriter, r *http.Request) {
	var req PointerRequest
	if !decodeValid(w, r, &req) {
		return
	}
	m, ok := h.session.Move(gesture.Point{X: req.X, Y: req.Y}, h.at(req.TMs))
	if !ok {
		WriteError(w, r, http.StatusConflict, ErrCodeConflict, "No drag in progress")
		return
	}
	WriteSuccess(w, r, struct {
		gesture.Motion
		Hint string `json:"hint"`
	}{m, m.Hint.String()})
}

// PointerRelease ends the drag, committing a swipe when it qualifies.
func (h *Handler) PointerRelease(w http.ResponseWriter, r *http.Request) {
	var req PointerRequest
	if !decodeValid(w, r, &req) {
		return
	}
	res, err := h.session.Release(r.Context(), gesture.Point{X: req.X, Y: req.Y}, h.at(req.TMs))
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	WriteSuccess(w, r, res)
}

// PointerCancel aborts the drag (pointer lost).
func (h *Handler) PointerCancel(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]bool{"aborted": h.session.Cancel()})
}

// PointerEscape aborts the drag (Escape key).
func (h *Handler) PointerEscape(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]bool{"aborted": h.session.Escape()})
}

// Feedback likes or dislikes the current song and advances.
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackAction
	if !decodeValid(w, r, &req) {
		return
	}
	var err error
	if *req.Liked {
		err = h.session.Like(r.Context())
	} else {
		err = h.session.Dislike(r.Context())
	}
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	WriteSuccess(w, r, h.session.Snapshot())
}

// Next advances the queue.
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	h.respondState(w, r, h.session.Next())
}

// Previous restarts or moves back depending on playback position.
func (h *Handler) Previous(w http.ResponseWriter, r *http.Request) {
	var req PreviousRequest
	if !decodeValid(w, r, &req) {
		return
	}
	action, err := h.session.Previous(time.Duration(req.PositionMs) * time.Millisecond)
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	WriteSuccess(w, r, map[string]string{"action": action.String()})
}

// PlaybackError reports the current video as unplayable.
func (h *Handler) PlaybackError(w http.ResponseWriter, r *http.Request) {
	h.respondState(w, r, h.session.PlaybackError())
}

// PlaybackEnded reports that the current video finished.
func (h *Handler) PlaybackEnded(w http.ResponseWriter, r *http.Request) {
	h.respondState(w, r, h.session.PlaybackEnded())
}

// Seek jumps to a queue entry.
func (h *Handler) Seek(w http.ResponseWriter, r *http.Request) {
	var req IndexRequest
	if !decodeValid(w, r, &req) {
		return
	}
	h.respondState(w, r, h.session.Seek(*req.Index))
}

// Remove deletes a queue entry.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	var req IndexRequest
	if !decodeValid(w, r, &req) {
		return
	}
	h.respondState(w, r, h.session.Remove(*req.Index))
}

// ToggleLive flips the live-performance preference.
func (h *Handler) ToggleLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.session.TogglePreferLive())
}

// SelectLive picks a live performance of the current entry.
func (h *Handler) SelectLive(w http.ResponseWriter, r *http.Request) {
	var req IndexRequest
	if !decodeValid(w, r, &req) {
		return
	}
	WriteSuccess(w, r, h.session.SelectLive(*req.Index))
}

// Reload drops cached data and fetches the queue again.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	h.respondState(w, r, h.session.Reload(r.Context()))
}

// SyncCheckResponse is the body of POST /api/v1/sync/check.
type SyncCheckResponse struct {
	Triggered bool `json:"triggered"`
}

// SyncCheck polls the library sync status now. A poll already in flight is
// not doubled and reports triggered=false.
func (h *Handler) SyncCheck(w http.ResponseWriter, r *http.Request) {
	if h.sync == nil {
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "Sync polling is disabled")
		return
	}
	WriteSuccess(w, r, SyncCheckResponse{Triggered: h.sync.Trigger()})
}

// Recommendations returns one bucket with local feedback applied.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	b, err := models.ParseBucket(chi.URLParam(r, "bucket"))
	if err != nil {
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, err.Error())
		return
	}
	WriteSuccess(w, r, h.buckets.View(b))
}

func (h *Handler) respondState(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	WriteSuccess(w, r, h.session.Snapshot())
}

func (h *Handler) at(tMs int64) time.Time {
	if tMs == 0 {
		return h.now()
	}
	return time.UnixMilli(tMs)
}

// writeSessionError maps session and queue errors to HTTP statuses.
func (h *Handler) writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, queue.ErrIndexOutOfRange), errors.Is(err, feedback.ErrEmptySongID):
		WriteError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, queue.ErrEmptyQueue),
		errors.Is(err, queue.ErrEndOfQueue),
		errors.Is(err, queue.ErrNoPlayableEntries):
		WriteError(w, r, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, discovery.ErrCircuitOpen):
		WriteError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Recommendation service unavailable")
	case discovery.StatusCode(err) != 0:
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Discovery request failed")
		WriteError(w, r, http.StatusBadGateway, ErrCodeExternalServiceFail, "Recommendation service error")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Session operation failed")
		WriteError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Internal error")
	}
}

// decodeValid decodes a JSON body into dst and validates it. An empty body
// is treated as {}. It writes the error response and returns false on failure.
func decodeValid(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body")
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		WriteErrorWithDetails(w, r, http.StatusBadRequest, ErrCodeValidationFailed, verr.Error(), verr.Fields)
		return false
	}
	return true
}
