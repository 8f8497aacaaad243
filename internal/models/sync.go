// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package models

// SyncPhase is the server-reported phase of a library sync job.
type SyncPhase string

const (
	PhaseIdle       SyncPhase = "idle"
	PhaseQueued     SyncPhase = "queued"
	PhaseFetching   SyncPhase = "fetching"
	PhaseProcessing SyncPhase = "processing"
	PhaseFinalizing SyncPhase = "finalizing"
	PhaseComplete   SyncPhase = "complete"
	PhaseFailed     SyncPhase = "failed"
)

// SyncStatus is the body of GET /library/sync/status.
type SyncStatus struct {
	Phase    SyncPhase `json:"phase"`
	Progress float64   `json:"progress"`
	Message  string    `json:"message,omitempty"`
	BatchID  string    `json:"batch_id,omitempty"`
}

// Terminal reports whether polling should stop.
func (s SyncStatus) Terminal() bool {
	switch s.Phase {
	case PhaseComplete, PhaseFailed, PhaseIdle:
		return true
	}
	return false
}
