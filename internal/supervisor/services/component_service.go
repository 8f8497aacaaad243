// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package services

import (
	"context"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/swipewave/internal/logging"
)

// Component is anything with a context-aware run loop: the websocket hub,
// the feedback dispatcher and the sync poller.
type Component interface {
	Serve(ctx context.Context) error
}

// ComponentService runs a Component under suture.
//
// A Component that returns nil while ctx is still live has finished for
// good (the dispatcher does this once closed), so the supervisor is told not
// to restart it. Errors are returned as-is and trigger a restart.
type ComponentService struct {
	component Component
	name      string
}

// NewComponentService wraps c under name.
func NewComponentService(name string, c Component) *ComponentService {
	return &ComponentService{component: c, name: name}
}

// Serve implements suture.Service.
func (s *ComponentService) Serve(ctx context.Context) error {
	err := s.component.Serve(ctx)
	if err == nil && ctx.Err() == nil {
		logging.Info().Str("service", s.name).Msg("Service finished, not restarting")
		return suture.ErrDoNotRestart
	}
	return err
}

// String implements fmt.Stringer for suture logs.
func (s *ComponentService) String() string {
	return s.name
}
