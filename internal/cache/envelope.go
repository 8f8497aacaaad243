// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Envelope is the stored form of a JSON value.
type Envelope struct {
	StoredAt time.Time       `json:"stored_at"`
	TTLMs    int64           `json:"ttl_ms"`
	Data     json.RawMessage `json:"data"`
}

// ExpiresAt is when the value stops being valid.
func (e *Envelope) ExpiresAt() time.Time {
	return e.StoredAt.Add(time.Duration(e.TTLMs) * time.Millisecond)
}

// Remaining returns the validity left at now (never negative).
func (e *Envelope) Remaining(now time.Time) time.Duration {
	if d := e.ExpiresAt().Sub(now); d > 0 {
		return d
	}
	return 0
}

// ErrMalformed marks a stored payload that could not be decoded.
var ErrMalformed = errors.New("cache: malformed payload")

// GetJSON decodes key into dst. Missing, expired and malformed entries all
// report hit == false; a malformed entry is deleted. err is only set for
// store failures.
func GetJSON(ctx context.Context, s Store, key string, dst interface{}) (env Envelope, hit bool, err error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return Envelope{}, false, err
	}

	if decodeErr := decodeEnvelope(raw, &env, dst); decodeErr != nil {
		_ = s.Delete(ctx, key)
		return Envelope{}, false, nil
	}
	if env.Remaining(time.Now()) == 0 {
		return Envelope{}, false, nil
	}
	return env, true, nil
}

func decodeEnvelope(raw []byte, env *Envelope, dst interface{}) error {
	if err := json.Unmarshal(raw, env); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(env.Data) == 0 || env.TTLMs <= 0 || env.StoredAt.IsZero() {
		return ErrMalformed
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// SetJSON stores v under key for ttl.
func SetJSON(ctx context.Context, s Store, key string, v interface{}, ttl time.Duration) error {
	return setJSONAt(ctx, s, key, v, time.Now(), ttl)
}

// ReplaceJSON overwrites the value of an existing envelope while keeping its
// original expiry. Nothing is written when the envelope already expired.
func ReplaceJSON(ctx context.Context, s Store, key string, v interface{}, prev Envelope) error {
	now := time.Now()
	remaining := prev.Remaining(now)
	if remaining == 0 {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	raw, err := json.Marshal(Envelope{StoredAt: prev.StoredAt, TTLMs: prev.TTLMs, Data: data})
	if err != nil {
		return fmt.Errorf("marshal envelope %s: %w", key, err)
	}
	return s.Set(ctx, key, raw, remaining)
}

func setJSONAt(ctx context.Context, s Store, key string, v interface{}, now time.Time, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	raw, err := json.Marshal(Envelope{StoredAt: now.UTC(), TTLMs: ttl.Milliseconds(), Data: data})
	if err != nil {
		return fmt.Errorf("marshal envelope %s: %w", key, err)
	}
	return s.Set(ctx, key, raw, ttl)
}
