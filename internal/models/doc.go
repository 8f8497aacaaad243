// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

// Package models defines the data shared between the recommendation API, the
// local cache and the playback session.
//
// Wire names follow the recommendation API (snake_case). Song identity is
// always the SongID/ID string: two records with the same id describe the same
// song regardless of which bucket or queue they came from.
//
// RecommendationSet accepts both the current "friends" key and the legacy
// "from_friends" key when decoding; it always encodes "friends".
package models
