// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

/*
Package api is the local companion HTTP surface that a display client uses to
drive the session.

Pointer events, like/dislike buttons and player callbacks arrive as small JSON
POSTs; state changes go back over the WebSocket at /api/v1/ws. Every response
uses the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "CONFLICT", "message": "queue is empty"}}

Routes (all under /api/v1):

	GET  /health                    liveness and circuit breaker state
	GET  /state                     session snapshot
	GET  /recommendations/{bucket}  hybrid | friends | similar | lyrical
	POST /reload                    drop caches and refetch the queue
	POST /sync/check                poll library sync status now
	POST /feedback                  {"liked": true}
	POST /pointer/press|move|release|cancel|escape
	POST /playback/next|previous|error|ended
	POST /queue/seek|remove         {"index": 2}
	POST /preference/toggle-live
	POST /preference/live           {"index": 1}
	GET  /ws                        WebSocket upgrade

Middleware: request IDs with logging context, real IP, panic recovery, CORS
(go-chi/cors), per-IP rate limiting (go-chi/httprate) and Prometheus request
metrics. /metrics serves the Prometheus registry.
*/
package api
