// Swipewave - Social Music Discovery Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewave

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/swipewave/internal/feedback"
	"github.com/tomtom215/swipewave/internal/logging"
	"github.com/tomtom215/swipewave/internal/metrics"
	"github.com/tomtom215/swipewave/internal/models"
	"github.com/tomtom215/swipewave/internal/playback"
	"github.com/tomtom215/swipewave/internal/session"
)

// ShutdownReason identifies why the hub stopped.
type ShutdownReason string

const (
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeState      = "state"
	MessageTypeNotice     = "notice"
	MessageTypePlay       = "play"
	MessageTypeStop       = "stop"
	MessageTypeFeedback   = "feedback"
	MessageTypeDragScope  = "drag_scope"
	MessageTypeSyncStatus = "sync_status"
	MessageTypePing       = "ping"
	MessageTypePong       = "pong"
)

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// PlayData is the payload of a "play" message.
type PlayData struct {
	playback.Selection
	Restart bool `json:"restart"`
}

// FeedbackData is the payload of a "feedback" message.
type FeedbackData struct {
	SongID string `json:"song_id"`
	Liked  bool   `json:"liked"`
}

// DragScopeData is the payload of a "drag_scope" message.
type DragScopeData struct {
	Active bool `json:"active"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex

	// done is closed while no Serve run is active after the first one.
	done chan struct{}

	lastMu    sync.Mutex
	lastState *Message
}

var (
	_ session.PlaybackSink  = (*Hub)(nil)
	_ session.StateListener = (*Hub)(nil)
	_ feedback.Notifier     = (*Hub)(nil)
)

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
	}
}

// Serve runs the hub until ctx is canceled, then closes every client and
// returns ctx.Err(). Lifecycle events are handled before broadcasts.
func (h *Hub) Serve(ctx context.Context) error {
	h.beginRun()
	defer h.endRun()

	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// String implements fmt.Stringer for the supervisor.
func (h *Hub) String() string { return "websocket-hub" }

func (h *Hub) beginRun() {
	h.mu.Lock()
	defer h.mu.Unlock()
	select {
	case <-h.done:
		h.done = make(chan struct{})
	default:
	}
}

func (h *Hub) endRun() {
	h.mu.Lock()
	close(h.done)
	h.mu.Unlock()
}

func (h *Hub) stopped() <-chan struct{} {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.done
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()
	metrics.WebSocketConnections.Inc()

	h.lastMu.Lock()
	last := h.lastState
	h.lastMu.Unlock()
	if last != nil {
		select {
		case client.send <- *last:
		default:
		}
	}
	logging.Info().Str("client_id", client.id).Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		h.dropLocked(client)
	}
	total := len(h.clients)
	h.mu.Unlock()
	if ok {
		logging.Info().Str("client_id", client.id).Int("total_clients", total).Msg("websocket client disconnected")
	}
}

func (h *Hub) dropLocked(client *Client) {
	close(client.send)
	delete(h.clients, client)
	metrics.WebSocketConnections.Dec()
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

func (h *Hub) sortedClientsLocked() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].seq < clients[j].seq
	})
	return clients
}

// broadcastToClients sends message to every client in connection order.
// A client whose queue is full is disconnected.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var toRemove []*Client
	for _, client := range h.sortedClientsLocked() {
		select {
		case client.send <- message:
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		logging.Warn().Str("client_id", client.id).Msg("websocket client too slow, disconnecting")
		h.dropLocked(client)
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, client := range h.sortedClientsLocked() {
		h.dropLocked(client)
	}
}

// BroadcastJSON queues a message for all connected clients. It never blocks.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	select {
	case h.broadcast <- Message{Type: messageType, Data: data}:
	default:
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// StateChanged implements session.StateListener. The latest state is also
// replayed to clients that connect later.
func (h *Hub) StateChanged(s session.State) {
	msg := Message{Type: MessageTypeState, Data: s}
	h.lastMu.Lock()
	h.lastState = &msg
	h.lastMu.Unlock()
	h.BroadcastJSON(msg.Type, msg.Data)
}

// Play implements session.PlaybackSink.
func (h *Hub) Play(sel playback.Selection, restart bool) {
	h.BroadcastJSON(MessageTypePlay, PlayData{Selection: sel, Restart: restart})
}

// Stop implements session.PlaybackSink.
func (h *Hub) Stop() {
	h.BroadcastJSON(MessageTypeStop, nil)
}

// Notify implements feedback.Notifier.
func (h *Hub) Notify(n models.Notice) {
	h.BroadcastJSON(MessageTypeNotice, n)
}

// Acquire implements gesture.Acquirer. Displays lock their scroll container
// while a drag scope is active.
func (h *Hub) Acquire() func() {
	h.BroadcastJSON(MessageTypeDragScope, DragScopeData{Active: true})
	var once sync.Once
	return func() {
		once.Do(func() {
			h.BroadcastJSON(MessageTypeDragScope, DragScopeData{Active: false})
		})
	}
}

// FeedbackChanged forwards a feedback store change.
func (h *Hub) FeedbackChanged(c feedback.Change) {
	h.BroadcastJSON(MessageTypeFeedback, FeedbackData{SongID: c.SongID, Liked: c.Liked})
}

// SyncStatus forwards a library sync status.
func (h *Hub) SyncStatus(s models.SyncStatus) {
	h.BroadcastJSON(MessageTypeSyncStatus, s)
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
