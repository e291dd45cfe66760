// Package realtime pushes events to connected clients over websockets.
// Delivery is fire-and-forget: durability comes from the persisted
// notification records, not the transport.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// PresenceTracker records connection lifecycle and dashboard subscriptions,
// backed by Redis in production.
type PresenceTracker interface {
	AddConnection(ctx context.Context, userID, connID string) error
	RemoveConnection(ctx context.Context, userID, connID string) error
	AddDashboardViewer(ctx context.Context, userID string) error
	RemoveDashboardViewer(ctx context.Context, userID string) error
}

// Envelope is the wire format for every pushed event.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub maintains the registry of live connections per user id. A user signed
// in from several devices holds several connections; emitting to a user
// fans out to all of them.
type Hub struct {
	mu       sync.RWMutex
	conns    map[string]map[*Conn]struct{} // userID -> connections
	presence PresenceTracker
}

// NewHub creates an empty Hub backed by the presence tracker.
func NewHub(presence PresenceTracker) *Hub {
	return &Hub{
		conns:    make(map[string]map[*Conn]struct{}),
		presence: presence,
	}
}

func (h *Hub) register(ctx context.Context, c *Conn) {
	h.mu.Lock()
	if h.conns[c.userID] == nil {
		h.conns[c.userID] = make(map[*Conn]struct{})
	}
	h.conns[c.userID][c] = struct{}{}
	h.mu.Unlock()

	if err := h.presence.AddConnection(ctx, c.userID, c.id); err != nil {
		slog.Error("failed to track connection", "user_id", c.userID, "error", err)
	}

	slog.Debug("realtime connection opened", "user_id", c.userID, "conn_id", c.id)
}

// unregister removes the connection and closes its send channel. The close
// happens under the write lock: emitters hold the read lock while queueing,
// so none can be mid-send when the channel closes.
func (h *Hub) unregister(ctx context.Context, c *Conn) {
	h.mu.Lock()
	if set, ok := h.conns[c.userID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.conns, c.userID)
		}
	}
	close(c.send)
	h.mu.Unlock()

	if err := h.presence.RemoveConnection(ctx, c.userID, c.id); err != nil {
		slog.Error("failed to untrack connection", "user_id", c.userID, "error", err)
	}

	slog.Debug("realtime connection closed", "user_id", c.userID, "conn_id", c.id)
}

// EmitToUser pushes an event to every live connection of the user. Users
// with no connections are silently skipped.
func (h *Hub) EmitToUser(userID, event string, data any) {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		slog.Error("failed to encode realtime event", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns[userID] {
		c.trySend(payload)
	}
}

// EmitToUsers pushes an event to each of the given users.
func (h *Hub) EmitToUsers(userIDs []string, event string, data any) {
	for _, id := range userIDs {
		h.EmitToUser(id, event, data)
	}
}

// Broadcast pushes an event to every live connection.
func (h *Hub) Broadcast(event string, data any) {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		slog.Error("failed to encode realtime event", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, set := range h.conns {
		for c := range set {
			c.trySend(payload)
		}
	}
}
