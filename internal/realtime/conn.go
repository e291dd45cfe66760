package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32
)

// clientMessage is what connected clients may send upstream: dashboard
// subscription toggles.
type clientMessage struct {
	Event string `json:"event"`
}

// Conn wraps one websocket connection with a buffered outbound queue so a
// slow client never blocks an emitter.
type Conn struct {
	id     string
	userID string
	ws     *websocket.Conn
	send   chan []byte
}

// Serve registers a freshly upgraded websocket for the user and blocks until
// the connection closes, pumping messages both ways.
func (h *Hub) Serve(ctx context.Context, userID string, ws *websocket.Conn) {
	c := &Conn{
		id:     uuid.New().String(),
		userID: userID,
		ws:     ws,
		send:   make(chan []byte, sendBuffer),
	}

	h.register(ctx, c)
	defer h.unregister(context.WithoutCancel(ctx), c)

	go c.writePump()
	h.readPump(ctx, c)
}

// trySend queues a payload, dropping it if the client's buffer is full.
func (c *Conn) trySend(payload []byte) {
	select {
	case c.send <- payload:
	default:
		slog.Warn("dropping realtime event, client buffer full",
			"user_id", c.userID,
			"conn_id", c.id,
		)
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes client messages until the socket dies. It never touches
// c.send; only the hub closes that, after deregistering the connection.
func (h *Hub) readPump(ctx context.Context, c *Conn) {
	c.ws.SetReadLimit(1024)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket read error", "user_id", c.userID, "error", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		switch msg.Event {
		case "dashboard:subscribe":
			if err := h.presence.AddDashboardViewer(ctx, c.userID); err != nil {
				slog.Error("failed to add dashboard viewer", "user_id", c.userID, "error", err)
			}
		case "dashboard:unsubscribe":
			if err := h.presence.RemoveDashboardViewer(ctx, c.userID); err != nil {
				slog.Error("failed to remove dashboard viewer", "user_id", c.userID, "error", err)
			}
		}
	}
}
