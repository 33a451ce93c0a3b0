package ws

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/outlast-gg/arena/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client is one live connection. A connection is unscoped until a
// createGame or joinGame succeeds; after that hub and the identity
// fields are set and never change for the life of the connection. They
// are only written from the connection's own readPump.
type Client struct {
	gateway *Gateway
	conn    *websocket.Conn
	send    chan []byte
	limiter *Limiter

	connectedAt time.Time

	// Session scope, set on successful create/join
	hub          *Hub
	sessionID    model.SessionID
	gamePlayerID string
	playerID     string
	username     string
}

// scoped reports whether the connection has been admitted to a session
func (c *Client) scoped() bool {
	return c.hub != nil
}

// sendEvent queues an event for delivery to this client only. Drops the
// message if the client's buffer is full.
func (c *Client) sendEvent(event string, payload any) {
	msg := encodeEvent(event, payload)
	if msg == nil {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

// readPump reads inbound messages and dispatches them until the
// connection closes, then unscopes the client and notifies its peers.
// One readPump goroutine runs per connection; per-sender ordering follows
// from dispatching every message on this single goroutine.
func (c *Client) readPump() {
	defer func() {
		if c.scoped() {
			left := PlayerLeftPayload{
				GamePlayerID: c.gamePlayerID,
				PlayerID:     c.playerID,
				Username:     c.username,
			}
			c.hub.Unregister(c)
			c.hub.BroadcastEvent(nil, EventPlayerLeft, left)
		}
		_ = c.conn.Close()
		c.gateway.logger.Info("connection closed",
			slog.String("game_player_id", c.gamePlayerID))
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.gateway.logger.Warn("read error", slog.Any("error", err))
			}
			return
		}
		c.gateway.handleMessage(c, message)
	}
}

// writePump writes queued messages and keepalive pings to the connection.
// Writes are deadline-bounded so an unresponsive peer is abandoned rather
// than stalling delivery.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
