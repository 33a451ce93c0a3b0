package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/outlast-gg/arena/internal/model"
)

// frame is one queued delivery: a payload plus the connection it came
// from. A nil sender means deliver to every client in the session.
type frame struct {
	sender *Client
	data   []byte
}

// Hub owns the recipient group for a single session: every live
// connection scoped to that session id. Membership is guarded by the
// mutex together with the closed flag, so a registration and a teardown
// racing each other resolve to exactly one winner: either the client is
// in the group before the hub closes, or Register reports failure and
// the caller fetches a fresh hub. Deliveries go through the run loop.
type Hub struct {
	sessionID model.SessionID
	clients   map[*Client]bool
	mu        sync.RWMutex
	closed    bool
	logger    *slog.Logger

	// OnEmpty, if set, is called when the last client leaves. The hub
	// manager uses it to tear the hub down.
	OnEmpty func(sessionID model.SessionID)

	frames chan frame
	done   chan struct{}
}

// NewHub creates a new Hub for a session
func NewHub(sessionID model.SessionID, logger *slog.Logger) *Hub {
	return &Hub{
		sessionID: sessionID,
		clients:   make(map[*Client]bool),
		logger:    logger.With(slog.String("session", string(sessionID))),
		frames:    make(chan frame, 256),
		done:      make(chan struct{}),
	}
}

// Run starts the hub's delivery loop
func (h *Hub) Run() {
	h.logger.Info("session hub started")
	for {
		select {
		case f := <-h.frames:
			h.mu.RLock()
			sentCount := 0
			droppedCount := 0
			for client := range h.clients {
				if client == f.sender {
					continue
				}
				select {
				case client.send <- f.data:
					sentCount++
				default:
					// Slow consumer; drop the frame rather than stall
					// the sender's cadence
					droppedCount++
				}
			}
			h.mu.RUnlock()
			if droppedCount > 0 {
				h.logger.Warn("broadcast partially dropped",
					slog.Int("sent", sentCount),
					slog.Int("dropped", droppedCount))
			}

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("session hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// Register adds a client to the session's recipient group. Returns false
// if the hub has been torn down; the caller must fetch a live hub from
// the manager and try again.
func (h *Hub) Register(client *Client) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.clients[client] = true
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("connection scoped to session",
		slog.String("game_player_id", client.gamePlayerID),
		slog.Int("total_connections", clientCount))
	return true
}

// Unregister removes a client from the session's recipient group. When
// the last client leaves, OnEmpty fires from the caller's goroutine.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	var emptied bool
	if ok {
		delete(h.clients, client)
		close(client.send)
		emptied = len(h.clients) == 0
	}
	clientCount := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}

	duration := time.Since(client.connectedAt)
	h.logger.Info("connection removed from session",
		slog.String("game_player_id", client.gamePlayerID),
		slog.Duration("connection_duration", duration),
		slog.Int("total_connections", clientCount))

	if emptied && h.OnEmpty != nil {
		h.OnEmpty(h.sessionID)
	}
}

// Broadcast queues a message for every client in the session except the
// sender. Pass a nil sender to reach every client. Delivery is
// best-effort per recipient; a failed or slow recipient never blocks the
// others and never raises to the caller.
func (h *Hub) Broadcast(sender *Client, data []byte) {
	select {
	case h.frames <- frame{sender: sender, data: data}:
	default:
		h.logger.Warn("broadcast dropped - hub buffer full")
	}
}

// BroadcastEvent marshals and broadcasts a protocol event
func (h *Hub) BroadcastEvent(sender *Client, event string, payload any) {
	if msg := encodeEvent(event, payload); msg != nil {
		h.Broadcast(sender, msg)
	}
}

// Close shuts down the hub unconditionally, disconnecting any remaining
// clients. Idempotent.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
}

// tryClose shuts the hub down only if it is still empty. Returns false
// when a client registered after the hub emptied, in which case the hub
// stays live.
func (h *Hub) tryClose() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return true
	}
	if len(h.clients) > 0 {
		return false
	}
	h.closed = true
	close(h.done)
	return true
}

// isClosed reports whether the hub has been torn down
func (h *Hub) isClosed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.closed
}

// ClientCount returns the number of connections in the session
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HubManager owns the session -> hub registry. Sessions are fully
// independent: each hub has its own run loop, and work in one session
// never blocks another.
type HubManager struct {
	hubs   map[model.SessionID]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.SessionID]*Hub),
		logger: logger.With(slog.String("component", "ws")),
	}
}

// GetOrCreateHub returns the hub for a session, creating and starting one
// if it doesn't exist. A hub found mid-teardown is replaced.
func (m *HubManager) GetOrCreateHub(sessionID model.SessionID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[sessionID]; ok && !hub.isClosed() {
		return hub
	}

	hub := NewHub(sessionID, m.logger)
	hub.OnEmpty = m.removeHub
	m.hubs[sessionID] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a session, or nil if it doesn't exist
func (m *HubManager) GetHub(sessionID model.SessionID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[sessionID]
}

// removeHub tears down a hub once its last client has left. The close is
// conditional: if a registration won the race after the hub emptied, the
// hub stays in the registry untouched.
func (m *HubManager) removeHub(sessionID model.SessionID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hub, ok := m.hubs[sessionID]
	if !ok {
		return
	}
	if !hub.tryClose() {
		return
	}
	delete(m.hubs, sessionID)
	m.logger.Info("session hub removed", slog.String("session", string(sessionID)))
}
