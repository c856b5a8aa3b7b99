package handler

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Tina-Mai/storm/internal/model"
)

// ClientMessage is the envelope for messages sent from the client.
type ClientMessage struct {
	Action string `json:"action"` // "pause", "resume" or "snapshot"
}

// WSConn wraps a WebSocket connection with its outbound queue.
type WSConn struct {
	conn   *websocket.Conn
	id     string
	send   chan []byte
	paused bool // guarded by Hub.mu
}

// Hub manages WebSocket connections and fans run events out to them.
type Hub struct {
	mu          sync.RWMutex
	connections map[*WSConn]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{connections: make(map[*WSConn]bool)}
}

// Register adds a connection to the hub.
func (h *Hub) Register(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
}

// Unregister removes a connection from the hub.
func (h *Hub) Unregister(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[c]; !ok {
		return
	}
	delete(h.connections, c)
	close(c.send)
}

// SetPaused stops or resumes delivery of step events to one connection.
// Lifecycle events (initialized, exhausted, reset) are always delivered.
func (h *Hub) SetPaused(c *WSConn, paused bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.paused = paused
}

// Broadcast sends an event to every connection.
func (h *Hub) Broadcast(event model.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("runId", event.RunID).Msg("Failed to marshal WebSocket event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.connections {
		if c.paused && event.Type == model.EventStepCompleted {
			continue
		}
		select {
		case c.send <- data:
		default:
			log.Warn().Str("connId", c.id).Str("runId", event.RunID).Msg("Dropping WebSocket message, buffer full")
		}
	}
}

// send queues an event for a single connection.
func (h *Hub) send(c *WSConn, event model.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal WebSocket event")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.connections[c] {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// ConnectionCount returns the total number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

func newEvent(eventType string, runID string) model.Event {
	return model.Event{Type: eventType, RunID: runID, SentAt: time.Now().UTC()}
}
