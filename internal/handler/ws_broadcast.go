package handler

import "github.com/Tina-Mai/storm/pkg/bandit"

// BroadcastEvent implements service.Broadcaster using the WebSocket hub.
func (h *Hub) BroadcastEvent(eventType string, snap bandit.Snapshot) {
	event := newEvent(eventType, snap.RunID)
	event.Snapshot = snap
	h.Broadcast(event)
}
