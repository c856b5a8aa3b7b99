package service

import "github.com/Tina-Mai/storm/pkg/bandit"

// Broadcaster sends real-time run events to connected clients.
// Implemented by the WebSocket hub.
type Broadcaster interface {
	BroadcastEvent(eventType string, snap bandit.Snapshot)
}

// NoopBroadcaster is a no-op implementation for testing or when WS is disabled.
type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastEvent(string, bandit.Snapshot) {}
