package service

import (
	"context"
	"errors"
	"sync"

	"github.com/Tina-Mai/storm/pkg/bandit"
)

type fakeCache struct {
	mu      sync.Mutex
	current *bandit.Snapshot
	sets    int
	clears  int
	failSet bool
}

func (f *fakeCache) SetSnapshot(_ context.Context, snap bandit.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet {
		return errors.New("redis unavailable")
	}
	f.sets++
	f.current = &snap
	return nil
}

func (f *fakeCache) GetSnapshot(_ context.Context) (*bandit.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, nil
}

func (f *fakeCache) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	f.current = nil
	return nil
}

type recordedEvent struct {
	eventType string
	snap      bandit.Snapshot
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingBroadcaster) BroadcastEvent(eventType string, snap bandit.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{eventType, snap})
}

func (r *recordingBroadcaster) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.eventType
	}
	return out
}

func (r *recordingBroadcaster) last() recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func newTestService(seed uint64, gen bandit.EffectivenessGenerator) (*SimulationService, *fakeCache, *recordingBroadcaster) {
	opts := []bandit.Option{bandit.WithSource(bandit.NewSource(seed))}
	if gen != nil {
		opts = append(opts, bandit.WithGenerator(gen))
	}
	cache := &fakeCache{}
	bc := &recordingBroadcaster{}
	return NewSimulationService(bandit.New(opts...), cache, bc), cache, bc
}
