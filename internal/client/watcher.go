package client

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Tina-Mai/storm/internal/model"
	"github.com/Tina-Mai/storm/pkg/bandit"
)

// Watcher drives a run on the server and reports every snapshot it sees.
type Watcher struct {
	client     *Client
	numRegions int
	budget     int
	timeout    time.Duration
	onSnapshot func(eventType string, snap bandit.Snapshot)
}

// NewWatcher creates a Watcher. onSnapshot is called for every event
// received, in order.
func NewWatcher(c *Client, numRegions, budget int, timeout time.Duration, onSnapshot func(string, bandit.Snapshot)) *Watcher {
	if onSnapshot == nil {
		onSnapshot = func(string, bandit.Snapshot) {}
	}
	return &Watcher{client: c, numRegions: numRegions, budget: budget, timeout: timeout, onSnapshot: onSnapshot}
}

// Run initializes a fresh run, starts automatic stepping and blocks until
// the run is exhausted. It returns the final results.
func (w *Watcher) Run(ctx context.Context) (*bandit.Results, error) {
	if err := w.client.ConnectWS(ctx); err != nil {
		return nil, err
	}
	defer w.client.CloseWS()

	if _, err := w.waitForEvent(ctx, model.EventConnected); err != nil {
		return nil, fmt.Errorf("wait for connect: %w", err)
	}

	view, err := w.client.Initialize(ctx, w.numRegions, w.budget)
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	log.Info().Str("runId", view.RunID).Int("regions", w.numRegions).Int("budget", w.budget).Msg("Run initialized")

	if _, err := w.client.Start(ctx); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	return w.Follow(ctx, view.RunID)
}

// Follow blocks until runID is exhausted. An empty runID follows whatever
// run finishes first.
func (w *Watcher) Follow(ctx context.Context, runID string) (*bandit.Results, error) {
	for {
		event, err := w.waitForEvent(ctx, model.EventStepCompleted, model.EventRunExhausted,
			model.EventRunInitialized, model.EventRunReset, model.EventConnected)
		if err != nil {
			return nil, err
		}
		if runID != "" && event.RunID != runID {
			log.Debug().Str("runId", event.RunID).Msg("Ignoring event from another run")
			continue
		}
		w.onSnapshot(event.Type, event.Snapshot)
		if event.Type == model.EventRunExhausted {
			if event.Snapshot.Results == nil {
				return nil, fmt.Errorf("run %s exhausted without results", event.RunID)
			}
			return event.Snapshot.Results, nil
		}
	}
}

// waitForEvent blocks until one of the given event types is received or
// ctx is canceled.
func (w *Watcher) waitForEvent(ctx context.Context, eventTypes ...string) (model.Event, error) {
	typeSet := make(map[string]bool)
	for _, t := range eventTypes {
		typeSet[t] = true
	}

	timeout := time.After(w.timeout)
	for {
		select {
		case <-ctx.Done():
			return model.Event{}, ctx.Err()
		case <-timeout:
			return model.Event{}, fmt.Errorf("timeout waiting for events %v", eventTypes)
		case event, ok := <-w.client.Events():
			if !ok {
				return model.Event{}, fmt.Errorf("ws connection closed")
			}
			if typeSet[event.Type] {
				return event, nil
			}
			log.Debug().Str("type", event.Type).Msg("Ignoring event")
		}
	}
}
