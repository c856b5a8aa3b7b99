package model

import (
	"time"

	"github.com/Tina-Mai/storm/pkg/bandit"
)

// InitializeRequest configures a new run.
type InitializeRequest struct {
	NumRegions  int `json:"num_regions"`
	TotalBudget int `json:"total_budget"`
}

// RunnerStatus reports whether the automatic stepper is active.
type RunnerStatus struct {
	Running  bool   `json:"running"`
	Interval string `json:"interval"`
}

// SimulationView is the body returned by the simulation endpoints: the
// engine snapshot plus driver status.
type SimulationView struct {
	bandit.Snapshot
	Runner RunnerStatus `json:"runner"`
}

// Event is one published state change.
type Event struct {
	Type     string          `json:"type"`
	RunID    string          `json:"run_id"`
	Snapshot bandit.Snapshot `json:"snapshot"`
	SentAt   time.Time       `json:"sent_at"`
}

// Event types published by the simulation service.
const (
	EventConnected      = "connected"
	EventRunInitialized = "run_initialized"
	EventStepCompleted  = "step_completed"
	EventRunExhausted   = "run_exhausted"
	EventRunReset       = "run_reset"
)
