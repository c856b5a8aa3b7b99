package bandit

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
)

// State is the lifecycle state of an Engine.
type State string

const (
	StateIdle      State = "idle"      // no run configured
	StateReady     State = "ready"     // run initialized, budget untouched
	StateRunning   State = "running"   // at least one step taken
	StateExhausted State = "exhausted" // budget spent, results computed
)

// Accepted configuration bounds.
const (
	MinRegions = 2
	MaxRegions = 10
)

// Snapshot is a point-in-time copy of a run. It shares no memory with the
// engine.
type Snapshot struct {
	RunID           string   `json:"run_id"`
	State           State    `json:"state"`
	Regions         []Region `json:"regions"`
	TotalBudget     int      `json:"total_budget"`
	RemainingBudget int      `json:"remaining_budget"`
	RewardHistory   []int    `json:"reward_history"`
	Results         *Results `json:"results"`
}

// StepsTaken returns the number of completed steps.
func (s Snapshot) StepsTaken() int { return len(s.RewardHistory) }

// Exhausted reports whether the run has spent its budget.
func (s Snapshot) Exhausted() bool { return s.State == StateExhausted }

// Option configures an Engine.
type Option func(*Engine)

// WithSource sets the random source used for effectiveness generation,
// posterior sampling, trials and the baseline.
func WithSource(src rand.Source) Option {
	return func(e *Engine) { e.src = src }
}

// WithGenerator replaces the hidden effectiveness generator.
func WithGenerator(g EffectivenessGenerator) Option {
	return func(e *Engine) { e.gen = g }
}

// Engine is the simulation state machine. It is safe for concurrent use:
// each operation holds a single lock for its whole duration, so a step's
// select, simulate, update, record and decrement sequence is atomic.
type Engine struct {
	mu  sync.Mutex
	src rand.Source
	gen EffectivenessGenerator

	state       State
	runID       string
	numRegions  int
	totalBudget int
	remaining   int
	regions     []Region
	history     []int
	results     *Results
}

// New returns an Engine in StateIdle. Without WithSource it draws from a
// time-seeded source; without WithGenerator it uses DefaultGenerator.
func New(opts ...Option) *Engine {
	e := &Engine{state: StateIdle}
	for _, opt := range opts {
		opt(e)
	}
	if e.src == nil {
		e.src = NewSource(0)
	}
	if e.gen == nil {
		e.gen = DefaultGenerator()
	}
	return e
}

// ValidateConfig checks Initialize arguments: numRegions in
// [MinRegions, MaxRegions] and totalBudget >= numRegions.
func ValidateConfig(numRegions, totalBudget int) error {
	switch {
	case numRegions < MinRegions:
		return &ConfigurationError{Field: "num_regions", Value: numRegions, Reason: "need at least 2 regions"}
	case numRegions > MaxRegions:
		return &ConfigurationError{Field: "num_regions", Value: numRegions, Reason: "at most 10 regions supported"}
	case totalBudget <= 0:
		return &ConfigurationError{Field: "total_budget", Value: totalBudget, Reason: "budget must be positive"}
	case totalBudget < numRegions:
		return &ConfigurationError{Field: "total_budget", Value: totalBudget, Reason: "budget must cover every region at least once"}
	}
	return nil
}

// Initialize discards any current run and starts a fresh one with new
// hidden effectiveness values. On a configuration error the previous run
// is left untouched.
func (e *Engine) Initialize(numRegions, totalBudget int) (Snapshot, error) {
	if err := ValidateConfig(numRegions, totalBudget); err != nil {
		return Snapshot{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.start(numRegions, totalBudget); err != nil {
		return Snapshot{}, err
	}
	return e.snapshotLocked(), nil
}

// Reset starts a new run with the previously configured region count and
// budget. Hidden effectiveness values are redrawn.
func (e *Engine) Reset() (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateIdle {
		return Snapshot{}, &InvalidStateError{Op: "reset", State: e.state}
	}
	if err := e.start(e.numRegions, e.totalBudget); err != nil {
		return Snapshot{}, err
	}
	return e.snapshotLocked(), nil
}

// start replaces the current run. Generator output is checked before any
// field is touched, so a bad generator leaves the previous run intact.
func (e *Engine) start(numRegions, totalBudget int) error {
	effs := e.gen.Generate(e.src, numRegions)
	if err := validateEffectiveness(effs, numRegions); err != nil {
		return err
	}
	regions := make([]Region, numRegions)
	for i := range regions {
		regions[i] = NewRegion(i, effs[i])
	}

	e.runID = uuid.NewString()
	e.numRegions = numRegions
	e.totalBudget = totalBudget
	e.remaining = totalBudget
	e.regions = regions
	e.history = make([]int, 0, totalBudget)
	e.results = nil
	e.state = StateReady
	return nil
}

func validateEffectiveness(effs []float64, numRegions int) error {
	if len(effs) != numRegions {
		return &ConfigurationError{Field: "effectiveness", Value: len(effs),
			Reason: fmt.Sprintf("generator returned %d values for %d regions", len(effs), numRegions)}
	}
	for i, p := range effs {
		if !(p > 0 && p < 1) {
			return &ConfigurationError{Field: "effectiveness", Value: i,
				Reason: fmt.Sprintf("value %g at index %d outside (0,1)", p, i)}
		}
	}
	return nil
}

// Step allocates one resource unit. It fails with *InvalidStateError
// before Initialize and once the budget is exhausted.
func (e *Engine) Step() (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateIdle || e.state == StateExhausted || e.remaining <= 0 {
		return Snapshot{}, &InvalidStateError{Op: "step", State: e.state}
	}

	idx, err := Select(e.src, e.regions)
	if err != nil {
		return Snapshot{}, err
	}
	success := SimulateTrial(e.src, e.regions[idx].HiddenEffectiveness)
	e.regions[idx] = e.regions[idx].Update(success)

	reward := 0
	if success {
		reward = 1
	}
	e.history = append(e.history, reward)
	e.remaining--
	e.state = StateRunning

	if e.remaining == 0 {
		res := computeResults(e.src, e.regions, e.totalBudget)
		e.results = &res
		e.state = StateExhausted
	}
	return e.snapshotLocked(), nil
}

// Snapshot returns a copy of the current run.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) snapshotLocked() Snapshot {
	s := Snapshot{
		RunID:           e.runID,
		State:           e.state,
		Regions:         make([]Region, len(e.regions)),
		TotalBudget:     e.totalBudget,
		RemainingBudget: e.remaining,
		RewardHistory:   make([]int, len(e.history)),
	}
	copy(s.Regions, e.regions)
	copy(s.RewardHistory, e.history)
	if e.results != nil {
		res := *e.results
		s.Results = &res
	}
	return s
}
