package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Tina-Mai/storm/pkg/bandit"
)

// Runner drives the engine on a fixed tick until the budget is exhausted
// or Stop is called. At most one loop runs at a time, so Step is never
// invoked concurrently by the runner.
type Runner struct {
	svc      *SimulationService
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRunner creates a Runner that steps once per interval.
func NewRunner(svc *SimulationService, interval time.Duration) *Runner {
	return &Runner{svc: svc, interval: interval}
}

// Start begins stepping in the background. The loop stops when ctx is
// canceled, Stop is called or the run is exhausted.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return ErrRunnerActive
	}
	if state := r.svc.Snapshot().State; state == bandit.StateIdle || state == bandit.StateExhausted {
		return &bandit.InvalidStateError{Op: "start", State: state}
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel, r.done = cancel, done
	go r.loop(runCtx, done)
	return nil
}

// Stop halts the loop and waits for an in-flight step to finish. It is a
// no-op when the runner is idle.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// StepOnce takes a single manual step. It fails with ErrRunnerActive while
// the loop is active and holds the runner lock for the whole step, so a
// concurrent Start cannot interleave with it.
func (r *Runner) StepOnce(ctx context.Context) (bandit.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return bandit.Snapshot{}, ErrRunnerActive
	}
	return r.svc.Step(ctx)
}

// Running reports whether the loop is active.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// Interval returns the tick interval.
func (r *Runner) Interval() time.Duration {
	return r.interval
}

// Wait blocks until the current loop exits or ctx is done. It returns
// immediately when the runner is idle.
func (r *Runner) Wait(ctx context.Context) error {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer r.finish(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", r.interval).Msg("Runner started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Runner stopped")
			return
		case <-ticker.C:
			snap, err := r.svc.Step(ctx)
			if err != nil {
				if errors.Is(err, bandit.ErrInvalidState) {
					log.Info().Err(err).Msg("Runner halted, nothing left to step")
				} else {
					log.Error().Err(err).Msg("Runner step failed")
				}
				return
			}
			if snap.Exhausted() {
				log.Info().Str("runId", snap.RunID).Int("steps", snap.StepsTaken()).Msg("Runner finished, budget exhausted")
				return
			}
		}
	}
}

// finish clears the runner's bookkeeping when the loop ends on its own.
func (r *Runner) finish(done chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done == done {
		r.cancel()
		r.cancel, r.done = nil, nil
	}
}
