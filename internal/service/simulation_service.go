package service

import (
	"context"
	"errors"
	"time"

	"github.com/Tina-Mai/storm/internal/logger"
	"github.com/Tina-Mai/storm/internal/metrics"
	"github.com/Tina-Mai/storm/internal/model"
	"github.com/Tina-Mai/storm/internal/repository"
	"github.com/Tina-Mai/storm/pkg/bandit"
)

var (
	ErrRunnerActive   = errors.New("automatic stepping is active")
	ErrRunnerInactive = errors.New("automatic stepping is not active")
)

// SimulationService owns the server's single engine and fans every state
// change out to the broadcaster and the snapshot cache.
type SimulationService struct {
	engine      *bandit.Engine
	cache       repository.SnapshotCache // nil when Redis is disabled
	broadcaster Broadcaster
}

// NewSimulationService creates a SimulationService. cache may be nil.
func NewSimulationService(engine *bandit.Engine, cache repository.SnapshotCache, broadcaster Broadcaster) *SimulationService {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	return &SimulationService{engine: engine, cache: cache, broadcaster: broadcaster}
}

// Initialize starts a fresh run.
func (s *SimulationService) Initialize(ctx context.Context, numRegions, totalBudget int) (bandit.Snapshot, error) {
	snap, err := s.engine.Initialize(numRegions, totalBudget)
	if err != nil {
		s.recordError(ctx, "initialize", err)
		return bandit.Snapshot{}, err
	}

	runLog := logger.ForRun(snap.RunID)
	runLog.Info().
		Int("numRegions", numRegions).
		Int("totalBudget", totalBudget).
		Msg("Run initialized")
	metrics.ObserveRunEvent("initialized", snap.RemainingBudget)
	s.publish(ctx, model.EventRunInitialized, snap)
	return snap, nil
}

// Step allocates one resource unit.
func (s *SimulationService) Step(ctx context.Context) (bandit.Snapshot, error) {
	start := time.Now()
	snap, err := s.engine.Step()
	if err != nil {
		s.recordError(ctx, "step", err)
		return bandit.Snapshot{}, err
	}
	success := snap.RewardHistory[len(snap.RewardHistory)-1] == 1
	metrics.ObserveStep(success, time.Since(start), snap.RemainingBudget)

	if !snap.Exhausted() {
		s.publish(ctx, model.EventStepCompleted, snap)
		return snap, nil
	}

	res := snap.Results
	runLog := logger.ForRun(snap.RunID)
	runLog.Info().
		Int("thompson", res.ThompsonSamplingSuccesses).
		Int("uniform", res.UniformAllocationSuccesses).
		Float64("improvementPct", res.ImprovementPct).
		Float64("bestShare", res.BestRegionShare).
		Msg("Run exhausted")
	metrics.ObserveRunEvent("exhausted", 0)
	metrics.ObserveResults(res.ThompsonSamplingSuccesses, res.UniformAllocationSuccesses)
	s.publish(ctx, model.EventRunExhausted, snap)
	return snap, nil
}

// Reset starts a new run with the current region count and budget.
func (s *SimulationService) Reset(ctx context.Context) (bandit.Snapshot, error) {
	snap, err := s.engine.Reset()
	if err != nil {
		s.recordError(ctx, "reset", err)
		return bandit.Snapshot{}, err
	}

	// publish overwrites the cached snapshot with the fresh ready run.
	runLog := logger.ForRun(snap.RunID)
	runLog.Info().Int("totalBudget", snap.TotalBudget).Msg("Run reset")
	metrics.ObserveRunEvent("reset", snap.RemainingBudget)
	s.publish(ctx, model.EventRunReset, snap)
	return snap, nil
}

// Snapshot returns the current run without side effects.
func (s *SimulationService) Snapshot() bandit.Snapshot {
	return s.engine.Snapshot()
}

// publish never fails the operation: the engine state has already moved on.
func (s *SimulationService) publish(ctx context.Context, eventType string, snap bandit.Snapshot) {
	s.broadcaster.BroadcastEvent(eventType, snap)
	if s.cache == nil {
		return
	}
	if err := s.cache.SetSnapshot(ctx, snap); err != nil {
		reqLog := logger.ForRequest(ctx)
		reqLog.Warn().Err(err).Str("runId", snap.RunID).Str("event", eventType).Msg("Failed to cache snapshot")
	}
}

func (s *SimulationService) recordError(ctx context.Context, op string, err error) {
	kind := "other"
	switch {
	case errors.Is(err, bandit.ErrConfiguration):
		kind = "configuration"
	case errors.Is(err, bandit.ErrInvalidState):
		kind = "invalid_state"
	}
	metrics.ObserveError(op, kind)
	reqLog := logger.ForRequest(ctx)
	reqLog.Debug().Err(err).Str("op", op).Str("kind", kind).Msg("Operation rejected")
}
