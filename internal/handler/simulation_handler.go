package handler

import (
	"context"
	"net/http"

	"github.com/Tina-Mai/storm/internal/logger"
	"github.com/Tina-Mai/storm/internal/model"
	"github.com/Tina-Mai/storm/internal/service"
	"github.com/Tina-Mai/storm/pkg/bandit"
)

// SimulationHandler exposes the engine's operations and the runner.
type SimulationHandler struct {
	svc    *service.SimulationService
	runner *service.Runner
}

// NewSimulationHandler creates a SimulationHandler.
func NewSimulationHandler(svc *service.SimulationService, runner *service.Runner) *SimulationHandler {
	return &SimulationHandler{svc: svc, runner: runner}
}

func (h *SimulationHandler) view(snap bandit.Snapshot) model.SimulationView {
	return model.SimulationView{
		Snapshot: snap,
		Runner: model.RunnerStatus{
			Running:  h.runner.Running(),
			Interval: h.runner.Interval().String(),
		},
	}
}

// GetSimulation handles GET /api/v1/simulation
func (h *SimulationHandler) GetSimulation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view(h.svc.Snapshot()))
}

// Initialize handles POST /api/v1/simulation
func (h *SimulationHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	var req model.InitializeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := bandit.ValidateConfig(req.NumRegions, req.TotalBudget); err != nil {
		writeEngineError(w, err)
		return
	}

	h.runner.Stop()
	snap, err := h.svc.Initialize(r.Context(), req.NumRegions, req.TotalBudget)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.view(snap))
}

// Step handles POST /api/v1/simulation/step
func (h *SimulationHandler) Step(w http.ResponseWriter, r *http.Request) {
	snap, err := h.runner.StepOnce(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(snap))
}

// Reset handles POST /api/v1/simulation/reset
func (h *SimulationHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.runner.Stop()
	snap, err := h.svc.Reset(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(snap))
}

// Start handles POST /api/v1/simulation/start
func (h *SimulationHandler) Start(w http.ResponseWriter, r *http.Request) {
	// The loop outlives the request but keeps its request ID for logging.
	ctx := context.WithoutCancel(r.Context())
	if err := h.runner.Start(ctx); err != nil {
		writeEngineError(w, err)
		return
	}
	reqLog := logger.ForRequest(r.Context())
	reqLog.Info().Dur("interval", h.runner.Interval()).Msg("Automatic stepping started")
	writeJSON(w, http.StatusAccepted, h.view(h.svc.Snapshot()))
}

// Stop handles POST /api/v1/simulation/stop
func (h *SimulationHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if !h.runner.Running() {
		writeEngineError(w, service.ErrRunnerInactive)
		return
	}
	h.runner.Stop()
	reqLog := logger.ForRequest(r.Context())
	reqLog.Info().Msg("Automatic stepping stopped")
	writeJSON(w, http.StatusOK, h.view(h.svc.Snapshot()))
}
