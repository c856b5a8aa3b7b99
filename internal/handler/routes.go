package handler

import "net/http"

// RegisterRoutes mounts the simulation API and the WebSocket stream.
func RegisterRoutes(mux *http.ServeMux, sim *SimulationHandler, ws *WSHandler) {
	mux.HandleFunc("GET /api/v1/simulation", sim.GetSimulation)
	mux.HandleFunc("POST /api/v1/simulation", sim.Initialize)
	mux.HandleFunc("POST /api/v1/simulation/step", sim.Step)
	mux.HandleFunc("POST /api/v1/simulation/reset", sim.Reset)
	mux.HandleFunc("POST /api/v1/simulation/start", sim.Start)
	mux.HandleFunc("POST /api/v1/simulation/stop", sim.Stop)
	mux.HandleFunc("GET /api/v1/ws", ws.ServeWS)
}
