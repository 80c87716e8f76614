package app

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// healthHandler reports a JSON snapshot of the current run's node counts by
// lifecycle state. Before a graph has been loaded it reports zero nodes.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("health check endpoint hit", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.snapshot()); err != nil {
		a.logger.Error("failed to encode health check response", "error", err)
	}
}

// startHealthcheckServer initializes and runs the health check HTTP server.
// It blocks the calling goroutine until the server stops, so callers run it
// with go a.startHealthcheckServer(port).
func (a *App) startHealthcheckServer(port int) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)

	addr := fmt.Sprintf(":%d", port)
	a.logger.Info("health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		a.logger.Error("health check server failed", "error", err)
	}
}
