package app

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// healthHandler answers liveness probes and logs who asked.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// startHealthcheckServer initializes and runs the health check HTTP server.
func (a *App) startHealthcheckServer(port int) {
	a.logger.Debug("Configuring health check server.")
	router := chi.NewRouter()
	router.Get("/health", a.healthHandler)
	router.Get("/ready", a.healthHandler)

	addr := fmt.Sprintf(":%d", port)

	go func() {
		a.logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		if err := http.ListenAndServe(addr, router); err != nil {
			a.logger.Error("Health check server failed", "error", err)
		}
	}()
}
