// Package handlers implements the operational HTTP endpoints of the paycore service.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/benx421/payment-gateway/paycore/internal/service"
)

// Handler serves health checks
type Handler struct {
	healthChecker service.HealthChecker
	logger        *slog.Logger
}

// NewHandler creates a new Handler with injected dependencies.
func NewHandler(healthChecker service.HealthChecker, logger *slog.Logger) *Handler {
	return &Handler{
		healthChecker: healthChecker,
		logger:        logger,
	}
}

// Routes returns the HTTP routes served by the handler
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.GetHealth)
	return mux
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
