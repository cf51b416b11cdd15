package handlers

import (
	"context"
	"net/http"
	"time"
)

const healthCheckTimeout = 2 * time.Second

// Health statuses
const (
	Healthy   = "healthy"
	Unhealthy = "unhealthy"
)

type healthResponse struct {
	Status string `json:"status"`
}

// GetHealth handles GET /health
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	pingCtx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.healthChecker.PingContext(pingCtx); err != nil {
		h.logger.Error("health check failed: store unreachable", "error", err)
		h.writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: Unhealthy})
		return
	}

	h.writeJSON(w, http.StatusOK, healthResponse{Status: Healthy})
}
