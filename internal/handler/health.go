package handler

import (
	"context"
	"net/http"
	"time"
)

// Health reports that the service is up
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]any{
		"status":      "healthy",
		"timestamp":   h.now().Unix(),
		"service":     "shotchart",
		"version":     h.cfg.Version,
		"environment": h.cfg.Environment,
	}, http.StatusOK)
}

// Ready checks the player directory and the cache backend
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"directory": "available", "cache": "available"}
	status := http.StatusOK

	if err := h.players.Ready(ctx); err != nil {
		checks["directory"] = "unavailable"
		status = http.StatusServiceUnavailable
	}
	if err := h.players.CacheReady(ctx); err != nil {
		checks["cache"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	h.writeJSON(w, map[string]any{
		"status":    state,
		"timestamp": h.now().Unix(),
		"checks":    checks,
	}, status)
}

// Live always succeeds while the process serves requests
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]any{
		"status":    "alive",
		"timestamp": h.now().Unix(),
	}, http.StatusOK)
}
