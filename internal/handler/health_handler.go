package handler

import (
	"net/http"

	"oha-portal/internal/store"
	"oha-portal/pkg/logger"
)

// HealthHandler serves /health.
type HealthHandler struct {
	store store.Store
	log   *logger.Logger
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(st store.Store, log *logger.Logger) *HealthHandler {
	return &HealthHandler{store: st, log: log}
}

// Check reports whether the backing store is reachable.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Health(r.Context()); err != nil {
		h.log.WithError(err).Warn("Health check failed")
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
