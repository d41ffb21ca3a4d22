package handler

import (
	"net/http"
)

// Rates returns the current dollar quotes
func (h *Handler) Rates(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.Rates())
}

// RefreshRates forces a quote refresh
func (h *Handler) RefreshRates(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.RefreshRates(r.Context()))
}

// LatestInflation returns the latest monthly inflation figure
func (h *Handler) LatestInflation(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.Inflation())
}

// Scenarios lists the projection presets
func (h *Handler) Scenarios(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.Presets())
}

// Health reports whether the database is reachable
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		h.log.Errorf("Health check failed: %v", err)
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
