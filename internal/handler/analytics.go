package handler

import (
	"net/http"

	"github.com/Dan9191/finpyme/internal/service"
)

// ListProjections returns saved projections
func (h *Handler) ListProjections(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListProjections(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

// CreateProjection computes and stores a scenario projection
func (h *Handler) CreateProjection(w http.ResponseWriter, r *http.Request) {
	var req service.ProjectionRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.svc.Project(r.Context(), userID(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, res)
}

// ListInsights returns stored insights
func (h *Handler) ListInsights(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListInsights(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

// GenerateInsights runs the insight rules now
func (h *Handler) GenerateInsights(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.GenerateInsights(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, list)
}
