package handler

import (
	"net/http"

	"github.com/Dan9191/finpyme/internal/models"
	"github.com/Dan9191/finpyme/internal/service"
)

// Dashboard returns KPIs, buckets and charts for the requested window
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	count, err := queryInt(r, "count")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	d, err := h.svc.Dashboard(r.Context(), userID(r), service.WindowQuery{
		Period:     models.Period(q.Get("period")),
		Count:      count,
		Currency:   q.Get("currency"),
		DollarType: q.Get("dollar_type"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, d)
}
