package handler

import (
	"net/http"
)

// GetPreferences returns the user's stored preferences
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.svc.GetPreferences(userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, prefs)
}

// UpdatePreferences merges preference values; an empty value clears a key
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if err := decodeBody(r, &values); err != nil {
		h.writeError(w, r, err)
		return
	}
	prefs, err := h.svc.UpdatePreferences(userID(r), values)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, prefs)
}
