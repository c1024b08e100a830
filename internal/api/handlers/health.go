package handlers

import (
	"commute-route-service/internal/session"
	"net/http"
)

// HealthHandler is a liveness check that also reports which datasets are loaded.
type HealthHandler struct {
	Store *session.Store
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	res := map[string]any{
		"status":           "ok",
		"employees_loaded": h.Store.Employees() != nil,
		"routes_loaded":    h.Store.Commutes() != nil,
	}
	writeJSON(w, r, http.StatusOK, res)
}
