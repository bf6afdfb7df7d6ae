package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mwas/shiptrack/internal/fleet"
	"github.com/mwas/shiptrack/internal/httpserver/deps"
	"github.com/mwas/shiptrack/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// vesselFromRequest resolves the {vessel} URL param against the fleet
// registry. A miss writes the 404 itself and returns ok=false.
func vesselFromRequest(w http.ResponseWriter, r *http.Request, d deps.Deps) (fleet.Vessel, bool) {
	slug := chi.URLParam(r, "vessel")
	v, ok := d.Registry.Get(slug)
	if !ok {
		d.Logger.Debug("unknown vessel requested", logger.String("vessel", slug))
		writeError(w, http.StatusNotFound, "unknown vessel: "+slug)
		return fleet.Vessel{}, false
	}
	return v, true
}
