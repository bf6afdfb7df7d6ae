package handlers

import (
	"net/http"

	"github.com/mwas/shiptrack/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready   bool   `json:"ready"`
	Vessels int    `json:"vessels"`
	Reason  string `json:"reason,omitempty"`
}

// Readyz reports readiness: the server can answer vessel requests only
// once the fleet file has loaded.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := d.Registry.Count()
		if count == 0 {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{
				Ready:  false,
				Reason: "fleet not loaded",
			})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true, Vessels: count})
	}
}
