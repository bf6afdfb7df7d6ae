package handlers

import (
	"net/http"

	"github.com/mwas/shiptrack/internal/httpserver/deps"
	"github.com/mwas/shiptrack/internal/logger"
)

// Location returns the vessel's latest known position. The tracking
// client already shapes the payload (name, lastUpdated, nullable
// speed/course/heading), so it passes straight through.
func Location(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, ok := vesselFromRequest(w, r, d)
		if !ok {
			return
		}

		pos, err := d.Tracking.Location(r.Context(), v)
		if err != nil {
			d.Logger.Error("location lookup failed",
				logger.String("vessel", v.Slug),
				logger.Error(err))
			writeError(w, http.StatusBadGateway, "position unavailable")
			return
		}

		writeJSON(w, http.StatusOK, pos)
	}
}
