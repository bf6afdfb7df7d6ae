package handlers

import (
	"net/http"

	"github.com/mwas/shiptrack/internal/httpserver/deps"
	"github.com/mwas/shiptrack/internal/logger"
	"github.com/mwas/shiptrack/internal/sailing"
	"github.com/mwas/shiptrack/internal/sources/mtn"
)

type trailResponse struct {
	HistoryHours int              `json:"historyHours"`
	Points       []mtn.TrailPoint `json:"points"`
}

// Trail returns the vessel's position history since the current
// sailing began. Without a resolvable sailing the window falls back to
// the configured default.
func Trail(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, ok := vesselFromRequest(w, r, d)
		if !ok {
			return
		}

		decision := resolveSailing(r.Context(), d, v)
		hours := sailing.HistoryHours(decision, d.Cutoff, v.Location(d.Location), d.Now(), d.Window)

		points, err := d.Tracking.Track(r.Context(), v, hours)
		if err != nil {
			d.Logger.Error("trail lookup failed",
				logger.String("vessel", v.Slug),
				logger.Int("hours", hours),
				logger.Error(err))
			writeError(w, http.StatusBadGateway, "position history unavailable")
			return
		}

		writeJSON(w, http.StatusOK, trailResponse{HistoryHours: hours, Points: points})
	}
}
