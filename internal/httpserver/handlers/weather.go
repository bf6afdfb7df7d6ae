package handlers

import (
	"net/http"

	"github.com/mwas/shiptrack/internal/httpserver/deps"
	"github.com/mwas/shiptrack/internal/logger"
	"github.com/mwas/shiptrack/internal/sources/weather"
)

type weatherResponse struct {
	Available bool            `json:"available"`
	Report    *weather.Report `json:"report"`
}

// Weather returns current conditions at the vessel's position. Missing
// API key or a failed lookup yields an "unavailable" answer rather
// than an error: the dashboard hides the widget.
func Weather(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, ok := vesselFromRequest(w, r, d)
		if !ok {
			return
		}

		if !d.Weather.Enabled() {
			writeJSON(w, http.StatusOK, weatherResponse{})
			return
		}

		pos, err := d.Tracking.Location(r.Context(), v)
		if err != nil {
			d.Logger.Warn("position lookup failed for weather",
				logger.String("vessel", v.Slug),
				logger.Error(err))
			writeJSON(w, http.StatusOK, weatherResponse{})
			return
		}

		report, err := d.Weather.Current(r.Context(), pos.Lat, pos.Lng)
		if err != nil {
			d.Logger.Warn("weather lookup failed",
				logger.String("vessel", v.Slug),
				logger.Error(err))
			writeJSON(w, http.StatusOK, weatherResponse{})
			return
		}

		writeJSON(w, http.StatusOK, weatherResponse{Available: true, Report: report})
	}
}
