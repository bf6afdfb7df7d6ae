package handlers

import (
	"net/http"
	"strings"

	"github.com/mwas/shiptrack/internal/httpserver/deps"
	"github.com/mwas/shiptrack/internal/logger"
	"github.com/mwas/shiptrack/internal/sailing"
	"github.com/mwas/shiptrack/internal/sources/kapture"
	store "github.com/mwas/shiptrack/internal/store/redis"
)

type itineraryDay struct {
	Date    string        `json:"date"`
	Port    string        `json:"port"`
	LatLng  *store.LatLng `json:"latLng"`
	IsToday bool          `json:"isToday"`
}

type itineraryResponse struct {
	SailingID           string         `json:"sailingId"`
	SailingStartDateISO *string        `json:"sailingStartDateISO"`
	CurrentDayIndex     *int           `json:"currentDayIndex"`
	Days                []itineraryDay `json:"days"`
}

// Itinerary returns the current sailing's day-by-day port schedule with
// memoized coordinates for each geocodable port, plus the voyage start
// date and which row today is. A `sailing_id` query parameter skips
// resolution and fetches that sailing directly.
func Itinerary(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, ok := vesselFromRequest(w, r, d)
		if !ok {
			return
		}

		sailingID := strings.TrimSpace(r.URL.Query().Get("sailing_id"))
		if sailingID == "" {
			decision := resolveSailing(r.Context(), d, v)
			if decision == nil {
				writeError(w, http.StatusNotFound, "no current sailing for "+v.Slug)
				return
			}
			sailingID = decision.SailingID
		}

		rows, err := d.Schedule.Itinerary(r.Context(), sailingID)
		if err != nil {
			d.Logger.Error("itinerary fetch failed",
				logger.String("vessel", v.Slug),
				logger.String("sailing", sailingID),
				logger.Error(err))
			writeError(w, http.StatusBadGateway, "itinerary unavailable")
			return
		}

		today := sailing.DayKeyOf(d.Now(), v.Location(d.Location))
		days := make([]itineraryDay, 0, len(rows))
		for _, row := range rows {
			ll, err := d.Geocoder.Resolve(r.Context(), row.Port)
			if err != nil {
				d.Logger.Warn("port geocode failed",
					logger.String("port", row.Port),
					logger.Error(err))
				ll = nil
			}
			rowDay := kapture.ParseRowDate(row.Date)
			days = append(days, itineraryDay{
				Date:    row.Date,
				Port:    row.Port,
				LatLng:  ll,
				IsToday: rowDay.Valid() && rowDay == today,
			})
		}

		resp := itineraryResponse{SailingID: sailingID, Days: days}

		// The voyage start comes from the first row's date, not the
		// calendar range, so a sailing_id override still gets one.
		if len(rows) > 0 {
			if start := kapture.ParseRowDate(rows[0].Date); start.Valid() {
				resp.SailingStartDateISO = ptr(start.ISO())
				if idx := sailing.CurrentDayIndex(today, start, len(rows)); idx >= 0 {
					resp.CurrentDayIndex = &idx
				}
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
