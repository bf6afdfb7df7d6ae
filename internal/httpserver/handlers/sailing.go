package handlers

import (
	"context"
	"net/http"

	"github.com/mwas/shiptrack/internal/fleet"
	"github.com/mwas/shiptrack/internal/httpserver/deps"
	"github.com/mwas/shiptrack/internal/logger"
	"github.com/mwas/shiptrack/internal/sailing"
)

type sailingResponse struct {
	SailingID           *string `json:"sailingId"`
	SailingStartDateISO *string `json:"sailingStartDateISO"`
	CurrentDayIndex     *int    `json:"currentDayIndex"`
}

// resolveSailing finds the sailing that contains today for one vessel.
// Nil means no sailing could be determined; that is a normal answer
// between voyages, not an error.
func resolveSailing(ctx context.Context, d deps.Deps, v fleet.Vessel) *sailing.Decision {
	now := d.Now()
	loc := v.Location(d.Location)
	clock := sailing.NewClock(now, d.Cutoff, loc)
	months := sailing.ProbeMonths(now, loc)

	return sailing.Resolve(ctx, clock, months, func(ctx context.Context, ref sailing.MonthRef) ([]sailing.Range, error) {
		return d.Schedule.MonthCandidates(ctx, v.CruiseID, ref)
	})
}

// Sailing returns the vessel's current sailing, its start date, and
// which day of the voyage today is.
func Sailing(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, ok := vesselFromRequest(w, r, d)
		if !ok {
			return
		}

		decision := resolveSailing(r.Context(), d, v)
		if decision == nil {
			writeJSON(w, http.StatusOK, sailingResponse{})
			return
		}

		resp := sailingResponse{
			SailingID:           &decision.SailingID,
			SailingStartDateISO: ptr(decision.Start.ISO()),
		}

		// The day index is clamped to the itinerary length, so it needs
		// the rows. A failed itinerary fetch degrades to a null index.
		rows, err := d.Schedule.Itinerary(r.Context(), decision.SailingID)
		if err != nil {
			d.Logger.Warn("itinerary fetch failed while computing day index",
				logger.String("vessel", v.Slug),
				logger.String("sailing", decision.SailingID),
				logger.Error(err))
		} else {
			today := sailing.DayKeyOf(d.Now(), v.Location(d.Location))
			if idx := sailing.CurrentDayIndex(today, decision.Start, len(rows)); idx >= 0 {
				resp.CurrentDayIndex = &idx
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func ptr[T any](v T) *T { return &v }
