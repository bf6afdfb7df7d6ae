package sailing

import (
	"math"
	"time"
)

// WindowBounds clamps the derived history window. Min guards against a
// degenerate (zero or negative) lookback, Max against an unbounded query
// to the tracking provider, Fallback is used whenever no sailing could be
// resolved.
type WindowBounds struct {
	Min      int
	Max      int
	Fallback int
}

// Clamp forces hours into [Min, Max].
func (b WindowBounds) Clamp(hours int) int {
	if hours < b.Min {
		return b.Min
	}
	if hours > b.Max {
		return b.Max
	}
	return hours
}

// HistoryHours derives how many hours of position history to request,
// measured from the resolved sailing's start to now. The start instant is
// the sailing's start day at the daily cutoff in loc, the same cutoff the
// resolver used, so "which sailing" and "when did it start" agree.
//
// This gates a best-effort enrichment query and therefore never fails: a
// nil decision or an implausible start date yields Fallback.
func HistoryHours(d *Decision, cutoff Cutoff, loc *time.Location, now time.Time, b WindowBounds) int {
	if d == nil || !d.Start.Valid() {
		return b.Fallback
	}
	start := d.Start.Time(cutoff.Hour, cutoff.Minute, loc)
	elapsed := now.Sub(start)
	hours := int(math.Ceil(elapsed.Hours()))
	return b.Clamp(hours)
}

// CurrentDayIndex locates today within a rowCount-day itinerary that
// began on start, clamped to [0, rowCount-1]. Returns -1 when the
// itinerary is empty.
func CurrentDayIndex(today, start DayKey, rowCount int) int {
	if rowCount <= 0 {
		return -1
	}
	idx := DaysBetween(today, start)
	if idx < 0 {
		idx = 0
	}
	if idx > rowCount-1 {
		idx = rowCount - 1
	}
	return idx
}
