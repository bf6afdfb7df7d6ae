package sailing

import (
	"context"
	"time"
)

// Cutoff is the local clock time at which a turnaround vessel switches
// from the ending voyage to the starting one. The same cutoff anchors the
// sailing start instant for window derivation, so both decisions agree.
type Cutoff struct {
	Hour   int
	Minute int
}

// Before reports whether hh:mm falls strictly before the cutoff.
func (c Cutoff) Before(hh, mm int) bool {
	if hh < c.Hour {
		return true
	}
	if hh > c.Hour {
		return false
	}
	return mm < c.Minute
}

// Clock captures "now" decomposed for resolution: the calendar day key in
// the vessel's zone and whether the time of day is before the cutoff.
// Build it fresh on every call; it must always reflect true current time.
type Clock struct {
	Day          DayKey
	BeforeCutoff bool
}

// NewClock decomposes now against cutoff in loc.
func NewClock(now time.Time, cutoff Cutoff, loc *time.Location) Clock {
	local := now.In(loc)
	return Clock{
		Day:          NewDayKey(local.Year(), int(local.Month()), local.Day()),
		BeforeCutoff: cutoff.Before(local.Hour(), local.Minute()),
	}
}

// MonthRef identifies one calendar page of the scraped schedule.
type MonthRef struct {
	Month int
	Year  int
}

// ProbeMonths returns the fixed probe order for now in loc: the current
// month first, then the previous, then the next. A voyage spanning a
// month boundary may be listed only under its embarkation month, so the
// neighbours must be consulted when the current page yields nothing.
func ProbeMonths(now time.Time, loc *time.Location) []MonthRef {
	local := now.In(loc)
	y, m := local.Year(), int(local.Month())

	prev := MonthRef{Month: m - 1, Year: y}
	if m == 1 {
		prev = MonthRef{Month: 12, Year: y - 1}
	}
	next := MonthRef{Month: m + 1, Year: y}
	if m == 12 {
		next = MonthRef{Month: 1, Year: y + 1}
	}
	return []MonthRef{{Month: m, Year: y}, prev, next}
}

// Decision identifies the sailing active at the clock's instant.
type Decision struct {
	SailingID string
	Start     DayKey
	End       DayKey
}

// FetchFunc supplies parsed candidate ranges for one calendar page.
type FetchFunc func(ctx context.Context, ref MonthRef) ([]Range, error)

// Resolve walks the probe months in order and returns the sailing that
// contains the clock's day, or nil when no month yields a match.
//
// A fetch error for one month degrades to "no candidates this month" and
// probing continues; the schedule source is flaky and a later page can
// still decide. Candidates without an ID, with an invalid key, or with a
// backwards range are discarded before matching.
func Resolve(ctx context.Context, clock Clock, months []MonthRef, fetch FetchFunc) *Decision {
	for _, ref := range months {
		candidates, err := fetch(ctx, ref)
		if err != nil {
			continue
		}

		var matches []Range
		for _, c := range candidates {
			if c.ID == "" || !c.Start.Valid() || !c.End.Valid() || c.Start > c.End {
				continue
			}
			if c.Contains(clock.Day) {
				matches = append(matches, c)
			}
		}

		if len(matches) == 0 {
			continue
		}
		if len(matches) == 1 {
			return decisionOf(matches[0])
		}
		return decisionOf(pickAmbiguous(matches, clock))
	}
	return nil
}

// pickAmbiguous applies the turnaround tie-break to two or more matches.
//
// On a genuine turnaround day one multi-day voyage ends while another
// begins. Before the cutoff the outgoing passengers are still aboard, so
// the ending voyage with the latest start wins; after the cutoff the
// incoming voyage with the earliest end wins. When the matches do not
// split cleanly into starts-today and ends-today, the most recently
// started match wins.
func pickAmbiguous(matches []Range, clock Clock) Range {
	var startsToday, endsToday []Range
	for _, m := range matches {
		if m.Start == clock.Day {
			startsToday = append(startsToday, m)
		}
		// A single-day match is not an "ending" voyage for tie-break
		// purposes; it must have started on an earlier day.
		if m.End == clock.Day && m.Start < clock.Day {
			endsToday = append(endsToday, m)
		}
	}

	if len(startsToday) > 0 && len(endsToday) > 0 {
		if clock.BeforeCutoff {
			return latestStart(endsToday)
		}
		return earliestEnd(startsToday)
	}

	return latestStart(matches)
}

func latestStart(rs []Range) Range {
	best := rs[0]
	for _, r := range rs[1:] {
		if r.Start > best.Start {
			best = r
		}
	}
	return best
}

func earliestEnd(rs []Range) Range {
	best := rs[0]
	for _, r := range rs[1:] {
		if r.End < best.End {
			best = r
		}
	}
	return best
}

func decisionOf(r Range) *Decision {
	return &Decision{SailingID: r.ID, Start: r.Start, End: r.End}
}
