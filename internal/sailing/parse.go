package sailing

import (
	"regexp"
	"strconv"
	"strings"
)

// Range is one voyage's inclusive active window: embarkation day through
// disembarkation day. ID is the opaque sailing identifier from the
// schedule row; the parser leaves it empty for the caller to fill.
type Range struct {
	ID    string
	Start DayKey
	End   DayKey
}

// Contains reports whether day falls inside the range, inclusive.
func (r Range) Contains(day DayKey) bool {
	return day >= r.Start && day <= r.End
}

var (
	spaceRe  = regexp.MustCompile(`\s+`)
	rangeRe  = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]{3})\s*-\s*(\d{1,2})\s+([A-Za-z]{3})$`)
	singleRe = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]{3})$`)
)

var monthAbbr = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

func monthNum(mon string) int {
	key := strings.ToLower(strings.TrimSpace(mon))
	if len(key) > 3 {
		key = key[:3]
	}
	return monthAbbr[key]
}

// ParseRangeLabel converts a scraped date-range label such as
// "29 Dec - 2 Jan" or "15 Mar" into a Range, resolved against the
// calendar month/year the schedule page was fetched for. A side whose
// month is the December/January neighbour of the calendar month lands in
// the adjacent year; if the range still runs backwards the end year is
// bumped forward (a voyage crossing a year boundary).
//
// Returns nil when the label is not a sailing row. That is not an error:
// schedule tables carry plenty of non-sailing text.
func ParseRangeLabel(label string, calMonth, calYear int) *Range {
	raw := strings.TrimSpace(spaceRe.ReplaceAllString(label, " "))
	if raw == "" {
		return nil
	}

	if m := rangeRe.FindStringSubmatch(raw); m != nil {
		sd, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		ed, err := strconv.Atoi(m[3])
		if err != nil {
			return nil
		}
		sm := monthNum(m[2])
		em := monthNum(m[4])
		if sm == 0 || em == 0 || !validDay(sd) || !validDay(ed) {
			return nil
		}

		sy, ey := calYear, calYear
		if sm != calMonth {
			if calMonth == 1 && sm == 12 {
				sy = calYear - 1
			} else if calMonth == 12 && sm == 1 {
				sy = calYear + 1
			}
		}
		if em != calMonth {
			if calMonth == 12 && em == 1 {
				ey = calYear + 1
			} else if calMonth == 1 && em == 12 {
				ey = calYear - 1
			}
		}

		start := NewDayKey(sy, sm, sd)
		end := NewDayKey(ey, em, ed)
		if sy == ey && start > end {
			end = NewDayKey(ey+1, em, ed)
		}
		return &Range{Start: start, End: end}
	}

	if m := singleRe.FindStringSubmatch(raw); m != nil {
		d, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		mo := monthNum(m[2])
		if mo == 0 || !validDay(d) {
			return nil
		}
		y := calYear
		if mo != calMonth {
			if calMonth == 1 && mo == 12 {
				y = calYear - 1
			} else if calMonth == 12 && mo == 1 {
				y = calYear + 1
			}
		}
		key := NewDayKey(y, mo, d)
		return &Range{Start: key, End: key}
	}

	return nil
}

func validDay(d int) bool { return d >= 1 && d <= 31 }
