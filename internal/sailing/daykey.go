package sailing

import (
	"fmt"
	"time"
)

// DayKey encodes a calendar date as year*10000 + month*100 + day.
// Numeric order matches chronological order across month and year
// boundaries, which keeps range comparisons free of date-object pitfalls.
type DayKey int

// NewDayKey builds a key from calendar components.
func NewDayKey(year, month, day int) DayKey {
	return DayKey(year*10000 + month*100 + day)
}

// DayKeyOf returns the key for the calendar day containing t in loc.
func DayKeyOf(t time.Time, loc *time.Location) DayKey {
	t = t.In(loc)
	return NewDayKey(t.Year(), int(t.Month()), t.Day())
}

func (k DayKey) Year() int  { return int(k) / 10000 }
func (k DayKey) Month() int { return (int(k) / 100) % 100 }
func (k DayKey) Day() int   { return int(k) % 100 }

// Valid reports whether the key describes a plausible calendar date.
func (k DayKey) Valid() bool {
	return k.Year() > 0 && k.Month() >= 1 && k.Month() <= 12 && k.Day() >= 1 && k.Day() <= 31
}

// Time returns the instant at hh:mm on this day in loc.
func (k DayKey) Time(hh, mm int, loc *time.Location) time.Time {
	return time.Date(k.Year(), time.Month(k.Month()), k.Day(), hh, mm, 0, 0, loc)
}

// ISO renders the day as YYYY-MM-DD.
func (k DayKey) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year(), k.Month(), k.Day())
}

// DaysBetween returns the number of whole days from b to a (a minus b).
// Both days are anchored at midnight UTC so the difference is exact.
func DaysBetween(a, b DayKey) int {
	at := time.Date(a.Year(), time.Month(a.Month()), a.Day(), 0, 0, 0, 0, time.UTC)
	bt := time.Date(b.Year(), time.Month(b.Month()), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(at.Sub(bt) / (24 * time.Hour))
}
