package sailing

import (
	"testing"
	"time"
)

func TestDayKeyOrdering(t *testing.T) {
	pairs := []struct {
		name     string
		a, b     DayKey
		aBeforeB bool
	}{
		{"same month", NewDayKey(2025, 3, 10), NewDayKey(2025, 3, 15), true},
		{"month boundary", NewDayKey(2025, 3, 31), NewDayKey(2025, 4, 1), true},
		{"year boundary", NewDayKey(2024, 12, 31), NewDayKey(2025, 1, 1), true},
		{"equal", NewDayKey(2025, 6, 6), NewDayKey(2025, 6, 6), false},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a < tt.b; got != tt.aBeforeB {
				t.Errorf("%v < %v = %v, want %v", tt.a, tt.b, got, tt.aBeforeB)
			}
		})
	}
}

func TestDayKeyOfAndTime(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 03:30 UTC on the 16th is still the 15th in New York.
	instant := time.Date(2025, 3, 16, 3, 30, 0, 0, time.UTC)
	if got := DayKeyOf(instant, ny); got != NewDayKey(2025, 3, 15) {
		t.Errorf("DayKeyOf = %v, want %v", got, NewDayKey(2025, 3, 15))
	}

	back := NewDayKey(2025, 3, 15).Time(11, 30, ny)
	if back.Hour() != 11 || back.Minute() != 30 || back.Day() != 15 {
		t.Errorf("Time() = %v, want 15th 11:30 local", back)
	}

	if got := NewDayKey(2025, 3, 5).ISO(); got != "2025-03-05" {
		t.Errorf("ISO() = %q, want %q", got, "2025-03-05")
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b DayKey
		want int
	}{
		{"same day", NewDayKey(2025, 3, 15), NewDayKey(2025, 3, 15), 0},
		{"three days in", NewDayKey(2025, 3, 18), NewDayKey(2025, 3, 15), 3},
		{"across month", NewDayKey(2025, 4, 2), NewDayKey(2025, 3, 29), 4},
		{"across year", NewDayKey(2026, 1, 2), NewDayKey(2025, 12, 29), 4},
		{"negative", NewDayKey(2025, 3, 10), NewDayKey(2025, 3, 15), -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysBetween = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseRangeLabel(t *testing.T) {
	tests := []struct {
		name      string
		label     string
		calMonth  int
		calYear   int
		wantNil   bool
		wantStart DayKey
		wantEnd   DayKey
	}{
		{
			name:      "same month range",
			label:     "10 Mar - 15 Mar",
			calMonth:  3,
			calYear:   2025,
			wantStart: NewDayKey(2025, 3, 10),
			wantEnd:   NewDayKey(2025, 3, 15),
		},
		{
			name:      "messy whitespace",
			label:     "  10  Mar   -  15   Mar ",
			calMonth:  3,
			calYear:   2025,
			wantStart: NewDayKey(2025, 3, 10),
			wantEnd:   NewDayKey(2025, 3, 15),
		},
		{
			name:      "cross month same year",
			label:     "29 Mar - 2 Apr",
			calMonth:  3,
			calYear:   2025,
			wantStart: NewDayKey(2025, 3, 29),
			wantEnd:   NewDayKey(2025, 4, 2),
		},
		{
			name:      "december page crossing into january",
			label:     "29 Dec - 2 Jan",
			calMonth:  12,
			calYear:   2025,
			wantStart: NewDayKey(2025, 12, 29),
			wantEnd:   NewDayKey(2026, 1, 2),
		},
		{
			name:      "january page listing december start",
			label:     "29 Dec - 2 Jan",
			calMonth:  1,
			calYear:   2026,
			wantStart: NewDayKey(2025, 12, 29),
			wantEnd:   NewDayKey(2026, 1, 2),
		},
		{
			name:      "case insensitive months",
			label:     "10 MAR - 15 mar",
			calMonth:  3,
			calYear:   2025,
			wantStart: NewDayKey(2025, 3, 10),
			wantEnd:   NewDayKey(2025, 3, 15),
		},
		{
			name:      "single day",
			label:     "15 Mar",
			calMonth:  3,
			calYear:   2025,
			wantStart: NewDayKey(2025, 3, 15),
			wantEnd:   NewDayKey(2025, 3, 15),
		},
		{
			name:      "single day december on january page",
			label:     "31 Dec",
			calMonth:  1,
			calYear:   2026,
			wantStart: NewDayKey(2025, 12, 31),
			wantEnd:   NewDayKey(2025, 12, 31),
		},
		{
			name:     "unknown month",
			label:    "10 Xyz - 15 Mar",
			calMonth: 3,
			calYear:  2025,
			wantNil:  true,
		},
		{
			name:     "day out of range",
			label:    "32 Mar - 2 Apr",
			calMonth: 3,
			calYear:  2025,
			wantNil:  true,
		},
		{
			name:     "not a sailing row",
			label:    "Sailing Details",
			calMonth: 3,
			calYear:  2025,
			wantNil:  true,
		},
		{
			name:     "empty label",
			label:    "   ",
			calMonth: 3,
			calYear:  2025,
			wantNil:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRangeLabel(tt.label, tt.calMonth, tt.calYear)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("ParseRangeLabel(%q) = %+v, want nil", tt.label, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseRangeLabel(%q) = nil, want range", tt.label)
			}
			if got.Start != tt.wantStart || got.End != tt.wantEnd {
				t.Errorf("ParseRangeLabel(%q) = [%v, %v], want [%v, %v]",
					tt.label, got.Start, got.End, tt.wantStart, tt.wantEnd)
			}
			if got.Start > got.End {
				t.Errorf("range runs backwards: [%v, %v]", got.Start, got.End)
			}
		})
	}
}
