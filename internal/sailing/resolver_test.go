package sailing

import (
	"context"
	"errors"
	"testing"
	"time"
)

var testCutoff = Cutoff{Hour: 11, Minute: 30}

func TestCutoffBefore(t *testing.T) {
	tests := []struct {
		name   string
		hh, mm int
		want   bool
	}{
		{"early morning", 8, 0, true},
		{"minute before", 11, 29, true},
		{"exactly at cutoff", 11, 30, false},
		{"minute after", 11, 31, false},
		{"afternoon", 15, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testCutoff.Before(tt.hh, tt.mm); got != tt.want {
				t.Errorf("Before(%d, %d) = %v, want %v", tt.hh, tt.mm, got, tt.want)
			}
		})
	}
}

func TestNewClock(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 15:00 UTC is 11:00 in New York (EDT): before the 11:30 cutoff.
	clock := NewClock(time.Date(2025, 6, 15, 15, 0, 0, 0, time.UTC), testCutoff, ny)
	if clock.Day != NewDayKey(2025, 6, 15) {
		t.Errorf("Day = %v, want %v", clock.Day, NewDayKey(2025, 6, 15))
	}
	if !clock.BeforeCutoff {
		t.Error("BeforeCutoff = false, want true at 11:00 local")
	}

	clock = NewClock(time.Date(2025, 6, 15, 16, 0, 0, 0, time.UTC), testCutoff, ny)
	if clock.BeforeCutoff {
		t.Error("BeforeCutoff = true, want false at 12:00 local")
	}
}

func TestProbeMonths(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want []MonthRef
	}{
		{
			name: "mid year",
			now:  time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			want: []MonthRef{{6, 2025}, {5, 2025}, {7, 2025}},
		},
		{
			name: "january wraps previous into december",
			now:  time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC),
			want: []MonthRef{{1, 2025}, {12, 2024}, {2, 2025}},
		},
		{
			name: "december wraps next into january",
			now:  time.Date(2025, 12, 20, 12, 0, 0, 0, time.UTC),
			want: []MonthRef{{12, 2025}, {11, 2025}, {1, 2026}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProbeMonths(tt.now, time.UTC)
			if len(got) != len(tt.want) {
				t.Fatalf("ProbeMonths = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ProbeMonths[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// fetchFromMap serves fixed candidate sets keyed by month.
func fetchFromMap(byMonth map[MonthRef][]Range) FetchFunc {
	return func(_ context.Context, ref MonthRef) ([]Range, error) {
		return byMonth[ref], nil
	}
}

func TestResolveSingleMatch(t *testing.T) {
	clock := Clock{Day: NewDayKey(2025, 3, 12), BeforeCutoff: false}
	months := []MonthRef{{3, 2025}, {2, 2025}, {4, 2025}}
	fetch := fetchFromMap(map[MonthRef][]Range{
		{3, 2025}: {
			{ID: "A", Start: NewDayKey(2025, 3, 10), End: NewDayKey(2025, 3, 15)},
			{ID: "B", Start: NewDayKey(2025, 3, 15), End: NewDayKey(2025, 3, 20)},
		},
	})

	got := Resolve(context.Background(), clock, months, fetch)
	if got == nil || got.SailingID != "A" {
		t.Fatalf("Resolve = %+v, want sailing A", got)
	}
}

func TestResolveFallsThroughEmptyMonths(t *testing.T) {
	clock := Clock{Day: NewDayKey(2025, 3, 1), BeforeCutoff: true}
	months := []MonthRef{{3, 2025}, {2, 2025}, {4, 2025}}
	fetch := fetchFromMap(map[MonthRef][]Range{
		{3, 2025}: nil,
		{2, 2025}: {
			{ID: "FEB", Start: NewDayKey(2025, 2, 24), End: NewDayKey(2025, 3, 3)},
		},
	})

	got := Resolve(context.Background(), clock, months, fetch)
	if got == nil || got.SailingID != "FEB" {
		t.Fatalf("Resolve = %+v, want sailing FEB from previous month", got)
	}
}

func TestResolveTurnaroundTieBreak(t *testing.T) {
	// A ends on the 15th, B begins on the 15th: a classic turnaround day.
	day := NewDayKey(2025, 3, 15)
	candidates := []Range{
		{ID: "A", Start: NewDayKey(2025, 3, 10), End: day},
		{ID: "B", Start: day, End: NewDayKey(2025, 3, 20)},
	}
	months := []MonthRef{{3, 2025}}
	fetch := fetchFromMap(map[MonthRef][]Range{{3, 2025}: candidates})

	tests := []struct {
		name         string
		beforeCutoff bool
		want         string
	}{
		{"before cutoff keeps ending voyage", true, "A"},
		{"after cutoff switches to starting voyage", false, "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := Clock{Day: day, BeforeCutoff: tt.beforeCutoff}
			got := Resolve(context.Background(), clock, months, fetch)
			if got == nil || got.SailingID != tt.want {
				t.Fatalf("Resolve = %+v, want sailing %s", got, tt.want)
			}
		})
	}
}

func TestResolveTieBreakPicksExtremes(t *testing.T) {
	// Two voyages end today and two begin today; the tie-break must pick
	// the latest-started ending voyage before cutoff and the
	// earliest-ending starting voyage after.
	day := NewDayKey(2025, 3, 15)
	candidates := []Range{
		{ID: "endEarly", Start: NewDayKey(2025, 3, 8), End: day},
		{ID: "endLate", Start: NewDayKey(2025, 3, 11), End: day},
		{ID: "startLong", Start: day, End: NewDayKey(2025, 3, 25)},
		{ID: "startShort", Start: day, End: NewDayKey(2025, 3, 20)},
	}
	months := []MonthRef{{3, 2025}}
	fetch := fetchFromMap(map[MonthRef][]Range{{3, 2025}: candidates})

	before := Resolve(context.Background(), Clock{Day: day, BeforeCutoff: true}, months, fetch)
	if before == nil || before.SailingID != "endLate" {
		t.Errorf("before cutoff: Resolve = %+v, want endLate", before)
	}

	after := Resolve(context.Background(), Clock{Day: day, BeforeCutoff: false}, months, fetch)
	if after == nil || after.SailingID != "startShort" {
		t.Errorf("after cutoff: Resolve = %+v, want startShort", after)
	}
}

func TestResolveUnsplitAmbiguityLatestStartWins(t *testing.T) {
	// Overlapping mid-voyage ranges with nothing starting or ending today:
	// the most recently started match wins.
	day := NewDayKey(2025, 3, 15)
	candidates := []Range{
		{ID: "older", Start: NewDayKey(2025, 3, 8), End: NewDayKey(2025, 3, 18)},
		{ID: "newer", Start: NewDayKey(2025, 3, 12), End: NewDayKey(2025, 3, 19)},
	}
	months := []MonthRef{{3, 2025}}
	fetch := fetchFromMap(map[MonthRef][]Range{{3, 2025}: candidates})

	got := Resolve(context.Background(), Clock{Day: day, BeforeCutoff: true}, months, fetch)
	if got == nil || got.SailingID != "newer" {
		t.Fatalf("Resolve = %+v, want newer", got)
	}
}

func TestResolveSingleDayMatchIsNotAnEndingVoyage(t *testing.T) {
	// A degenerate single-day range that both starts and ends today must
	// not count as an ending voyage; with a genuine starter present the
	// split is starts-only, so latest start applies.
	day := NewDayKey(2025, 3, 15)
	candidates := []Range{
		{ID: "oneday", Start: day, End: day},
		{ID: "starter", Start: day, End: NewDayKey(2025, 3, 20)},
	}
	months := []MonthRef{{3, 2025}}
	fetch := fetchFromMap(map[MonthRef][]Range{{3, 2025}: candidates})

	got := Resolve(context.Background(), Clock{Day: day, BeforeCutoff: true}, months, fetch)
	if got == nil {
		t.Fatal("Resolve = nil, want a decision")
	}
	// Both share the latest start; first declared wins on the tie.
	if got.SailingID != "oneday" {
		t.Errorf("Resolve = %+v, want oneday (first of equal latest starts)", got)
	}
}

func TestResolveFetchErrorDegradesToNextMonth(t *testing.T) {
	clock := Clock{Day: NewDayKey(2025, 3, 15), BeforeCutoff: true}
	months := []MonthRef{{3, 2025}, {2, 2025}, {4, 2025}}
	calls := 0
	fetch := func(_ context.Context, ref MonthRef) ([]Range, error) {
		calls++
		if ref.Month == 3 {
			return nil, errors.New("upstream 502")
		}
		if ref.Month == 2 {
			return []Range{{ID: "X", Start: NewDayKey(2025, 2, 27), End: NewDayKey(2025, 3, 17)}}, nil
		}
		return nil, nil
	}

	got := Resolve(context.Background(), clock, months, fetch)
	if got == nil || got.SailingID != "X" {
		t.Fatalf("Resolve = %+v, want X despite first-month error", got)
	}
	if calls != 2 {
		t.Errorf("fetch called %d times, want 2 (short-circuit after match)", calls)
	}
}

func TestResolveNoMatchAnywhere(t *testing.T) {
	clock := Clock{Day: NewDayKey(2025, 3, 15), BeforeCutoff: true}
	months := []MonthRef{{3, 2025}, {2, 2025}, {4, 2025}}
	fetch := fetchFromMap(map[MonthRef][]Range{
		{3, 2025}: {{ID: "later", Start: NewDayKey(2025, 3, 20), End: NewDayKey(2025, 3, 25)}},
	})

	if got := Resolve(context.Background(), clock, months, fetch); got != nil {
		t.Fatalf("Resolve = %+v, want nil", got)
	}
}

func TestResolveDiscardsUnusableCandidates(t *testing.T) {
	day := NewDayKey(2025, 3, 15)
	candidates := []Range{
		{ID: "", Start: NewDayKey(2025, 3, 10), End: NewDayKey(2025, 3, 20)},
		{ID: "backwards", Start: NewDayKey(2025, 3, 20), End: NewDayKey(2025, 3, 10)},
		{ID: "ok", Start: NewDayKey(2025, 3, 12), End: NewDayKey(2025, 3, 18)},
	}
	months := []MonthRef{{3, 2025}}
	fetch := fetchFromMap(map[MonthRef][]Range{{3, 2025}: candidates})

	got := Resolve(context.Background(), Clock{Day: day}, months, fetch)
	if got == nil || got.SailingID != "ok" {
		t.Fatalf("Resolve = %+v, want ok", got)
	}
}

func TestResolveDeterminism(t *testing.T) {
	clock := Clock{Day: NewDayKey(2025, 3, 15), BeforeCutoff: true}
	months := []MonthRef{{3, 2025}}
	fetch := fetchFromMap(map[MonthRef][]Range{
		{3, 2025}: {
			{ID: "A", Start: NewDayKey(2025, 3, 10), End: NewDayKey(2025, 3, 15)},
			{ID: "B", Start: NewDayKey(2025, 3, 15), End: NewDayKey(2025, 3, 20)},
		},
	})

	first := Resolve(context.Background(), clock, months, fetch)
	second := Resolve(context.Background(), clock, months, fetch)
	if first == nil || second == nil || *first != *second {
		t.Fatalf("Resolve not deterministic: %+v vs %+v", first, second)
	}
	if first.SailingID != "A" {
		t.Errorf("SailingID = %s, want A (ends today, before cutoff)", first.SailingID)
	}
}
