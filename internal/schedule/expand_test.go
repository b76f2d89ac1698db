package schedule

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayNumber(t *testing.T) {
	tests := []struct {
		wd   time.Weekday
		want int
	}{
		{time.Monday, 1},
		{time.Tuesday, 2},
		{time.Wednesday, 3},
		{time.Thursday, 4},
		{time.Friday, 5},
		{time.Saturday, 6},
		{time.Sunday, 7},
	}
	for _, tt := range tests {
		if got := DayNumber(tt.wd); got != tt.want {
			t.Errorf("DayNumber(%v) = %d, want %d", tt.wd, got, tt.want)
		}
	}
}

func TestExpandMonWedFri(t *testing.T) {
	// Mon Jan 1 2024 through Sun Jan 7 2024
	got := Expand(date(2024, time.January, 1), date(2024, time.January, 7), []int{1, 3, 5})
	want := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 3),
		date(2024, time.January, 5),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d dates, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("dates[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestExpandMondayBoundary(t *testing.T) {
	// Window is exactly one Monday; day 1 must match it, day 7 must not.
	mon := date(2024, time.January, 8)
	if got := Expand(mon, mon, []int{1}); len(got) != 1 {
		t.Errorf("Monday window with day 1: got %d dates, want 1", len(got))
	}
	if got := Expand(mon, mon, []int{7}); len(got) != 0 {
		t.Errorf("Monday window with day 7: got %d dates, want 0", len(got))
	}
}

func TestExpandSundayBoundary(t *testing.T) {
	// Window is exactly one Sunday; day 7 must match, day 1 must not.
	sun := date(2024, time.January, 7)
	if got := Expand(sun, sun, []int{7}); len(got) != 1 {
		t.Errorf("Sunday window with day 7: got %d dates, want 1", len(got))
	}
	if got := Expand(sun, sun, []int{1}); len(got) != 0 {
		t.Errorf("Sunday window with day 1: got %d dates, want 0", len(got))
	}
}

func TestExpandEmptyDays(t *testing.T) {
	got := Expand(date(2024, time.January, 1), date(2024, time.January, 31), nil)
	if len(got) != 0 {
		t.Errorf("empty day set: got %d dates, want 0", len(got))
	}
}

func TestExpandInclusiveBounds(t *testing.T) {
	start := date(2024, time.January, 1) // Monday
	end := date(2024, time.January, 15)  // Monday
	got := Expand(start, end, []int{1})
	if len(got) != 3 {
		t.Fatalf("got %d Mondays, want 3", len(got))
	}
	if !got[0].Equal(start) || !got[2].Equal(end) {
		t.Errorf("bounds not inclusive: first %v, last %v", got[0], got[2])
	}
	for _, d := range got {
		if d.Before(start) || d.After(end) {
			t.Errorf("date %v outside window", d)
		}
	}
}

func TestExpandAllDays(t *testing.T) {
	got := Expand(date(2024, time.January, 1), date(2024, time.January, 14), []int{1, 2, 3, 4, 5, 6, 7})
	if len(got) != 14 {
		t.Errorf("all days over two weeks: got %d dates, want 14", len(got))
	}
}

func TestExpandIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, time.January, 1, 23, 30, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 1, 0, 5, 0, 0, time.UTC)
	got := Expand(start, end, []int{1})
	if len(got) != 1 {
		t.Fatalf("got %d dates, want 1", len(got))
	}
	if got[0].Hour() != 0 {
		t.Errorf("expected midnight, got %v", got[0])
	}
}

func TestParseDays(t *testing.T) {
	got, err := ParseDays("5,1,3,1")
	if err != nil {
		t.Fatalf("ParseDays: %v", err)
	}
	want := []int{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

func TestParseDaysEmpty(t *testing.T) {
	got, err := ParseDays("")
	if err != nil {
		t.Fatalf("ParseDays: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestParseDaysInvalid(t *testing.T) {
	for _, input := range []string{"0", "8", "monday", "1,,3"} {
		if _, err := ParseDays(input); err == nil {
			t.Errorf("ParseDays(%q) expected error", input)
		}
	}
}

func TestFormatDaysRoundTrip(t *testing.T) {
	if got := FormatDays([]int{5, 1, 3}); got != "1,3,5" {
		t.Errorf("FormatDays = %q, want %q", got, "1,3,5")
	}
	parsed, err := ParseDays(FormatDays([]int{7, 2}))
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if len(parsed) != 2 || parsed[0] != 2 || parsed[1] != 7 {
		t.Errorf("round trip = %v, want [2 7]", parsed)
	}
}
