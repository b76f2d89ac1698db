// Package schedule expands a group's weekly active-day pattern over a date
// window into the concrete calendar dates its tasks are due.
//
// Active days use the domain convention 1=Monday..7=Sunday. Go's time.Weekday
// is 0=Sunday..6=Saturday; the translation between the two lives in
// DayNumber and nowhere else.
package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DayNumber maps a time.Weekday onto the 1=Monday..7=Sunday numbering.
func DayNumber(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

// Expand returns the ascending calendar dates within [start, end] (inclusive)
// whose weekday is in activeDays. An empty day set yields no dates. Times of
// day on the bounds are ignored; results are midnight in start's location.
func Expand(start, end time.Time, activeDays []int) []time.Time {
	if len(activeDays) == 0 {
		return nil
	}

	active := make(map[int]bool, len(activeDays))
	for _, d := range activeDays {
		active[d] = true
	}

	var dates []time.Time
	for d := startOfDay(start); !d.After(startOfDay(end)); d = d.AddDate(0, 0, 1) {
		if active[DayNumber(d.Weekday())] {
			dates = append(dates, d)
		}
	}
	return dates
}

// ParseDays parses the persisted "1,3,5" day-set representation into a
// sorted, deduplicated slice. An empty string is an empty set.
func ParseDays(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	seen := make(map[int]bool)
	var days []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid day %q", part)
		}
		if n < 1 || n > 7 {
			return nil, fmt.Errorf("day %d out of range 1..7", n)
		}
		if !seen[n] {
			seen[n] = true
			days = append(days, n)
		}
	}
	sort.Ints(days)
	return days, nil
}

// FormatDays renders a day set in the persisted comma-separated form.
func FormatDays(days []int) string {
	sorted := make([]int, len(days))
	copy(sorted, days)
	sort.Ints(sorted)

	parts := make([]string, len(sorted))
	for i, d := range sorted {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
