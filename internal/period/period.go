// Package period converts a sequence's period kind and start date into its
// end date and display label. All functions are pure; callers validate that
// the start date parses before reaching this package.
package period

import (
	"fmt"
	"time"
)

type Kind string

const (
	Weekly      Kind = "weekly"
	Fortnightly Kind = "fortnightly"
	Monthly     Kind = "monthly"
	Ongoing     Kind = "ongoing"
)

// ongoingYears bounds an "ongoing" sequence. Not a real forever, just far
// enough out that nobody hits it.
const ongoingYears = 10

// Valid reports whether k is a known period kind.
func Valid(k Kind) bool {
	switch k {
	case Weekly, Fortnightly, Monthly, Ongoing:
		return true
	}
	return false
}

// EndDate computes the inclusive end date for a period starting at start.
// Monthly keeps the same day-of-month in the following month, clamped to the
// target month's last day (Jan 31 -> Feb 28/29, never Mar 3).
func EndDate(start time.Time, kind Kind) time.Time {
	switch kind {
	case Weekly:
		return start.AddDate(0, 0, 7)
	case Fortnightly:
		return start.AddDate(0, 0, 14)
	case Monthly:
		year, month, day := start.Date()
		last := daysInMonth(year, month+1)
		if day > last {
			day = last
		}
		return time.Date(year, month+1, day, 0, 0, 0, 0, start.Location())
	case Ongoing:
		return start.AddDate(ongoingYears, 0, 0)
	}
	return start
}

// Weeks returns the period length in fractional weeks for allocation math.
// Monthly uses the 4.34-week average month rather than a calendar-exact count.
func Weeks(kind Kind) float64 {
	switch kind {
	case Weekly:
		return 1
	case Fortnightly:
		return 2
	case Monthly:
		return 4.34
	case Ongoing:
		return ongoingYears * 52.143
	}
	return 0
}

// Label builds the display label for a period, e.g. "Week of Jan 1 - Jan 8".
func Label(start time.Time, kind Kind) string {
	end := EndDate(start, kind)
	span := fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2"))
	switch kind {
	case Weekly:
		return "Week of " + span
	case Fortnightly:
		return "Fortnight of " + span
	case Monthly:
		return "Month of " + span
	case Ongoing:
		return "Ongoing from " + start.Format("Jan 2, 2006")
	}
	return span
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
