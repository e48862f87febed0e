package period

import (
	"fmt"
	"time"
)

// MonthKey returns the calendar-month key for t in UTC, e.g. "2025-01".
// Medal records and monthly point aggregates are keyed by this value.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// WeekKey returns the ISO-8601 week key for t in UTC, e.g. "2025-W03".
func WeekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// SameMonth reports whether a and b fall in the same UTC calendar month.
func SameMonth(a, b time.Time) bool {
	return MonthKey(a) == MonthKey(b)
}

// SameISOWeek reports whether a and b fall in the same UTC ISO week.
func SameISOWeek(a, b time.Time) bool {
	return WeekKey(a) == WeekKey(b)
}

// MonthStart returns the first instant of t's UTC calendar month.
func MonthStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the first instant (Monday 00:00 UTC) of t's ISO week.
func WeekStart(t time.Time) time.Time {
	u := t.UTC()
	day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	return day.AddDate(0, 0, -(weekday - 1))
}
