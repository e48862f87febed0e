package period

import (
	"testing"
	"time"
)

func TestMonthKey(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"mid month", time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC), "2025-01"},
		{"last instant of month", time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC), "2025-01"},
		{"first instant of month", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), "2025-02"},
		{"non-UTC input normalised", time.Date(2025, 3, 1, 0, 30, 0, 0, time.FixedZone("CET", 3600)), "2025-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthKey(tt.in); got != tt.want {
				t.Errorf("MonthKey(%v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestWeekKey(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		// 2024-12-30 is a Monday belonging to ISO week 1 of 2025
		{"year boundary belongs to next ISO year", time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), "2025-W01"},
		{"plain mid-year week", time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC), "2025-W25"},
		{"single digit week zero-padded", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), "2025-W02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekKey(tt.in); got != tt.want {
				t.Errorf("WeekKey(%v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestSameMonth(t *testing.T) {
	a := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)
	c := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	if !SameMonth(a, b) {
		t.Error("first and last day of January should be the same month")
	}
	if SameMonth(b, c) {
		t.Error("January 31 and February 1 should not be the same month")
	}
}

func TestSameISOWeek(t *testing.T) {
	mon := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC) // Monday
	sun := time.Date(2025, 6, 22, 23, 59, 0, 0, time.UTC)
	nextMon := time.Date(2025, 6, 23, 0, 0, 0, 0, time.UTC)

	if !SameISOWeek(mon, sun) {
		t.Error("Monday and the following Sunday should share an ISO week")
	}
	if SameISOWeek(sun, nextMon) {
		t.Error("Sunday and the next Monday should not share an ISO week")
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday maps to itself", time.Date(2025, 6, 16, 15, 4, 5, 0, time.UTC), time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)},
		{"sunday maps back to monday", time.Date(2025, 6, 22, 1, 0, 0, 0, time.UTC), time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)},
		{"wednesday maps back to monday", time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStart(tt.in); !got.Equal(tt.want) {
				t.Errorf("WeekStart(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMonthStart(t *testing.T) {
	in := time.Date(2025, 7, 19, 8, 30, 0, 0, time.UTC)
	want := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	if got := MonthStart(in); !got.Equal(want) {
		t.Errorf("MonthStart(%v) = %v, want %v", in, got, want)
	}
}
