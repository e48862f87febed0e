package service

import (
	"math"
	"testing"
)

func TestCleanZoneIntensity(t *testing.T) {
	tests := []struct {
		name string
		size float64
		want float64
	}{
		{"zero size", 0, 0},
		{"negative size treated as zero", -50, 0},
		{"small patch", 100, -0.05},
		{"half cap", 500, -0.25},
		{"at cap", 1000, -0.5},
		{"beyond cap clamps", 5000, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanZoneIntensity(tt.size)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CleanZoneIntensity(%v) = %v, want %v", tt.size, got, tt.want)
			}
		})
	}
}

func TestCleanZoneIntensityNeverPositive(t *testing.T) {
	for _, size := range []float64{0, 1, 99.5, 1000, 1e6} {
		if got := CleanZoneIntensity(size); got > 0 {
			t.Errorf("CleanZoneIntensity(%v) = %v, expected <= 0", size, got)
		}
	}
}

func TestCleanZoneIntensityMonotonic(t *testing.T) {
	prev := CleanZoneIntensity(0)
	for size := 50.0; size <= 1500; size += 50 {
		got := CleanZoneIntensity(size)
		if got > prev {
			t.Errorf("intensity rose from %v to %v at size %v", prev, got, size)
		}
		prev = got
	}
}
