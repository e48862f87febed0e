package service

import "testing"

func TestCollectionPoints(t *testing.T) {
	svc := NewPointsService()

	if got := svc.CollectionPoints(true); got != 25 {
		t.Errorf("CollectionPoints(true) = %d, want 25", got)
	}
	if got := svc.CollectionPoints(false); got != 15 {
		t.Errorf("CollectionPoints(false) = %d, want 15", got)
	}
}

func TestAreaPoints(t *testing.T) {
	svc := NewPointsService()

	tests := []struct {
		name     string
		areaSize float64
		want     int
	}{
		{"zero size floors at minimum", 0, 10},
		{"tiny area floors at minimum", 40, 10},
		{"just below a full unit still floored", 99, 10},
		{"500 square meters", 500, 10},
		{"above the floor", 700, 14},
		{"1000 square meters", 1000, 20},
		{"partial unit truncated", 1050, 20},
		{"large area", 5000, 100},
		{"negative size treated as zero", -10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.AreaPoints(tt.areaSize); got != tt.want {
				t.Errorf("AreaPoints(%.0f) = %d, want %d", tt.areaSize, got, tt.want)
			}
		})
	}
}

func TestAreaPointsMonotonic(t *testing.T) {
	svc := NewPointsService()

	prev := 0
	for size := 0.0; size <= 3000; size += 50 {
		got := svc.AreaPoints(size)
		if got < prev {
			t.Fatalf("AreaPoints not monotonic: f(%.0f) = %d < previous %d", size, got, prev)
		}
		prev = got
	}
}
