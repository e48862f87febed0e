package service

import (
	"context"
	"testing"
	"time"
)

// fakeResetter mirrors the repository's insert-if-absent claim: the first
// call for a key wins, every later call for the same key no-ops.
type fakeResetter struct {
	claimed map[string]bool
	resets  []string
}

func newFakeResetter() *fakeResetter {
	return &fakeResetter{claimed: make(map[string]bool)}
}

func (f *fakeResetter) ResetPeriod(_ context.Context, periodType, periodKey string) (bool, error) {
	key := periodType + ":" + periodKey
	if f.claimed[key] {
		return false, nil
	}
	f.claimed[key] = true
	f.resets = append(f.resets, key)
	return true, nil
}

func TestRolloverTickTwiceResetsOnce(t *testing.T) {
	resets := newFakeResetter()
	w := NewRolloverWorker(resets, 15*time.Minute)
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	w.tick(context.Background(), now)
	if len(resets.resets) != 2 {
		t.Fatalf("first tick: got %d resets, want 2 (weekly + monthly)", len(resets.resets))
	}

	w.tick(context.Background(), now)
	w.tick(context.Background(), now.Add(5*time.Minute))
	if len(resets.resets) != 2 {
		t.Errorf("repeated ticks within the period: got %d resets, want 2", len(resets.resets))
	}
}

func TestRolloverTickAcrossWeekBoundary(t *testing.T) {
	resets := newFakeResetter()
	w := NewRolloverWorker(resets, 15*time.Minute)

	// Sunday night, then Monday midnight of the same month.
	w.tick(context.Background(), time.Date(2025, 1, 12, 23, 59, 0, 0, time.UTC))
	w.tick(context.Background(), time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC))

	want := []string{"weekly:2025-W02", "monthly:2025-01", "weekly:2025-W03"}
	if len(resets.resets) != len(want) {
		t.Fatalf("got resets %v, want %v", resets.resets, want)
	}
	for i, r := range resets.resets {
		if r != want[i] {
			t.Errorf("reset[%d] = %s, want %s", i, r, want[i])
		}
	}
}

func TestRolloverTickAcrossMonthBoundary(t *testing.T) {
	resets := newFakeResetter()
	w := NewRolloverWorker(resets, 15*time.Minute)

	// Jan 31 and Feb 1 2025 share ISO week 2025-W05, so only the month rolls.
	w.tick(context.Background(), time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC))
	w.tick(context.Background(), time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))

	want := []string{"weekly:2025-W05", "monthly:2025-01", "monthly:2025-02"}
	if len(resets.resets) != len(want) {
		t.Fatalf("got resets %v, want %v", resets.resets, want)
	}
	for i, r := range resets.resets {
		if r != want[i] {
			t.Errorf("reset[%d] = %s, want %s", i, r, want[i])
		}
	}
}

func TestNextBoundary(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "mid-week mid-month picks next Monday",
			now:  time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
			want: time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "month end picks month start over next Monday",
			now:  time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC),
			want: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "exactly at a boundary is strictly future",
			now:  time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
			want: time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextBoundary(tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("nextBoundary(%s) = %s, want %s", tt.now, got, tt.want)
			}
			if !got.After(tt.now) {
				t.Errorf("nextBoundary(%s) = %s is not in the future", tt.now, got)
			}
		})
	}
}
