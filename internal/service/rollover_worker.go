package service

import (
	"context"
	"log"
	"time"

	"github.com/VibeCodiac/UnTrash-Emergent/pkg/period"
)

// PeriodResetter claims a period key and zeroes the matching balances.
// *repository.RolloverRepo implements it; tests substitute an in-memory fake.
type PeriodResetter interface {
	ResetPeriod(ctx context.Context, periodType, periodKey string) (bool, error)
}

// RolloverWorker zeroes weekly and monthly balances when a new period begins.
// It sleeps until the next period boundary (capped by maxSleep so clock
// adjustments cannot strand it), so the reset lands at the boundary itself,
// never minutes into the new period on top of freshly earned points. Total
// balances and historical medal sets are never touched.
type RolloverWorker struct {
	resets   PeriodResetter
	maxSleep time.Duration
	stopCh   chan struct{}
}

// NewRolloverWorker creates a worker. maxSleep bounds the time between wakes;
// an early wake is harmless because the period claim no-ops mid-period.
func NewRolloverWorker(resets PeriodResetter, maxSleep time.Duration) *RolloverWorker {
	return &RolloverWorker{
		resets:   resets,
		maxSleep: maxSleep,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the boundary-aligned loop. The immediate first tick covers a
// restart that slept through a boundary: the current period's key is then
// unclaimed and the catch-up reset runs. On a live database mid-period the
// key is already claimed (the schema seeds the keys current at setup) and
// the tick no-ops.
func (w *RolloverWorker) Start(ctx context.Context) {
	log.Printf("rollover-worker: starting (max sleep %s)", w.maxSleep)

	w.tick(ctx, time.Now().UTC())

	for {
		now := time.Now().UTC()
		wait := nextBoundary(now).Sub(now)
		if w.maxSleep > 0 && wait > w.maxSleep {
			wait = w.maxSleep
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
			w.tick(ctx, time.Now().UTC())
		case <-ctx.Done():
			timer.Stop()
			log.Println("rollover-worker: stopping (context cancelled)")
			return
		case <-w.stopCh:
			timer.Stop()
			log.Println("rollover-worker: stopping (stop signal)")
			return
		}
	}
}

// Stop signals the worker to stop.
func (w *RolloverWorker) Stop() {
	close(w.stopCh)
}

// nextBoundary returns the earlier of the next ISO-week start and the next
// calendar-month start after now. Always strictly in the future.
func nextBoundary(now time.Time) time.Time {
	week := period.WeekStart(now).AddDate(0, 0, 7)
	month := period.MonthStart(now).AddDate(0, 1, 0)
	if week.Before(month) {
		return week
	}
	return month
}

// tick claims the current week and month keys. The claim only succeeds on the
// first tick of a new period, so balances earned after the boundary are never
// swept up in the reset.
func (w *RolloverWorker) tick(ctx context.Context, now time.Time) {
	if claimed, err := w.resets.ResetPeriod(ctx, "weekly", period.WeekKey(now)); err != nil {
		log.Printf("rollover-worker: weekly error: %v", err)
	} else if claimed {
		log.Printf("rollover-worker: weekly rollover complete for %s", period.WeekKey(now))
	}

	if claimed, err := w.resets.ResetPeriod(ctx, "monthly", period.MonthKey(now)); err != nil {
		log.Printf("rollover-worker: monthly error: %v", err)
	} else if claimed {
		log.Printf("rollover-worker: monthly rollover complete for %s", period.MonthKey(now))
	}
}
