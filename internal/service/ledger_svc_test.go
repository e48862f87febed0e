package service

import (
	"testing"
	"time"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/model"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/repository"
)

var ledgerNow = time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC) // Wednesday, week 25

func TestApplyDeltaPure_CreditInCurrentPeriods(t *testing.T) {
	b := model.Balances{Total: 100, Monthly: 40, Weekly: 10}

	got, clamped := repository.ApplyDeltaPure(b, 25, ledgerNow, ledgerNow)
	want := model.Balances{Total: 125, Monthly: 65, Weekly: 35}
	if got != want {
		t.Errorf("ApplyDeltaPure = %+v, want %+v", got, want)
	}
	if clamped {
		t.Error("credit should not clamp")
	}
}

func TestApplyDeltaPure_TimestampOutsideWeek(t *testing.T) {
	// Action happened the previous ISO week but the same month.
	ts := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC) // Sunday of week 23
	b := model.Balances{Total: 100, Monthly: 40, Weekly: 10}

	got, _ := repository.ApplyDeltaPure(b, 25, ts, ledgerNow)
	if got.Total != 125 || got.Monthly != 65 {
		t.Errorf("total/monthly = %d/%d, want 125/65", got.Total, got.Monthly)
	}
	if got.Weekly != 10 {
		t.Errorf("weekly = %d, want unchanged 10 (action outside current ISO week)", got.Weekly)
	}
}

func TestApplyDeltaPure_TimestampOutsideMonth(t *testing.T) {
	ts := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)
	b := model.Balances{Total: 100, Monthly: 40, Weekly: 10}

	got, _ := repository.ApplyDeltaPure(b, 25, ts, ledgerNow)
	if got.Total != 125 {
		t.Errorf("total = %d, want 125", got.Total)
	}
	if got.Monthly != 40 || got.Weekly != 10 {
		t.Errorf("monthly/weekly = %d/%d, want unchanged 40/10", got.Monthly, got.Weekly)
	}
}

func TestApplyDeltaPure_CompensationClampsAtZero(t *testing.T) {
	b := model.Balances{Total: 20, Monthly: 5, Weekly: 0}

	got, clamped := repository.ApplyDeltaPure(b, -25, ledgerNow, ledgerNow)
	want := model.Balances{Total: 0, Monthly: 0, Weekly: 0}
	if got != want {
		t.Errorf("ApplyDeltaPure = %+v, want %+v", got, want)
	}
	if !clamped {
		t.Error("compensation past zero should report clamped")
	}
}

func TestApplyDeltaPure_ExactCompensationDoesNotClamp(t *testing.T) {
	b := model.Balances{Total: 25, Monthly: 25, Weekly: 25}

	got, clamped := repository.ApplyDeltaPure(b, -25, ledgerNow, ledgerNow)
	want := model.Balances{Total: 0, Monthly: 0, Weekly: 0}
	if got != want {
		t.Errorf("ApplyDeltaPure = %+v, want %+v", got, want)
	}
	if clamped {
		t.Error("exact compensation to zero should not report clamped")
	}
}

func TestApplyDeltaPure_SequenceEqualsSumOfDeltas(t *testing.T) {
	b := model.Balances{}
	deltas := []int{5, 25, 15, -25, 10}

	sum := 0
	for _, d := range deltas {
		b, _ = repository.ApplyDeltaPure(b, d, ledgerNow, ledgerNow)
		sum += d
	}

	if b.Total != sum {
		t.Errorf("total after sequence = %d, want sum of settled deltas %d", b.Total, sum)
	}
}
