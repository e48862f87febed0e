package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/model"
	"github.com/VibeCodiac/UnTrash-Emergent/pkg/period"
)

// DeltaCategory tags a ledger delta with the action that produced it.
type DeltaCategory string

const (
	CategoryReport       DeltaCategory = "report"
	CategoryCollection   DeltaCategory = "collection"
	CategoryArea         DeltaCategory = "area"
	CategoryCompensation DeltaCategory = "compensation"
)

// BalanceStore is the persistence surface the ledger drives.
// *repository.UserRepo implements it; tests substitute an in-memory fake.
type BalanceStore interface {
	ApplyDelta(ctx context.Context, userID string, amount int) (model.Balances, bool, error)
	GetMonthMedals(ctx context.Context, userID, monthKey string) ([]string, error)
	SetMonthMedals(ctx context.Context, userID, monthKey string, tiers []string) error
}

// GroupPointsStore propagates member deltas to group balances.
// *repository.GroupRepo implements it.
type GroupPointsStore interface {
	ApplyMemberDelta(ctx context.Context, userID string, amount int) error
}

// LedgerService applies signed point deltas to user and group balances and
// keeps the monthly medal sets in sync. Settlement idempotence is enforced
// upstream by the submission rows' points_given flag, not here; the balance
// arithmetic itself is repository.ApplyDeltaPure run under a per-user row
// lock.
type LedgerService struct {
	users  BalanceStore
	groups GroupPointsStore
	medals *MedalService
	notify *NotifyService
}

func NewLedgerService(users BalanceStore, groups GroupPointsStore, medals *MedalService, notify *NotifyService) *LedgerService {
	return &LedgerService{users: users, groups: groups, medals: medals, notify: notify}
}

// Credit settles a positive delta for a user, refreshes the current month's
// medal set and emits medal_earned events for newly crossed tiers. Returns
// the user's new balances and the newly earned tiers.
func (s *LedgerService) Credit(ctx context.Context, userID string, amount int, category DeltaCategory) (model.Balances, []string, error) {
	balances, clamped, err := s.users.ApplyDelta(ctx, userID, amount)
	if err != nil {
		return model.Balances{}, nil, fmt.Errorf("ledger: apply delta (%s): %w", category, err)
	}
	if clamped {
		log.Printf("ledger: delta clamped at zero for user %s (amount=%d category=%s)", userID, amount, category)
	}

	earned, err := s.refreshMedals(ctx, userID, balances.Monthly)
	if err != nil {
		return balances, nil, err
	}
	return balances, earned, nil
}

// Compensate settles a negative delta (deletion compensation). Going negative
// is clamped at zero and logged, never raised: refusing a deletion because
// historical points cannot go negative would be worse than clamping.
func (s *LedgerService) Compensate(ctx context.Context, userID string, amount int) (model.Balances, error) {
	balances, clamped, err := s.users.ApplyDelta(ctx, userID, -amount)
	if err != nil {
		return model.Balances{}, fmt.Errorf("ledger: compensate: %w", err)
	}
	if clamped {
		log.Printf("ledger: compensation clamped at zero for user %s (amount=-%d)", userID, amount)
	}

	if _, err := s.refreshMedals(ctx, userID, balances.Monthly); err != nil {
		return balances, err
	}
	return balances, nil
}

// CreditGroups propagates a settled collection delta to every group the user
// belongs to.
func (s *LedgerService) CreditGroups(ctx context.Context, userID string, amount int) error {
	return s.groups.ApplyMemberDelta(ctx, userID, amount)
}

// CompensateGroups reverses a previously propagated group delta, clamped at
// zero per group.
func (s *LedgerService) CompensateGroups(ctx context.Context, userID string, amount int) error {
	return s.groups.ApplyMemberDelta(ctx, userID, -amount)
}

// RefreshMedals re-derives the current month's medal set from the user's
// stored monthly balance (used after admin point adjustments).
func (s *LedgerService) RefreshMedals(ctx context.Context, userID string, monthlyPoints int) ([]string, error) {
	return s.refreshMedals(ctx, userID, monthlyPoints)
}

// refreshMedals re-derives the current month's medal set from the new monthly
// balance. Organic gains only ever add tiers; a compensation that drops the
// balance below a threshold removes the tier for the current month (historical
// months are never touched).
func (s *LedgerService) refreshMedals(ctx context.Context, userID string, monthlyPoints int) ([]string, error) {
	monthKey := period.MonthKey(time.Now())

	before, err := s.users.GetMonthMedals(ctx, userID, monthKey)
	if err != nil {
		return nil, fmt.Errorf("ledger: load medals: %w", err)
	}

	after := s.medals.Evaluate(monthlyPoints)
	if err := s.users.SetMonthMedals(ctx, userID, monthKey, after); err != nil {
		return nil, fmt.Errorf("ledger: store medals: %w", err)
	}

	earned := s.medals.NewlyEarned(before, after)
	if s.notify != nil {
		for _, tier := range earned {
			s.notify.MedalEarned(ctx, userID, tier, monthKey)
		}
	}
	return earned, nil
}
