package service

import (
	"context"
	"fmt"
	"log"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/apperr"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/model"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/repository"
)

const rankingLimit = 50

// UserService serves profiles, leaderboards and the admin user controls.
// Identity lives with the external provider; the engine owns only balances,
// medals and the banned flag.
type UserService struct {
	users         *repository.UserRepo
	groups        *repository.GroupRepo
	notifications *repository.NotificationRepo
	ledger        *LedgerService
}

func NewUserService(users *repository.UserRepo, groups *repository.GroupRepo, notifications *repository.NotificationRepo, ledger *LedgerService) *UserService {
	return &UserService{users: users, groups: groups, notifications: notifications, ledger: ledger}
}

// Profile returns the public view of a user: balances plus the full medal
// history.
func (s *UserService) Profile(ctx context.Context, userID string) (*model.UserResponse, error) {
	u, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.UserResponse{
		UserID:        u.UserID,
		Name:          u.Name,
		Picture:       u.Picture,
		TotalPoints:   u.TotalPoints,
		MonthlyPoints: u.MonthlyPoints,
		WeeklyPoints:  u.WeeklyPoints,
		Medals:        u.Medals,
	}, nil
}

// WeeklyRankings returns the top users by weekly points.
func (s *UserService) WeeklyRankings(ctx context.Context) ([]model.UserRankingEntry, error) {
	return s.users.WeeklyRankings(ctx, rankingLimit)
}

// WeeklyGroupRankings returns the top groups by weekly points.
func (s *UserService) WeeklyGroupRankings(ctx context.Context) ([]model.GroupRankingEntry, error) {
	return s.groups.WeeklyRankings(ctx, rankingLimit)
}

// Group returns a group's derived balances.
func (s *UserService) Group(ctx context.Context, groupID string) (*model.Group, error) {
	return s.groups.FindByID(ctx, groupID)
}

// Notifications returns the user's recent engine events, newest first.
func (s *UserService) Notifications(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.notifications.ListForUser(ctx, userID, limit)
}

// ResetPoints is the admin override: set balances to exact values (clamped at
// zero) and re-derive the current month's medal set from the new monthly
// balance. The only path by which a medal set shrinks.
func (s *UserService) ResetPoints(ctx context.Context, userID string, req model.ResetPointsRequest) (*model.UserResponse, error) {
	if _, err := s.users.FindByUserID(ctx, userID); err != nil {
		return nil, err
	}

	b := model.Balances{
		Total:   max(0, req.TotalPoints),
		Monthly: max(0, req.MonthlyPoints),
		Weekly:  max(0, req.WeeklyPoints),
	}
	if err := s.users.ResetPoints(ctx, userID, b); err != nil {
		return nil, fmt.Errorf("reset points: %w", err)
	}

	if req.ClearMedals {
		if err := s.users.ClearMedals(ctx, userID); err != nil {
			return nil, fmt.Errorf("clear medals: %w", err)
		}
	}
	if _, err := s.ledger.RefreshMedals(ctx, userID, b.Monthly); err != nil {
		return nil, err
	}

	log.Printf("user: points reset for %s (total=%d monthly=%d weekly=%d clearMedals=%t)",
		userID, b.Total, b.Monthly, b.Weekly, req.ClearMedals)
	return s.Profile(ctx, userID)
}

// SetBanned flips a user's banned flag. Banned users keep their history but
// every mutating submission is rejected at the gate.
func (s *UserService) SetBanned(ctx context.Context, userID string, banned bool) error {
	u, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if u.IsAdmin && banned {
		return apperr.Authorizationf("cannot ban an admin")
	}
	if err := s.users.SetBanned(ctx, userID, banned); err != nil {
		return fmt.Errorf("set banned: %w", err)
	}
	log.Printf("user: %s banned=%t", userID, banned)
	return nil
}

// List returns users for the admin console.
func (s *UserService) List(ctx context.Context, limit int) ([]model.User, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.users.List(ctx, limit)
}
