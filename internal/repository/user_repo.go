package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/apperr"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/model"
	"github.com/VibeCodiac/UnTrash-Emergent/pkg/period"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// ApplyDeltaPure computes the balances that result from applying amount at
// time ts, evaluated at time now. Total always moves; weekly and monthly move
// only when ts falls inside the current ISO week / calendar month. All three
// clamp at zero; clamped reports true when any balance would have gone
// negative. ApplyDelta runs this against a row locked FOR UPDATE.
func ApplyDeltaPure(b model.Balances, amount int, ts, now time.Time) (model.Balances, bool) {
	clamped := false

	next := model.Balances{Total: b.Total + amount, Monthly: b.Monthly, Weekly: b.Weekly}
	if next.Total < 0 {
		next.Total = 0
		clamped = true
	}

	if period.SameMonth(ts, now) {
		next.Monthly = b.Monthly + amount
		if next.Monthly < 0 {
			next.Monthly = 0
			clamped = true
		}
	}
	if period.SameISOWeek(ts, now) {
		next.Weekly = b.Weekly + amount
		if next.Weekly < 0 {
			next.Weekly = 0
			clamped = true
		}
	}

	return next, clamped
}

// ApplyDelta atomically applies a signed point delta to a user's balances.
// The row lock is the per-user mutual-exclusion scope: two near-simultaneous
// settlements for the same user serialise here and both land.
func (r *UserRepo) ApplyDelta(ctx context.Context, userID string, amount int) (model.Balances, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.Balances{}, false, err
	}
	defer tx.Rollback(ctx)

	var b model.Balances
	err = tx.QueryRow(ctx, `
		SELECT total_points, monthly_points, weekly_points
		FROM users WHERE user_id = $1
		FOR UPDATE`, userID).Scan(&b.Total, &b.Monthly, &b.Weekly)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Balances{}, false, apperr.NotFoundf("user %s not found", userID)
	}
	if err != nil {
		return model.Balances{}, false, err
	}

	now := time.Now()
	next, clamped := ApplyDeltaPure(b, amount, now, now)

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET total_points = $2, monthly_points = $3, weekly_points = $4
		WHERE user_id = $1`,
		userID, next.Total, next.Monthly, next.Weekly)
	if err != nil {
		return model.Balances{}, false, err
	}

	return next, clamped, tx.Commit(ctx)
}

// FindByUserID returns a single user including their medal history.
func (r *UserRepo) FindByUserID(ctx context.Context, userID string) (*model.User, error) {
	query := `
		SELECT user_id, email, name, picture, total_points, monthly_points, weekly_points,
		       medals, is_admin, is_banned, created_at
		FROM users
		WHERE user_id = $1`

	var u model.User
	var medalsJSON []byte
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&u.UserID, &u.Email, &u.Name, &u.Picture,
		&u.TotalPoints, &u.MonthlyPoints, &u.WeeklyPoints,
		&medalsJSON, &u.IsAdmin, &u.IsBanned, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("user %s not found", userID)
	}
	if err != nil {
		return nil, err
	}

	u.Medals = make(map[string][]string)
	if len(medalsJSON) > 0 {
		if err := json.Unmarshal(medalsJSON, &u.Medals); err != nil {
			return nil, fmt.Errorf("decode medals for %s: %w", userID, err)
		}
	}
	return &u, nil
}

// GetMonthMedals returns the medal tiers stored for one month key.
func (r *UserRepo) GetMonthMedals(ctx context.Context, userID, monthKey string) ([]string, error) {
	var tiersJSON []byte
	err := r.pool.QueryRow(ctx, `
		SELECT medals -> $2 FROM users WHERE user_id = $1`,
		userID, monthKey).Scan(&tiersJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("user %s not found", userID)
	}
	if err != nil {
		return nil, err
	}
	if len(tiersJSON) == 0 {
		return nil, nil
	}

	var tiers []string
	if err := json.Unmarshal(tiersJSON, &tiers); err != nil {
		return nil, fmt.Errorf("decode month medals for %s: %w", userID, err)
	}
	return tiers, nil
}

// SetMonthMedals replaces the medal set for one month key. An empty set
// removes the key; other months are never touched.
func (r *UserRepo) SetMonthMedals(ctx context.Context, userID, monthKey string, tiers []string) error {
	if len(tiers) == 0 {
		_, err := r.pool.Exec(ctx, `
			UPDATE users SET medals = medals - $2 WHERE user_id = $1`,
			userID, monthKey)
		return err
	}

	tiersJSON, err := json.Marshal(tiers)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		UPDATE users SET medals = jsonb_set(medals, ARRAY[$2]::text[], $3::jsonb, true)
		WHERE user_id = $1`,
		userID, monthKey, tiersJSON)
	return err
}

// ResetPoints overwrites a user's balances (admin adjustment). Values are
// already clamped non-negative by the caller.
func (r *UserRepo) ResetPoints(ctx context.Context, userID string, b model.Balances) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET total_points = $2, monthly_points = $3, weekly_points = $4
		WHERE user_id = $1`,
		userID, b.Total, b.Monthly, b.Weekly)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("user %s not found", userID)
	}
	return nil
}

// ClearMedals removes the entire medal history (admin reset with clearMedals).
func (r *UserRepo) ClearMedals(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET medals = '{}'::jsonb WHERE user_id = $1`, userID)
	return err
}

// SetBanned flips the banned flag. Banned users are refused all mutating
// calls by the auth middleware.
func (r *UserRepo) SetBanned(ctx context.Context, userID string, banned bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET is_banned = $2 WHERE user_id = $1`, userID, banned)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("user %s not found", userID)
	}
	return nil
}

// WeeklyRankings returns the top users by weekly points.
func (r *UserRepo) WeeklyRankings(ctx context.Context, limit int) ([]model.UserRankingEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, name, picture, weekly_points
		FROM users
		ORDER BY weekly_points DESC, user_id ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.UserRankingEntry
	for rows.Next() {
		var e model.UserRankingEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.Picture, &e.WeeklyPoints); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// List returns users newest first (admin view).
func (r *UserRepo) List(ctx context.Context, limit int) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, email, name, picture, total_points, monthly_points, weekly_points,
		       medals, is_admin, is_banned, created_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		var medalsJSON []byte
		err := rows.Scan(
			&u.UserID, &u.Email, &u.Name, &u.Picture,
			&u.TotalPoints, &u.MonthlyPoints, &u.WeeklyPoints,
			&medalsJSON, &u.IsAdmin, &u.IsBanned, &u.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		u.Medals = make(map[string][]string)
		if len(medalsJSON) > 0 {
			if err := json.Unmarshal(medalsJSON, &u.Medals); err != nil {
				return nil, fmt.Errorf("decode medals for %s: %w", u.UserID, err)
			}
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
