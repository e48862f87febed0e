package repository

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RolloverRepo records completed period resets and zeroes the matching
// balances. The period_resets primary key is what makes a reset happen at
// most once per period across ticks and replicas.
type RolloverRepo struct {
	pool *pgxpool.Pool
}

func NewRolloverRepo(pool *pgxpool.Pool) *RolloverRepo {
	return &RolloverRepo{pool: pool}
}

// ResetPeriod claims the (periodType, periodKey) pair and, if this process won
// the claim, zeroes the matching balances. Returns false when the period was
// already reset, here or on another replica. The claim and the reset share one
// transaction: a crash between them rolls the claim back too.
func (r *RolloverRepo) ResetPeriod(ctx context.Context, periodType, periodKey string) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO period_resets (period_type, period_key, reset_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (period_type, period_key) DO NOTHING`,
		periodType, periodKey)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	start := time.Now()
	var users, groups int64

	switch periodType {
	case "weekly":
		utag, err := tx.Exec(ctx, `UPDATE users SET weekly_points = 0 WHERE weekly_points <> 0`)
		if err != nil {
			return false, err
		}
		gtag, err := tx.Exec(ctx, `UPDATE groups SET weekly_points = 0 WHERE weekly_points <> 0`)
		if err != nil {
			return false, err
		}
		users, groups = utag.RowsAffected(), gtag.RowsAffected()
	case "monthly":
		utag, err := tx.Exec(ctx, `UPDATE users SET monthly_points = 0 WHERE monthly_points <> 0`)
		if err != nil {
			return false, err
		}
		users = utag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}

	log.Printf("rollover: %s reset for %s — %d users, %d groups zeroed (%s)",
		periodType, periodKey, users, groups, time.Since(start).Round(time.Millisecond))
	return true, nil
}
