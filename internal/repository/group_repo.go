package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/apperr"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/model"
)

// GroupRepo reads and adjusts the derived group balances. Group CRUD lives
// outside the engine; membership rows are maintained by that collaborator.
type GroupRepo struct {
	pool *pgxpool.Pool
}

func NewGroupRepo(pool *pgxpool.Pool) *GroupRepo {
	return &GroupRepo{pool: pool}
}

// ApplyMemberDelta applies a signed delta to every group the user belongs to,
// clamped at zero per group. One statement, atomic per group row.
func (r *GroupRepo) ApplyMemberDelta(ctx context.Context, userID string, amount int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE groups
		SET total_points = GREATEST(0, total_points + $2),
		    weekly_points = GREATEST(0, weekly_points + $2)
		WHERE group_id IN (SELECT group_id FROM group_members WHERE user_id = $1)`,
		userID, amount)
	return err
}

// FindByID returns a group's derived balances with its member count.
func (r *GroupRepo) FindByID(ctx context.Context, groupID string) (*model.Group, error) {
	var g model.Group
	err := r.pool.QueryRow(ctx, `
		SELECT g.group_id, g.name, g.description, g.owner_id,
		       (SELECT COUNT(*) FROM group_members m WHERE m.group_id = g.group_id),
		       g.total_points, g.weekly_points, g.created_at
		FROM groups g
		WHERE g.group_id = $1`, groupID).Scan(
		&g.GroupID, &g.Name, &g.Description, &g.OwnerID,
		&g.MemberCount, &g.TotalPoints, &g.WeeklyPoints, &g.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("group %s not found", groupID)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// WeeklyRankings returns the top groups by weekly points.
func (r *GroupRepo) WeeklyRankings(ctx context.Context, limit int) ([]model.GroupRankingEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT group_id, name, weekly_points
		FROM groups
		ORDER BY weekly_points DESC, group_id ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.GroupRankingEntry
	for rows.Next() {
		var e model.GroupRankingEntry
		if err := rows.Scan(&e.GroupID, &e.Name, &e.WeeklyPoints); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
