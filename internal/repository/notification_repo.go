package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/model"
)

// NotificationRepo is the outbox the external notification dispatcher drains.
// The engine only ever inserts; delivery is not its job.
type NotificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

// Insert appends one event to the outbox.
func (r *NotificationRepo) Insert(ctx context.Context, n *model.Notification) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO notifications (user_id, type, title, message, read, created_at)
		VALUES ($1, $2, $3, $4, false, NOW())
		RETURNING id, created_at`,
		n.UserID, n.Type, n.Title, n.Message).Scan(&n.ID, &n.CreatedAt)
}

// ListForUser returns a user's recent events, newest first.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, type, title, message, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
