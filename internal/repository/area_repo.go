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
)

type AreaRepo struct {
	pool *pgxpool.Pool
}

func NewAreaRepo(pool *pgxpool.Pool) *AreaRepo {
	return &AreaRepo{pool: pool}
}

const areaColumns = `
	area_id, user_id, center_lat, center_lng, polygon_coords, area_size,
	image_url, ai_verified, admin_approved, points_awarded, points_given,
	expires_at, created_at`

func scanArea(row pgx.Row) (*model.AreaCleaning, error) {
	var a model.AreaCleaning
	var polygonJSON []byte
	err := row.Scan(
		&a.AreaID, &a.UserID, &a.CenterLocation.Lat, &a.CenterLocation.Lng,
		&polygonJSON, &a.AreaSize, &a.ImageURL, &a.AIVerified, &a.AdminApproved,
		&a.PointsAwarded, &a.PointsGiven, &a.ExpiresAt, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(polygonJSON) > 0 {
		if err := json.Unmarshal(polygonJSON, &a.PolygonCoords); err != nil {
			return nil, fmt.Errorf("decode polygon for %s: %w", a.AreaID, err)
		}
	}
	return &a, nil
}

// Insert stores a new area cleaning awaiting admin approval.
func (r *AreaRepo) Insert(ctx context.Context, area *model.AreaCleaning) error {
	polygonJSON, err := json.Marshal(area.PolygonCoords)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO area_cleanings
			(area_id, user_id, center_lat, center_lng, polygon_coords, area_size,
			 image_url, ai_verified, admin_approved, points_awarded, points_given,
			 expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, false, $8, false, $9, $10)`,
		area.AreaID, area.UserID, area.CenterLocation.Lat, area.CenterLocation.Lng,
		polygonJSON, area.AreaSize, area.ImageURL, area.PointsAwarded,
		area.ExpiresAt, area.CreatedAt)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, submissionChannel, area.AreaID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// FindByID returns a single area cleaning.
func (r *AreaRepo) FindByID(ctx context.Context, areaID string) (*model.AreaCleaning, error) {
	area, err := scanArea(r.pool.QueryRow(ctx, `
		SELECT `+areaColumns+` FROM area_cleanings WHERE area_id = $1`, areaID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("area %s not found", areaID)
	}
	if err != nil {
		return nil, err
	}
	return area, nil
}

// Approve settles a pending area. The points_given guard makes re-approval a
// zero-row no-op, never a double credit.
func (r *AreaRepo) Approve(ctx context.Context, areaID string) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE area_cleanings
		SET admin_approved = true, ai_verified = true, points_given = true
		WHERE area_id = $1 AND admin_approved = false AND points_given = false`,
		areaID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, submissionChannel, areaID); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

// DeletePending removes a still-pending area (admin rejection). Approved
// areas are excluded; deleting those goes through Delete with compensation.
func (r *AreaRepo) DeletePending(ctx context.Context, areaID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM area_cleanings
		WHERE area_id = $1 AND admin_approved = false`, areaID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes an area regardless of state. Compensation for settled points
// happens in the service before this call.
func (r *AreaRepo) Delete(ctx context.Context, areaID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM area_cleanings WHERE area_id = $1`, areaID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("area %s not found", areaID)
	}

	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, submissionChannel, areaID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Active returns admin-approved areas whose green-zone window has not expired.
func (r *AreaRepo) Active(ctx context.Context) ([]model.AreaCleaning, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+areaColumns+`
		FROM area_cleanings
		WHERE admin_approved = true AND expires_at > NOW()
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var areas []model.AreaCleaning
	for rows.Next() {
		area, err := scanArea(rows)
		if err != nil {
			return nil, err
		}
		areas = append(areas, *area)
	}
	return areas, rows.Err()
}

// PendingAreas returns the moderation queue of areas awaiting approval,
// annotated with submitter identity.
func (r *AreaRepo) PendingAreas(ctx context.Context, limit int) ([]model.PendingArea, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.area_id, a.user_id, a.center_lat, a.center_lng, a.polygon_coords,
		       a.area_size, a.image_url, a.ai_verified, a.admin_approved,
		       a.points_awarded, a.points_given, a.expires_at, a.created_at,
		       COALESCE(u.name, ''), COALESCE(u.email, '')
		FROM area_cleanings a
		LEFT JOIN users u ON u.user_id = a.user_id
		WHERE a.admin_approved = false
		ORDER BY a.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []model.PendingArea
	for rows.Next() {
		var p model.PendingArea
		var polygonJSON []byte
		err := rows.Scan(
			&p.AreaID, &p.UserID, &p.CenterLocation.Lat, &p.CenterLocation.Lng,
			&polygonJSON, &p.AreaSize, &p.ImageURL, &p.AIVerified, &p.AdminApproved,
			&p.PointsAwarded, &p.PointsGiven, &p.ExpiresAt, &p.CreatedAt,
			&p.UserName, &p.UserEmail,
		)
		if err != nil {
			return nil, err
		}
		if len(polygonJSON) > 0 {
			if err := json.Unmarshal(polygonJSON, &p.PolygonCoords); err != nil {
				return nil, fmt.Errorf("decode polygon for %s: %w", p.AreaID, err)
			}
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// CountPending is the badge count for areas awaiting approval.
func (r *AreaRepo) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM area_cleanings WHERE admin_approved = false`).Scan(&count)
	return count, err
}

// ActiveCentroids returns centroid and size for every active approved area,
// the heatmap's clean-zone inputs.
func (r *AreaRepo) ActiveCentroids(ctx context.Context) ([]model.AreaCleaning, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT area_id, center_lat, center_lng, area_size
		FROM area_cleanings
		WHERE admin_approved = true AND expires_at > NOW()`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var areas []model.AreaCleaning
	for rows.Next() {
		var a model.AreaCleaning
		if err := rows.Scan(&a.AreaID, &a.CenterLocation.Lat, &a.CenterLocation.Lng, &a.AreaSize); err != nil {
			return nil, err
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

// expiryWindow is how long an approved area stays visible as a green zone.
const expiryWindow = 7 * 24 * time.Hour

// ExpiryFrom returns the green-zone expiry for an area created at t.
func ExpiryFrom(t time.Time) time.Time {
	return t.Add(expiryWindow)
}
