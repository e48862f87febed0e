package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/apperr"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/model"
)

// submissionChannel is the NOTIFY channel the heatmap worker listens on.
// Every state transition that can change the density map fires it.
const submissionChannel = "submission_changes"

type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

const reportColumns = `
	report_id, lat, lng, address, image_url, thumbnail_url, status,
	reporter_id, collector_id, collection_image_url, ai_verified,
	admin_verified, points_awarded, points_given, created_at, collected_at`

func scanReport(row pgx.Row) (*model.TrashReport, error) {
	var r model.TrashReport
	err := row.Scan(
		&r.ReportID, &r.Location.Lat, &r.Location.Lng, &r.Location.Address,
		&r.ImageURL, &r.ThumbnailURL, &r.Status,
		&r.ReporterID, &r.CollectorID, &r.CollectionImageURL, &r.AIVerified,
		&r.AdminVerified, &r.PointsAwarded, &r.PointsGiven, &r.CreatedAt, &r.CollectedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Insert stores a new report in the reported state.
func (r *ReportRepo) Insert(ctx context.Context, report *model.TrashReport) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO trash_reports
			(report_id, lat, lng, address, image_url, thumbnail_url, status,
			 reporter_id, ai_verified, points_awarded, points_given, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false, $11)`,
		report.ReportID, report.Location.Lat, report.Location.Lng, report.Location.Address,
		report.ImageURL, report.ThumbnailURL, report.Status,
		report.ReporterID, report.AIVerified, report.PointsAwarded, report.CreatedAt)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, submissionChannel, report.ReportID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// FindByID returns a single report.
func (r *ReportRepo) FindByID(ctx context.Context, reportID string) (*model.TrashReport, error) {
	report, err := scanReport(r.pool.QueryRow(ctx, `
		SELECT `+reportColumns+` FROM trash_reports WHERE report_id = $1`, reportID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("report %s not found", reportID)
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

// List returns reports newest first. With status empty it applies the default
// visibility window: everything still reported plus collections from the last
// seven days.
func (r *ReportRepo) List(ctx context.Context, status string, limit int) ([]model.TrashReport, error) {
	var rows pgx.Rows
	var err error

	if status != "" {
		rows, err = r.pool.Query(ctx, `
			SELECT `+reportColumns+`
			FROM trash_reports
			WHERE status = $1
			ORDER BY created_at DESC
			LIMIT $2`, status, limit)
	} else {
		weekAgo := time.Now().AddDate(0, 0, -7)
		rows, err = r.pool.Query(ctx, `
			SELECT `+reportColumns+`
			FROM trash_reports
			WHERE status = 'reported'
			   OR (status = 'collected' AND collected_at >= $1)
			ORDER BY created_at DESC
			LIMIT $2`, weekAgo, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.TrashReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}

// MarkCollected transitions reported → collected with a conditional update
// keyed on the expected current state. Exactly one of two concurrent collect
// calls wins; the loser sees zero rows and the caller translates that into
// ConflictError or InvalidStateError based on a fresh read.
func (r *ReportRepo) MarkCollected(ctx context.Context, reportID, collectorID, proofImageURL string, aiVerified bool, provisionalPoints int) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE trash_reports
		SET status = 'collected',
		    collector_id = $2,
		    collection_image_url = $3,
		    ai_verified = $4,
		    admin_verified = false,
		    points_awarded = $5,
		    points_given = false,
		    collected_at = NOW()
		WHERE report_id = $1 AND status = 'reported'`,
		reportID, collectorID, proofImageURL, aiVerified, provisionalPoints)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, submissionChannel, reportID); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

// ApproveCollection settles a pending collection. The points_given guard in
// the WHERE clause makes re-approval a no-op at the row level: the second
// admin click affects zero rows and never double-credits.
func (r *ReportRepo) ApproveCollection(ctx context.Context, reportID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE trash_reports
		SET admin_verified = true, points_given = true
		WHERE report_id = $1 AND status = 'collected' AND points_given = false`,
		reportID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// RejectCollection reverts a pending collection to reported, clearing the
// collector, proof and provisional fields. Settled collections are excluded
// by the points_given guard.
func (r *ReportRepo) RejectCollection(ctx context.Context, reportID string) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE trash_reports
		SET status = 'reported',
		    collector_id = NULL,
		    collection_image_url = NULL,
		    ai_verified = false,
		    admin_verified = false,
		    points_awarded = 0,
		    points_given = false,
		    collected_at = NULL
		WHERE report_id = $1 AND status = 'collected' AND points_given = false`,
		reportID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, submissionChannel, reportID); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

// Delete removes a report. Compensation for settled points happens in the
// service before this call, using the amounts stored on the row.
func (r *ReportRepo) Delete(ctx context.Context, reportID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM trash_reports WHERE report_id = $1`, reportID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("report %s not found", reportID)
	}

	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, submissionChannel, reportID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// UpdateFields applies an admin correction to status, location or image.
func (r *ReportRepo) UpdateFields(ctx context.Context, reportID string, req model.UpdateReportRequest) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if req.Status != nil {
		if _, err := tx.Exec(ctx, `UPDATE trash_reports SET status = $2 WHERE report_id = $1`, reportID, *req.Status); err != nil {
			return err
		}
	}
	if req.Location != nil {
		if _, err := tx.Exec(ctx, `
			UPDATE trash_reports SET lat = $2, lng = $3, address = $4 WHERE report_id = $1`,
			reportID, req.Location.Lat, req.Location.Lng, req.Location.Address); err != nil {
			return err
		}
	}
	if req.ImageURL != nil {
		if _, err := tx.Exec(ctx, `UPDATE trash_reports SET image_url = $2 WHERE report_id = $1`, reportID, *req.ImageURL); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, submissionChannel, reportID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// PendingCollections returns the moderation queue of collections awaiting
// admin review, annotated with collector identity.
func (r *ReportRepo) PendingCollections(ctx context.Context, limit int) ([]model.PendingCollection, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.report_id, t.lat, t.lng, t.address, t.image_url, t.thumbnail_url, t.status,
		       t.reporter_id, t.collector_id, t.collection_image_url, t.ai_verified,
		       t.admin_verified, t.points_awarded, t.points_given, t.created_at, t.collected_at,
		       COALESCE(u.name, ''), COALESCE(u.email, '')
		FROM trash_reports t
		LEFT JOIN users u ON u.user_id = t.collector_id
		WHERE t.status = 'collected' AND t.admin_verified = false
		ORDER BY t.collected_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []model.PendingCollection
	for rows.Next() {
		var p model.PendingCollection
		err := rows.Scan(
			&p.ReportID, &p.Location.Lat, &p.Location.Lng, &p.Location.Address,
			&p.ImageURL, &p.ThumbnailURL, &p.Status,
			&p.ReporterID, &p.CollectorID, &p.CollectionImageURL, &p.AIVerified,
			&p.AdminVerified, &p.PointsAwarded, &p.PointsGiven, &p.CreatedAt, &p.CollectedAt,
			&p.CollectorName, &p.CollectorEmail,
		)
		if err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// CountPendingCollections is the badge count: a COUNT query, never a
// materialised list.
func (r *ReportRepo) CountPendingCollections(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM trash_reports
		WHERE status = 'collected' AND admin_verified = false`).Scan(&count)
	return count, err
}

// ActiveLocations returns the locations of all still-reported litter for the
// heatmap. Collected reports represent resolved litter and are excluded.
func (r *ReportRepo) ActiveLocations(ctx context.Context) ([]model.Location, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT lat, lng FROM trash_reports WHERE status = 'reported'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locs []model.Location
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.Lat, &l.Lng); err != nil {
			return nil, err
		}
		locs = append(locs, l)
	}
	return locs, rows.Err()
}

// WeeklyStats counts reports created and collections made in the last seven
// days.
func (r *ReportRepo) WeeklyStats(ctx context.Context) (*model.WeeklyStatsResponse, error) {
	weekAgo := time.Now().AddDate(0, 0, -7)

	var stats model.WeeklyStatsResponse
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM trash_reports WHERE created_at >= $1),
			(SELECT COUNT(*) FROM trash_reports WHERE status = 'collected' AND collected_at >= $1)`,
		weekAgo).Scan(&stats.Reports, &stats.Collections)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
