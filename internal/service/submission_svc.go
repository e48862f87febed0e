package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/apperr"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/model"
)

// ReportStore is the persistence surface the report state machine drives.
// The conditional transitions return false when the expected current state
// did not match, exactly like a zero-rows-affected UPDATE.
// *repository.ReportRepo implements it; tests substitute an in-memory fake.
type ReportStore interface {
	Insert(ctx context.Context, report *model.TrashReport) error
	FindByID(ctx context.Context, reportID string) (*model.TrashReport, error)
	List(ctx context.Context, status string, limit int) ([]model.TrashReport, error)
	MarkCollected(ctx context.Context, reportID, collectorID, proofImageURL string, aiVerified bool, provisionalPoints int) (bool, error)
	ApproveCollection(ctx context.Context, reportID string) (bool, error)
	RejectCollection(ctx context.Context, reportID string) (bool, error)
	UpdateFields(ctx context.Context, reportID string, req model.UpdateReportRequest) error
	Delete(ctx context.Context, reportID string) error
	WeeklyStats(ctx context.Context) (*model.WeeklyStatsResponse, error)
}

// SubmissionService drives the trash-report state machine:
// reported → collected (pending review) → approved, with rejection reverting
// to reported and deletion compensating settled points. Every transition is a
// conditional update keyed by (id, expected state); losers of a race get
// ConflictError, never a silent overwrite.
type SubmissionService struct {
	reports ReportStore
	points  *PointsService
	ledger  *LedgerService
	notify  *NotifyService
	cache   *CacheService
}

func NewSubmissionService(reports ReportStore, points *PointsService, ledger *LedgerService, notify *NotifyService, cache *CacheService) *SubmissionService {
	return &SubmissionService{reports: reports, points: points, ledger: ledger, notify: notify, cache: cache}
}

func newReportID() string {
	u := uuid.New()
	return fmt.Sprintf("trash_%x", u[:6])
}

// Report creates a new trash report and immediately credits the reporter.
// Reporting is not admin-gated; only collection is.
func (s *SubmissionService) Report(ctx context.Context, reporterID string, req model.ReportRequest) (*model.TrashReport, error) {
	if req.ImageURL == "" {
		return nil, apperr.Validationf("imageUrl is required")
	}
	if req.Location == nil {
		return nil, apperr.Validationf("location is required")
	}

	aiVerified := req.AIVerified != nil && *req.AIVerified

	report := &model.TrashReport{
		ReportID:      newReportID(),
		Location:      *req.Location,
		ImageURL:      req.ImageURL,
		ThumbnailURL:  req.ThumbnailURL,
		Status:        model.StatusReported,
		ReporterID:    reporterID,
		AIVerified:    aiVerified,
		PointsAwarded: ReportPoints,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.reports.Insert(ctx, report); err != nil {
		return nil, fmt.Errorf("insert report: %w", err)
	}

	if _, _, err := s.ledger.Credit(ctx, reporterID, ReportPoints, CategoryReport); err != nil {
		return nil, err
	}

	s.invalidateHeatmap(ctx)
	return report, nil
}

// Collect submits collection proof for a reported spot. Valid only from the
// reported state: a second collect on the same report gets InvalidStateError,
// and the loser of two concurrent collects gets ConflictError. Points stay
// provisional until an admin approves; the ledger is untouched here.
func (s *SubmissionService) Collect(ctx context.Context, collectorID, reportID string, req model.CollectRequest) (*model.CollectResponse, error) {
	if req.ProofImageURL == "" {
		return nil, apperr.Validationf("proofImageUrl is required")
	}

	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != model.StatusReported {
		return nil, apperr.InvalidStatef("report %s is already collected", reportID)
	}

	// Missing or negative verifier verdict selects the manual-review tier;
	// the external AI never blocks a submission.
	aiVerified := req.AIVerified != nil && *req.AIVerified
	provisional := s.points.CollectionPoints(aiVerified)

	ok, err := s.reports.MarkCollected(ctx, reportID, collectorID, req.ProofImageURL, aiVerified, provisional)
	if err != nil {
		return nil, fmt.Errorf("mark collected: %w", err)
	}
	if !ok {
		// The state was 'reported' moments ago, so another collect won the
		// race between our read and our update.
		return nil, apperr.Conflictf("report %s was collected concurrently", reportID)
	}

	s.invalidateHeatmap(ctx)
	s.invalidatePendingCount(ctx)

	updated, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	return &model.CollectResponse{
		Report:        updated,
		PointsPending: provisional,
		AIVerified:    aiVerified,
	}, nil
}

// ApproveCollection settles a pending collection: locks in the provisional
// award, credits the collector and their groups, and emits events. Approving
// an already-settled report is a no-op returning the existing award. The
// second return value reports whether this call performed the settlement, so
// callers count credited points once per settlement, not once per click.
func (s *SubmissionService) ApproveCollection(ctx context.Context, reportID string) (*model.TrashReport, bool, error) {
	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, false, err
	}
	if report.PointsGiven {
		// Duplicate admin click; the first approval already settled.
		return report, false, nil
	}
	if report.Status != model.StatusCollected {
		return nil, false, apperr.InvalidStatef("report %s is not pending review", reportID)
	}

	ok, err := s.reports.ApproveCollection(ctx, reportID)
	if err != nil {
		return nil, false, fmt.Errorf("approve collection: %w", err)
	}
	if !ok {
		// Lost a race against another admin action; re-read to decide.
		fresh, err := s.reports.FindByID(ctx, reportID)
		if err != nil {
			return nil, false, err
		}
		if fresh.PointsGiven {
			return fresh, false, nil
		}
		return nil, false, apperr.Conflictf("report %s changed state concurrently", reportID)
	}

	if report.CollectorID != nil {
		collectorID := *report.CollectorID
		if _, _, err := s.ledger.Credit(ctx, collectorID, report.PointsAwarded, CategoryCollection); err != nil {
			return nil, false, err
		}
		if err := s.ledger.CreditGroups(ctx, collectorID, report.PointsAwarded); err != nil {
			log.Printf("submission: group credit for %s failed: %v", collectorID, err)
		}
		if s.notify != nil {
			s.notify.CollectionApproved(ctx, collectorID, report.PointsAwarded)
		}
	}

	s.invalidatePendingCount(ctx)
	updated, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, false, err
	}
	return updated, true, nil
}

// RejectCollection reverts a pending collection to reported, discarding the
// provisional points. No ledger mutation: none was ever applied.
func (s *SubmissionService) RejectCollection(ctx context.Context, reportID string) (*model.TrashReport, error) {
	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != model.StatusCollected {
		return nil, apperr.InvalidStatef("report %s is not pending review", reportID)
	}
	if report.PointsGiven {
		return nil, apperr.InvalidStatef("report %s is already settled; delete it to reverse points", reportID)
	}

	ok, err := s.reports.RejectCollection(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("reject collection: %w", err)
	}
	if !ok {
		return nil, apperr.Conflictf("report %s changed state concurrently", reportID)
	}

	s.invalidateHeatmap(ctx)
	s.invalidatePendingCount(ctx)
	return s.reports.FindByID(ctx, reportID)
}

// DeleteReport removes a report from any state, issuing compensating
// negative deltas for every settled credit. The amounts come from the row,
// never from recomputation, so compensation stays exact even if the policy
// changes between award and deletion.
func (s *SubmissionService) DeleteReport(ctx context.Context, reportID string) (*model.DeleteReportResponse, error) {
	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	resp := &model.DeleteReportResponse{ReportID: reportID}

	// The reporter was credited at creation, so deletion always reverses it.
	if _, err := s.ledger.Compensate(ctx, report.ReporterID, ReportPoints); err != nil {
		return nil, err
	}
	resp.PointsDeducted = append(resp.PointsDeducted, model.Deduction{
		UserID: report.ReporterID, Points: ReportPoints, Reason: "report credit reversed",
	})

	if report.PointsGiven && report.CollectorID != nil {
		collectorID := *report.CollectorID
		if _, err := s.ledger.Compensate(ctx, collectorID, report.PointsAwarded); err != nil {
			return nil, err
		}
		if err := s.ledger.CompensateGroups(ctx, collectorID, report.PointsAwarded); err != nil {
			log.Printf("submission: group compensation for %s failed: %v", collectorID, err)
		}
		resp.PointsDeducted = append(resp.PointsDeducted, model.Deduction{
			UserID: collectorID, Points: report.PointsAwarded, Reason: "collection credit reversed",
		})
	}

	if err := s.reports.Delete(ctx, reportID); err != nil {
		return nil, err
	}

	s.invalidateHeatmap(ctx)
	s.invalidatePendingCount(ctx)
	return resp, nil
}

// UpdateReport applies an admin field correction.
func (s *SubmissionService) UpdateReport(ctx context.Context, reportID string, req model.UpdateReportRequest) (*model.TrashReport, error) {
	if req.Status != nil && *req.Status != model.StatusReported && *req.Status != model.StatusCollected {
		return nil, apperr.Validationf("status must be %q or %q", model.StatusReported, model.StatusCollected)
	}
	if _, err := s.reports.FindByID(ctx, reportID); err != nil {
		return nil, err
	}
	if err := s.reports.UpdateFields(ctx, reportID, req); err != nil {
		return nil, fmt.Errorf("update report: %w", err)
	}

	s.invalidateHeatmap(ctx)
	return s.reports.FindByID(ctx, reportID)
}

// Get returns a single report.
func (s *SubmissionService) Get(ctx context.Context, reportID string) (*model.TrashReport, error) {
	return s.reports.FindByID(ctx, reportID)
}

// List returns reports, optionally filtered by status.
func (s *SubmissionService) List(ctx context.Context, status string, limit int) ([]model.TrashReport, error) {
	return s.reports.List(ctx, status, limit)
}

// WeeklyStats returns city-wide report and collection counts for the current
// ISO week.
func (s *SubmissionService) WeeklyStats(ctx context.Context) (*model.WeeklyStatsResponse, error) {
	return s.reports.WeeklyStats(ctx)
}

func (s *SubmissionService) invalidateHeatmap(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateHeatmap(ctx); err != nil {
		log.Printf("cache: invalidate heatmap error: %v", err)
	}
}

func (s *SubmissionService) invalidatePendingCount(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePendingCount(ctx); err != nil {
		log.Printf("cache: invalidate pending count error: %v", err)
	}
}
