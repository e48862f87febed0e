package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/apperr"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/model"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/repository"
)

// AreaService handles area-cleaning submissions. Areas are simpler than trash
// reports: no intermediate collected state, just pending → approved, with
// rejection deleting the record outright.
type AreaService struct {
	areas  *repository.AreaRepo
	points *PointsService
	ledger *LedgerService
	notify *NotifyService
	cache  *CacheService
}

func NewAreaService(areas *repository.AreaRepo, points *PointsService, ledger *LedgerService, notify *NotifyService, cache *CacheService) *AreaService {
	return &AreaService{areas: areas, points: points, ledger: ledger, notify: notify, cache: cache}
}

func newAreaID() string {
	u := uuid.New()
	return fmt.Sprintf("area_%x", u[:6])
}

// Submit records a cleaned area awaiting admin approval. The point value is
// computed from the declared size at submission time and frozen on the row;
// settlement later pays exactly this amount.
func (s *AreaService) Submit(ctx context.Context, userID string, req model.AreaRequest) (*model.AreaResponse, error) {
	if req.ImageURL == "" {
		return nil, apperr.Validationf("imageUrl is required")
	}
	if req.AreaSize <= 0 {
		return nil, apperr.Validationf("areaSize must be positive")
	}
	if len(req.PolygonCoords) > 0 && len(req.PolygonCoords) < 3 {
		return nil, apperr.Validationf("polygonCoords needs at least 3 vertices")
	}

	now := time.Now().UTC()
	area := &model.AreaCleaning{
		AreaID:         newAreaID(),
		UserID:         userID,
		CenterLocation: req.CenterLocation,
		PolygonCoords:  req.PolygonCoords,
		AreaSize:       req.AreaSize,
		ImageURL:       req.ImageURL,
		PointsAwarded:  s.points.AreaPoints(req.AreaSize),
		ExpiresAt:      repository.ExpiryFrom(now),
		CreatedAt:      now,
	}

	if err := s.areas.Insert(ctx, area); err != nil {
		return nil, fmt.Errorf("insert area: %w", err)
	}

	s.invalidatePendingCount(ctx)
	return &model.AreaResponse{Area: area, PointsPending: area.PointsAwarded}, nil
}

// Approve settles a pending area: credits the frozen award, propagates it to
// the submitter's groups and starts the green-zone window. Re-approving a
// settled area is a no-op returning the existing record. The second return
// value reports whether this call performed the settlement.
func (s *AreaService) Approve(ctx context.Context, areaID string) (*model.AreaCleaning, bool, error) {
	area, err := s.areas.FindByID(ctx, areaID)
	if err != nil {
		return nil, false, err
	}
	if area.PointsGiven {
		return area, false, nil
	}

	ok, err := s.areas.Approve(ctx, areaID)
	if err != nil {
		return nil, false, fmt.Errorf("approve area: %w", err)
	}
	if !ok {
		fresh, err := s.areas.FindByID(ctx, areaID)
		if err != nil {
			return nil, false, err
		}
		if fresh.PointsGiven {
			return fresh, false, nil
		}
		return nil, false, apperr.Conflictf("area %s changed state concurrently", areaID)
	}

	if _, _, err := s.ledger.Credit(ctx, area.UserID, area.PointsAwarded, CategoryArea); err != nil {
		return nil, false, err
	}
	if err := s.ledger.CreditGroups(ctx, area.UserID, area.PointsAwarded); err != nil {
		log.Printf("area: group credit for %s failed: %v", area.UserID, err)
	}
	if s.notify != nil {
		s.notify.AreaApproved(ctx, area.UserID, area.PointsAwarded)
	}

	s.invalidateHeatmap(ctx)
	s.invalidatePendingCount(ctx)
	updated, err := s.areas.FindByID(ctx, areaID)
	if err != nil {
		return nil, false, err
	}
	return updated, true, nil
}

// Reject removes a still-pending area. No points were ever settled, so there
// is nothing to compensate; the user may resubmit.
func (s *AreaService) Reject(ctx context.Context, areaID string) error {
	area, err := s.areas.FindByID(ctx, areaID)
	if err != nil {
		return err
	}
	if area.AdminApproved {
		return apperr.InvalidStatef("area %s is already approved; delete it to reverse points", areaID)
	}

	ok, err := s.areas.DeletePending(ctx, areaID)
	if err != nil {
		return fmt.Errorf("reject area: %w", err)
	}
	if !ok {
		return apperr.Conflictf("area %s changed state concurrently", areaID)
	}

	s.invalidatePendingCount(ctx)
	return nil
}

// Delete removes an area from any state, compensating the frozen award if it
// was settled.
func (s *AreaService) Delete(ctx context.Context, areaID string) (*model.DeleteReportResponse, error) {
	area, err := s.areas.FindByID(ctx, areaID)
	if err != nil {
		return nil, err
	}

	resp := &model.DeleteReportResponse{ReportID: areaID}
	if area.PointsGiven {
		if _, err := s.ledger.Compensate(ctx, area.UserID, area.PointsAwarded); err != nil {
			return nil, err
		}
		if err := s.ledger.CompensateGroups(ctx, area.UserID, area.PointsAwarded); err != nil {
			log.Printf("area: group compensation for %s failed: %v", area.UserID, err)
		}
		resp.PointsDeducted = append(resp.PointsDeducted, model.Deduction{
			UserID: area.UserID, Points: area.PointsAwarded, Reason: "area credit reversed",
		})
	}

	if err := s.areas.Delete(ctx, areaID); err != nil {
		return nil, err
	}

	s.invalidateHeatmap(ctx)
	s.invalidatePendingCount(ctx)
	return resp, nil
}

// Get returns a single area cleaning.
func (s *AreaService) Get(ctx context.Context, areaID string) (*model.AreaCleaning, error) {
	return s.areas.FindByID(ctx, areaID)
}

// Active returns approved areas still inside their green-zone window.
func (s *AreaService) Active(ctx context.Context) ([]model.AreaCleaning, error) {
	return s.areas.Active(ctx)
}

func (s *AreaService) invalidateHeatmap(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateHeatmap(ctx); err != nil {
		log.Printf("cache: invalidate heatmap error: %v", err)
	}
}

func (s *AreaService) invalidatePendingCount(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePendingCount(ctx); err != nil {
		log.Printf("cache: invalidate pending count error: %v", err)
	}
}
