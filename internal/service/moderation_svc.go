package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/model"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/repository"
)

const moderationQueueLimit = 200

// ModerationService serves the admin review queues. Queue membership is
// derived on read from submission state; there is no separate queue table to
// drift out of sync.
type ModerationService struct {
	reports *repository.ReportRepo
	areas   *repository.AreaRepo
	cache   *CacheService
}

func NewModerationService(reports *repository.ReportRepo, areas *repository.AreaRepo, cache *CacheService) *ModerationService {
	return &ModerationService{reports: reports, areas: areas, cache: cache}
}

// PendingCollections returns collections awaiting review, oldest first,
// annotated with collector identity.
func (s *ModerationService) PendingCollections(ctx context.Context) ([]model.PendingCollection, error) {
	return s.reports.PendingCollections(ctx, moderationQueueLimit)
}

// PendingAreas returns area cleanings awaiting approval.
func (s *ModerationService) PendingAreas(ctx context.Context) ([]model.PendingArea, error) {
	return s.areas.PendingAreas(ctx, moderationQueueLimit)
}

// PendingCount is the moderation badge: COUNT queries behind a short cache,
// invalidated on every moderation action.
func (s *ModerationService) PendingCount(ctx context.Context) (*model.PendingCountResponse, error) {
	if s.cache != nil {
		cached, err := s.cache.GetPendingCount(ctx)
		if err != nil {
			log.Printf("cache: pending count read error: %v", err)
		} else if cached != nil {
			var resp model.PendingCountResponse
			if err := json.Unmarshal(cached, &resp); err == nil {
				return &resp, nil
			} else {
				log.Printf("cache: pending count decode error: %v", err)
			}
		}
	}

	collections, err := s.reports.CountPendingCollections(ctx)
	if err != nil {
		return nil, err
	}
	areas, err := s.areas.CountPending(ctx)
	if err != nil {
		return nil, err
	}

	resp := &model.PendingCountResponse{
		PendingCollections: collections,
		PendingAreas:       areas,
		TotalPending:       collections + areas,
	}

	if s.cache != nil {
		if err := s.cache.SetPendingCount(ctx, resp); err != nil {
			log.Printf("cache: pending count write error: %v", err)
		}
	}
	return resp, nil
}
