package service

import (
	"context"
	"fmt"
	"log"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/model"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/repository"
)

// NotifyService emits engine events into the notification outbox. The
// external dispatcher turns rows into push messages; a failed insert is
// logged and swallowed because notification loss must never fail a
// settlement.
type NotifyService struct {
	repo *repository.NotificationRepo
}

func NewNotifyService(repo *repository.NotificationRepo) *NotifyService {
	return &NotifyService{repo: repo}
}

func (s *NotifyService) emit(ctx context.Context, userID, eventType, title, message string) {
	if s.repo == nil {
		return
	}
	n := &model.Notification{
		UserID:  userID,
		Type:    eventType,
		Title:   title,
		Message: message,
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		log.Printf("notify: emit %s for %s failed: %v", eventType, userID, err)
		return
	}
	log.Printf("notify: %s emitted for %s", eventType, userID)
}

// MedalEarned announces a newly crossed medal tier, once per crossing.
func (s *NotifyService) MedalEarned(ctx context.Context, userID, tier, monthKey string) {
	s.emit(ctx, userID, model.EventMedalEarned,
		"Medal earned",
		fmt.Sprintf("You earned the %s medal for %s", tier, monthKey))
}

// CollectionApproved announces a settled collection.
func (s *NotifyService) CollectionApproved(ctx context.Context, userID string, points int) {
	s.emit(ctx, userID, model.EventCollectionApproved,
		"Collection approved",
		fmt.Sprintf("Your trash collection was verified. %d points credited", points))
}

// AreaApproved announces a settled area cleaning.
func (s *NotifyService) AreaApproved(ctx context.Context, userID string, points int) {
	s.emit(ctx, userID, model.EventAreaApproved,
		"Area cleaning approved",
		fmt.Sprintf("Your cleaned area was verified. %d points credited", points))
}
