package model

import "time"

// Notification event types emitted by the engine. The external dispatcher
// turns outbox rows into user-visible push messages.
const (
	EventMedalEarned        = "medal_earned"
	EventCollectionApproved = "collection_approved"
	EventAreaApproved       = "area_approved"
)

// Notification is one outbox row for the external notification dispatcher.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
