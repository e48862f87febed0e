package model

import "time"

// User represents a participant with their settled point balances.
// Identity and the admin/banned flags come from the external identity
// provider; the engine only reads them.
type User struct {
	UserID        string              `json:"userId"`
	Email         string              `json:"email,omitempty"`
	Name          string              `json:"name,omitempty"`
	Picture       *string             `json:"picture,omitempty"`
	TotalPoints   int                 `json:"totalPoints"`
	MonthlyPoints int                 `json:"monthlyPoints"`
	WeeklyPoints  int                 `json:"weeklyPoints"`
	Medals        map[string][]string `json:"medals"` // {"2025-01": ["bronze", "silver"]}
	IsAdmin       bool                `json:"isAdmin"`
	IsBanned      bool                `json:"-"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// Balances is the point-balance triple the ledger maintains per user.
type Balances struct {
	Total   int `json:"totalPoints"`
	Monthly int `json:"monthlyPoints"`
	Weekly  int `json:"weeklyPoints"`
}

// UserResponse is the API response for user profile lookups.
type UserResponse struct {
	UserID        string              `json:"userId"`
	Name          string              `json:"name,omitempty"`
	Picture       *string             `json:"picture,omitempty"`
	TotalPoints   int                 `json:"totalPoints"`
	MonthlyPoints int                 `json:"monthlyPoints"`
	WeeklyPoints  int                 `json:"weeklyPoints"`
	Medals        map[string][]string `json:"medals"`
}

// UserRankingEntry is one row of the weekly user leaderboard.
type UserRankingEntry struct {
	UserID       string  `json:"userId"`
	Name         string  `json:"name"`
	Picture      *string `json:"picture,omitempty"`
	WeeklyPoints int     `json:"weeklyPoints"`
}

// ResetPointsRequest is the admin request body for resetting or adjusting a
// user's balances. Values clamp at zero; the current month's medal set is
// re-derived from the new monthly balance.
type ResetPointsRequest struct {
	TotalPoints   int  `json:"totalPoints"`
	MonthlyPoints int  `json:"monthlyPoints"`
	WeeklyPoints  int  `json:"weeklyPoints"`
	ClearMedals   bool `json:"clearMedals"`
}
