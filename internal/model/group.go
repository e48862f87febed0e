package model

import "time"

// Group holds derived point balances for a set of members. Group CRUD lives
// outside this engine; the engine only attributes settled collection deltas
// to the collector's groups and resets weekly balances on rollover.
type Group struct {
	GroupID      string    `json:"groupId"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	OwnerID      string    `json:"ownerId"`
	MemberCount  int       `json:"memberCount"`
	TotalPoints  int       `json:"totalPoints"`
	WeeklyPoints int       `json:"weeklyPoints"`
	CreatedAt    time.Time `json:"createdAt"`
}

// GroupRankingEntry is one row of the weekly group leaderboard.
type GroupRankingEntry struct {
	GroupID      string `json:"groupId"`
	Name         string `json:"name"`
	WeeklyPoints int    `json:"weeklyPoints"`
}
