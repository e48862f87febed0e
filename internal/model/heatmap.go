package model

// HeatPoint is one weighted point on the litter-density map. Positive
// intensity marks unresolved litter, negative marks a recently cleaned zone.
type HeatPoint struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Intensity float64 `json:"intensity"`
}

// HeatmapResponse is the API response for the density map.
type HeatmapResponse struct {
	TrashPoints []HeatPoint `json:"trashPoints"`
	CleanAreas  []HeatPoint `json:"cleanAreas"`
	GeneratedAt string      `json:"generatedAt"`
}

// WeeklyStatsResponse is the API response for city-wide weekly activity.
type WeeklyStatsResponse struct {
	Reports     int `json:"reports"`
	Collections int `json:"collections"`
}

// PendingCountResponse is the moderation badge summary. Counts come from
// COUNT queries, never from materialised lists.
type PendingCountResponse struct {
	PendingCollections int `json:"pendingCollections"`
	PendingAreas       int `json:"pendingAreas"`
	TotalPending       int `json:"totalPending"`
}
