package model

import "time"

// AreaCleaning is a larger cleaned zone awaiting admin approval. Rejection
// removes the record entirely; the user may resubmit as a new record.
type AreaCleaning struct {
	AreaID         string      `json:"areaId"`
	UserID         string      `json:"userId"`
	CenterLocation Location    `json:"centerLocation"`
	PolygonCoords  [][]float64 `json:"polygonCoords"` // [[lat, lng], ...]
	AreaSize       float64     `json:"areaSize"`      // square meters
	ImageURL       string      `json:"imageUrl"`
	AIVerified     bool        `json:"aiVerified"`
	AdminApproved  bool        `json:"adminApproved"`
	PointsAwarded  int         `json:"pointsAwarded"`
	PointsGiven    bool        `json:"-"`
	ExpiresAt      time.Time   `json:"expiresAt"` // green-zone visibility window
	CreatedAt      time.Time   `json:"createdAt"`
}

// AreaRequest is the API request body for submitting a cleaned area.
type AreaRequest struct {
	CenterLocation Location    `json:"centerLocation"`
	PolygonCoords  [][]float64 `json:"polygonCoords"`
	AreaSize       float64     `json:"areaSize"`
	ImageURL       string      `json:"imageUrl"`
}

// AreaResponse is returned after an area submission. Points stay pending
// until an admin approves.
type AreaResponse struct {
	Area          *AreaCleaning `json:"area"`
	PointsPending int           `json:"pointsPending"`
}
