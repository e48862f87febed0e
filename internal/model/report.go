package model

import "time"

// Trash report lifecycle states. A rejected collection reverts the report to
// StatusReported, so "rejected" never appears as a stored status.
const (
	StatusReported  = "reported"
	StatusCollected = "collected"
)

// Location is a WGS84 coordinate with an optional reverse-geocoded address.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address *string `json:"address,omitempty"`
}

// TrashReport is a litter sighting moving through the verification lifecycle:
// reported → collected (pending admin review) → approved, or back to reported
// on rejection. Deletion is a terminal admin action from any state.
type TrashReport struct {
	ReportID           string     `json:"reportId"`
	Location           Location   `json:"location"`
	ImageURL           string     `json:"imageUrl"`
	ThumbnailURL       *string    `json:"thumbnailUrl,omitempty"`
	Status             string     `json:"status"`
	ReporterID         string     `json:"reporterId"`
	CollectorID        *string    `json:"collectorId,omitempty"`
	CollectionImageURL *string    `json:"collectionImageUrl,omitempty"`
	AIVerified         bool       `json:"aiVerified"`
	AdminVerified      bool       `json:"adminVerified"`
	// PointsAwarded is provisional while admin review is pending and locked
	// in once PointsGiven is set.
	PointsAwarded int        `json:"pointsAwarded"`
	PointsGiven   bool       `json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
	CollectedAt   *time.Time `json:"collectedAt,omitempty"`
}

// ReportRequest is the API request body for reporting litter. Location is a
// pointer so a missing field is distinguishable from a genuine (0,0) report.
type ReportRequest struct {
	Location     *Location `json:"location"`
	ImageURL     string    `json:"imageUrl"`
	ThumbnailURL *string   `json:"thumbnailUrl,omitempty"`
	// AIVerified is the advisory verdict from the external image verifier.
	// It never gates the report itself.
	AIVerified *bool `json:"aiVerified,omitempty"`
}

// CollectRequest is the API request body for submitting collection proof.
type CollectRequest struct {
	ProofImageURL string `json:"proofImageUrl"`
	// AIVerified is the external verifier's "looks clean" verdict. Absent or
	// false selects the lower manual-review point tier; it never blocks the
	// submission.
	AIVerified *bool `json:"aiVerified,omitempty"`
}

// CollectResponse is returned after a collection submission. No points are
// credited until an admin approves.
type CollectResponse struct {
	Report        *TrashReport `json:"report"`
	PointsPending int          `json:"pointsPending"`
	AIVerified    bool         `json:"aiVerified"`
}

// UpdateReportRequest is the admin request body for correcting report fields.
type UpdateReportRequest struct {
	Status   *string   `json:"status,omitempty"`
	Location *Location `json:"location,omitempty"`
	ImageURL *string   `json:"imageUrl,omitempty"`
}

// Deduction records one compensating deduction issued on deletion.
type Deduction struct {
	UserID string `json:"userId"`
	Points int    `json:"points"`
	Reason string `json:"reason"`
}

// DeleteReportResponse lists the compensating deductions applied when an
// admin removes a report.
type DeleteReportResponse struct {
	ReportID       string      `json:"reportId"`
	PointsDeducted []Deduction `json:"pointsDeducted"`
}
