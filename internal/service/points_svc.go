package service

import "math"

// Point award policy. All amounts are fixed here so compensation on deletion
// can replay the exact awarded value stored on the submission, never a
// recomputed one.
const (
	// ReportPoints is credited immediately on report creation. Reporting is
	// not admin-gated: a fabricated report is self-correcting (nobody will
	// collect it), while a fabricated collection is the fraud vector that
	// requires review.
	ReportPoints = 5

	// Collection tiers, locked in only on admin approval.
	CollectionPointsVerified = 25 // external verifier confirmed the spot is clean
	CollectionPointsManual   = 15 // no verdict, or verifier unavailable

	// Area awards: AreaPointsRate per full AreaPointsUnit square meters,
	// floored at AreaPointsMinimum.
	AreaPointsMinimum = 10
	AreaPointsUnit    = 100.0
	AreaPointsRate    = 2
)

// PointsService computes provisional and settled point amounts. It is pure;
// crediting happens in LedgerService.
type PointsService struct{}

func NewPointsService() *PointsService {
	return &PointsService{}
}

// CollectionPoints returns the provisional award for a collection given the
// external verifier's verdict. A missing verdict counts as unverified.
func (s *PointsService) CollectionPoints(aiVerified bool) int {
	if aiVerified {
		return CollectionPointsVerified
	}
	return CollectionPointsManual
}

// AreaPoints returns the award for a cleaned area of the given size in square
// meters: max(minimum, floor(size/unit) * rate). Monotonic non-decreasing in
// size.
func (s *PointsService) AreaPoints(areaSize float64) int {
	if areaSize < 0 {
		areaSize = 0
	}
	points := int(math.Floor(areaSize/AreaPointsUnit)) * AreaPointsRate
	if points < AreaPointsMinimum {
		return AreaPointsMinimum
	}
	return points
}
