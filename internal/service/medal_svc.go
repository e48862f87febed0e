package service

// Medal tiers in ascending threshold order. A user holds every tier whose
// threshold their monthly points meet, not just the highest, because the
// historical medal display shows all tiers earned in a month.
var medalTiers = []struct {
	Name      string
	Threshold int
}{
	{"bronze", 30},
	{"silver", 75},
	{"gold", 150},
	{"platinum", 300},
	{"diamond", 500},
}

// MedalService evaluates monthly medal tiers. Pure; persistence of the
// per-month medal sets lives in the user repository.
type MedalService struct{}

func NewMedalService() *MedalService {
	return &MedalService{}
}

// Evaluate returns all tier names whose thresholds the given monthly point
// balance meets, in ascending order. Empty slice below the lowest threshold.
func (s *MedalService) Evaluate(monthlyPoints int) []string {
	var tiers []string
	for _, t := range medalTiers {
		if monthlyPoints >= t.Threshold {
			tiers = append(tiers, t.Name)
		}
	}
	return tiers
}

// NewlyEarned returns the tiers present in after but not in before, so a
// caller can emit one medal_earned event per crossing without re-notifying
// on every later point gain within the same tier.
func (s *MedalService) NewlyEarned(before, after []string) []string {
	held := make(map[string]bool, len(before))
	for _, t := range before {
		held[t] = true
	}

	var earned []string
	for _, t := range after {
		if !held[t] {
			earned = append(earned, t)
		}
	}
	return earned
}

// Highest returns the highest tier in the set, or "" when the set is empty.
func (s *MedalService) Highest(tiers []string) string {
	if len(tiers) == 0 {
		return ""
	}
	return tiers[len(tiers)-1]
}
