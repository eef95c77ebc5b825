package drift

import (
	"math"

	"piquiz_backend/internal/domain"
)

// Pricing factors. Each rarity tier costs 2.5x the previous one; distance adds
// 50% per 100 km; every prior lifetime drift adds 15% (uncapped).
const (
	rarityStep         = 2.5
	distancePer100Km   = 0.5
	usagePenaltyPerUse = 0.15
)

// RarityMultiplier returns 2.5^tier for the given rarity.
func RarityMultiplier(r domain.Rarity) float64 {
	return math.Pow(rarityStep, float64(r.TierIndex()))
}

// Cost prices a drift for a user with driftCount prior drifts, targeting a node
// of the given rarity at distanceKm from the user. The very first drift is a
// flat introductory price regardless of distance and rarity. Deterministic:
// identical inputs always produce the identical integer (round half away from
// zero, matching math.Round).
func Cost(cfg Config, driftCount int, distanceKm float64, rarity domain.Rarity) int64 {
	if driftCount == 0 {
		return cfg.FirstDriftCost
	}

	distanceFactor := 1 + (distanceKm/100)*distancePer100Km
	usagePenalty := 1 + float64(driftCount)*usagePenaltyPerUse

	return int64(math.Round(float64(cfg.BaseCost) * RarityMultiplier(rarity) * distanceFactor * usagePenalty))
}
