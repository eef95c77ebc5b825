package drift

import (
	"sort"

	"piquiz_backend/internal/domain"
	"piquiz_backend/internal/geo"
)

// BuildCandidates projects dormant in-range nodes into drift candidates for a
// user at loc: computes great-circle distance, prices each node with the
// user's lifetime drift count, and marks affordability. Nodes beyond
// MaxDriftDistanceKm are dropped (the caller's SQL prefilter is a bounding
// box, wider than the exact circle). The result is ordered nearest first,
// tie-broken by ascending cost then node id, so repeated queries with the
// same inputs return the same sequence.
func BuildCandidates(cfg Config, nodes []domain.Node, loc geo.Point, driftCount int, balance int64) []domain.DriftCandidate {
	candidates := make([]domain.DriftCandidate, 0, len(nodes))
	for _, n := range nodes {
		d := geo.DistanceKm(loc, geo.Point{Latitude: n.Latitude, Longitude: n.Longitude})
		if d > cfg.MaxDriftDistanceKm {
			continue
		}
		cost := Cost(cfg, driftCount, d, n.Rarity)
		candidates = append(candidates, domain.DriftCandidate{
			Node:       n,
			DistanceKm: d,
			Cost:       cost,
			CanDrift:   cost <= balance,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.DistanceKm != b.DistanceKm {
			return a.DistanceKm < b.DistanceKm
		}
		if a.Cost != b.Cost {
			return a.Cost < b.Cost
		}
		return a.Node.ID < b.Node.ID
	})

	return candidates
}

// Cheapest returns the lowest cost among candidates, or 0 for an empty set.
func Cheapest(candidates []domain.DriftCandidate) int64 {
	if len(candidates) == 0 {
		return 0
	}
	min := candidates[0].Cost
	for _, c := range candidates[1:] {
		if c.Cost < min {
			min = c.Cost
		}
	}
	return min
}
