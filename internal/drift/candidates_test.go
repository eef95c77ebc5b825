package drift

import (
	"testing"
	"time"

	"piquiz_backend/internal/domain"
	"piquiz_backend/internal/geo"
)

func node(id int64, lat, lon float64, rarity domain.Rarity) domain.Node {
	return domain.Node{
		ID:            id,
		Name:          "node",
		Latitude:      lat,
		Longitude:     lon,
		Rarity:        rarity,
		LastMinedAt:   time.Now().AddDate(0, 0, -30),
		OpenForMining: true,
	}
}

func TestBuildCandidatesOrdering(t *testing.T) {
	cfg := testConfig()
	loc := geo.Point{Latitude: 48.0, Longitude: 2.0}

	nodes := []domain.Node{
		node(3, 48.5, 2.0, domain.RarityCommon), // ~55 km
		node(1, 48.2, 2.0, domain.RarityCommon), // ~22 km
		node(2, 48.2, 2.0, domain.RarityRare),   // ~22 km, pricier
	}

	got := BuildCandidates(cfg, nodes, loc, 1, 1_000_000)
	if len(got) != 3 {
		t.Fatalf("got %d candidates; want 3", len(got))
	}

	// nearest first; same distance ordered by cost
	if got[0].Node.ID != 1 || got[1].Node.ID != 2 || got[2].Node.ID != 3 {
		t.Fatalf("order = [%d %d %d]; want [1 2 3]", got[0].Node.ID, got[1].Node.ID, got[2].Node.ID)
	}
}

func TestBuildCandidatesTieBreakByID(t *testing.T) {
	cfg := testConfig()
	loc := geo.Point{Latitude: 10, Longitude: 10}

	// identical position and rarity: distance and cost tie, id decides
	nodes := []domain.Node{
		node(9, 10.1, 10, domain.RarityCommon),
		node(4, 10.1, 10, domain.RarityCommon),
	}

	got := BuildCandidates(cfg, nodes, loc, 2, 1_000_000)
	if got[0].Node.ID != 4 || got[1].Node.ID != 9 {
		t.Fatalf("tie-break order = [%d %d]; want [4 9]", got[0].Node.ID, got[1].Node.ID)
	}
}

func TestBuildCandidatesDropsOutOfRange(t *testing.T) {
	cfg := testConfig()
	loc := geo.Point{Latitude: 0, Longitude: 0}

	nodes := []domain.Node{
		node(1, 0.5, 0, domain.RarityCommon), // ~55 km, in range
		node(2, 2.0, 0, domain.RarityCommon), // ~222 km, out
	}

	got := BuildCandidates(cfg, nodes, loc, 1, 1_000_000)
	if len(got) != 1 || got[0].Node.ID != 1 {
		t.Fatalf("expected only node 1 in range, got %+v", got)
	}
}

func TestBuildCandidatesAffordability(t *testing.T) {
	cfg := testConfig()
	loc := geo.Point{Latitude: 0, Longitude: 0}

	nodes := []domain.Node{
		node(1, 0.1, 0, domain.RarityCommon),
		node(2, 0.1, 0, domain.RarityLegendary),
	}

	got := BuildCandidates(cfg, nodes, loc, 1, 500)
	for _, c := range got {
		if c.CanDrift != (c.Cost <= 500) {
			t.Fatalf("node %d: can_drift=%v with cost=%d balance=500", c.Node.ID, c.CanDrift, c.Cost)
		}
	}
	if got[0].CanDrift == false {
		t.Fatalf("common node at ~11 km should be affordable at 500, cost=%d", got[0].Cost)
	}
	if got[1].CanDrift {
		t.Fatalf("legendary node should not be affordable at 500, cost=%d", got[1].Cost)
	}
}

func TestCheapest(t *testing.T) {
	if Cheapest(nil) != 0 {
		t.Fatal("Cheapest(nil) should be 0")
	}
	cs := []domain.DriftCandidate{{Cost: 300}, {Cost: 120}, {Cost: 700}}
	if got := Cheapest(cs); got != 120 {
		t.Fatalf("Cheapest = %d; want 120", got)
	}
}
