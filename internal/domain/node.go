package domain

import (
	"fmt"
	"time"
)

// Rarity classifies a node and drives its drift cost multiplier.
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityUncommon  Rarity = "Uncommon"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
)

// TierIndex returns the zero-based tier of the rarity (Common=0 .. Legendary=4).
func (r Rarity) TierIndex() int {
	switch r {
	case RarityCommon:
		return 0
	case RarityUncommon:
		return 1
	case RarityRare:
		return 2
	case RarityEpic:
		return 3
	case RarityLegendary:
		return 4
	default:
		return 0
	}
}

// ParseRarity validates a rarity string from storage or input.
func ParseRarity(s string) (Rarity, error) {
	switch Rarity(s) {
	case RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary:
		return Rarity(s), nil
	}
	return "", fmt.Errorf("unknown rarity %q", s)
}

// Node is a real-world-anchored mining location. Nodes are created by spawning
// workflows outside this service; drift only flips their activation state.
type Node struct {
	ID            int64      `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Latitude      float64    `db:"latitude" json:"latitude"`
	Longitude     float64    `db:"longitude" json:"longitude"`
	Rarity        Rarity     `db:"rarity" json:"rarity"`
	LastMinedAt   time.Time  `db:"last_mined_at" json:"last_mined_at"`
	OpenForMining bool       `db:"open_for_mining" json:"open_for_mining"`
	ActivatedAt   *time.Time `db:"activated_at" json:"activated_at,omitempty"`
	ActivatedBy   *int64     `db:"activated_by" json:"activated_by,omitempty"`
}

// DriftCandidate is a transient projection of a node for one eligibility query.
// Never persisted.
type DriftCandidate struct {
	Node       Node    `json:"node"`
	DistanceKm float64 `json:"distance_km"`
	Cost       int64   `json:"cost"`
	CanDrift   bool    `json:"can_drift"`
}
