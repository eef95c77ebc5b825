package service

import (
	"testing"

	"piquiz_backend/internal/domain"
)

func TestMineReward(t *testing.T) {
	cases := []struct {
		rarity domain.Rarity
		want   int64
	}{
		{domain.RarityCommon, 10},
		{domain.RarityUncommon, 25},
		{domain.RarityRare, 62},
		{domain.RarityEpic, 156},
		{domain.RarityLegendary, 390},
	}

	for _, tc := range cases {
		if got := MineReward(10, tc.rarity); got != tc.want {
			t.Fatalf("MineReward(10, %s) = %d; want %d", tc.rarity, got, tc.want)
		}
	}
}
