package drift

import (
	"testing"
	"time"
)

func TestEvaluatePrecedence(t *testing.T) {
	cfg := testConfig()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-24 * time.Hour)  // inside 3-day cooldown
	expired := now.Add(-96 * time.Hour) // outside cooldown

	cases := []struct {
		name string
		in   GateInput
		want Status
	}{
		{
			"no location wins over everything",
			GateInput{Now: now, HasLocation: false, LastDriftAt: &recent, NodesInVoid: 5},
			StatusNoLocation,
		},
		{
			"cooldown wins over void zone",
			GateInput{Now: now, HasLocation: true, LastDriftAt: &recent, NodesInVoid: 5},
			StatusOnCooldown,
		},
		{
			"void zone wins over empty set",
			GateInput{Now: now, HasLocation: true, LastDriftAt: &expired, NodesInVoid: 1, EligibleCount: 0},
			StatusContentAbundant,
		},
		{
			"empty set wins over funds",
			GateInput{Now: now, HasLocation: true, EligibleCount: 0, UserBalance: 0},
			StatusNoEligibleNodes,
		},
		{
			"insufficient funds",
			GateInput{Now: now, HasLocation: true, EligibleCount: 2, CheapestCost: 500, UserBalance: 499},
			StatusInsufficientFunds,
		},
		{
			"ready",
			GateInput{Now: now, HasLocation: true, LastDriftAt: &expired, EligibleCount: 2, CheapestCost: 500, UserBalance: 500},
			StatusReady,
		},
		{
			"never drifted is not on cooldown",
			GateInput{Now: now, HasLocation: true, LastDriftAt: nil, EligibleCount: 1, CheapestCost: 75, UserBalance: 100},
			StatusReady,
		},
	}

	for _, tc := range cases {
		got := Evaluate(cfg, tc.in)
		if got.Status != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, got.Status, tc.want)
		}
	}
}

func TestEvaluateCooldownEndsAt(t *testing.T) {
	cfg := testConfig()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	last := now.Add(-time.Hour)

	got := Evaluate(cfg, GateInput{Now: now, HasLocation: true, LastDriftAt: &last})
	if got.Status != StatusOnCooldown {
		t.Fatalf("status = %s; want ON_COOLDOWN", got.Status)
	}
	want := last.Add(cfg.Cooldown())
	if got.CooldownEndsAt == nil || !got.CooldownEndsAt.Equal(want) {
		t.Fatalf("cooldown ends at %v; want %v", got.CooldownEndsAt, want)
	}
}

func TestEvaluateCooldownBoundary(t *testing.T) {
	cfg := testConfig()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	// exactly cooldown ago: not before ends, so not on cooldown
	last := now.Add(-cfg.Cooldown())

	got := Evaluate(cfg, GateInput{Now: now, HasLocation: true, LastDriftAt: &last, EligibleCount: 1, CheapestCost: 10, UserBalance: 10})
	if got.Status != StatusReady {
		t.Fatalf("status at exact cooldown boundary = %s; want READY", got.Status)
	}
}

// Every input combination must land in exactly one of the six states.
func TestEvaluateTotal(t *testing.T) {
	cfg := testConfig()
	now := time.Now()
	recent := now.Add(-time.Hour)

	lastVals := []*time.Time{nil, &recent}
	for _, hasLoc := range []bool{false, true} {
		for _, last := range lastVals {
			for _, void := range []int{0, 3} {
				for _, eligible := range []int{0, 2} {
					for _, balance := range []int64{0, 1 << 30} {
						in := GateInput{
							Now: now, HasLocation: hasLoc, LastDriftAt: last,
							NodesInVoid: void, EligibleCount: eligible,
							CheapestCost: 100, UserBalance: balance,
						}
						got := Evaluate(cfg, in)
						switch got.Status {
						case StatusReady, StatusOnCooldown, StatusNoLocation,
							StatusNoEligibleNodes, StatusInsufficientFunds, StatusContentAbundant:
						default:
							t.Fatalf("unexpected status %q for %+v", got.Status, in)
						}
					}
				}
			}
		}
	}
}
