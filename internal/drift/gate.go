package drift

import "time"

// Status is the drift gate state exposed to both the authorization path and
// client UI hinting. Clients are never trusted: the server recomputes this
// from source-of-truth data on every request.
type Status string

const (
	StatusReady             Status = "READY"
	StatusOnCooldown        Status = "ON_COOLDOWN"
	StatusNoLocation        Status = "NO_LOCATION"
	StatusNoEligibleNodes   Status = "NO_ELIGIBLE_NODES"
	StatusInsufficientFunds Status = "INSUFFICIENT_FUNDS"
	StatusContentAbundant   Status = "CONTENT_ABUNDANT"
)

// GateInput is everything the gate decision depends on.
type GateInput struct {
	Now           time.Time
	HasLocation   bool
	LastDriftAt   *time.Time // nil if the user never drifted
	NodesInVoid   int        // nodes within the void-zone radius of the user
	EligibleCount int        // candidates surviving dormancy+distance filters
	CheapestCost  int64      // cost of the cheapest candidate (EligibleCount > 0)
	UserBalance   int64
}

// Decision is the gate outcome. CooldownEndsAt is set only for ON_COOLDOWN.
type Decision struct {
	Status         Status     `json:"status"`
	CooldownEndsAt *time.Time `json:"cooldown_ends_at,omitempty"`
}

// Evaluate applies the gate transition rules in strict order; the first rule
// that matches wins. Pure function: no side effects, re-derivable from the
// same inputs.
func Evaluate(cfg Config, in GateInput) Decision {
	if !in.HasLocation {
		return Decision{Status: StatusNoLocation}
	}

	if in.LastDriftAt != nil {
		ends := in.LastDriftAt.Add(cfg.Cooldown())
		if in.Now.Before(ends) {
			return Decision{Status: StatusOnCooldown, CooldownEndsAt: &ends}
		}
	}

	if in.NodesInVoid > 0 {
		return Decision{Status: StatusContentAbundant}
	}

	if in.EligibleCount == 0 {
		return Decision{Status: StatusNoEligibleNodes}
	}

	if in.CheapestCost > in.UserBalance {
		return Decision{Status: StatusInsufficientFunds}
	}

	return Decision{Status: StatusReady}
}
