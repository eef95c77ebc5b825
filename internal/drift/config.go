package drift

import "time"

// Config holds the tunables of the drift engine. Injected everywhere rather
// than read from globals so tests can override individual values.
type Config struct {
	VoidZoneRadiusKm      float64
	MaxDriftDistanceKm    float64
	AllowedInactivityDays int
	CooldownDays          int
	FirstDriftCost        int64
	BaseCost              int64
}

// DormantCutoff returns the latest last-mined timestamp a node may have and
// still count as dormant at time now.
func (c Config) DormantCutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -c.AllowedInactivityDays)
}

// Cooldown returns the cooldown duration between successful drifts.
func (c Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownDays) * 24 * time.Hour
}
