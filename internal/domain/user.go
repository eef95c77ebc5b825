package domain

import "time"

type User struct {
	ID          int64      `db:"id" json:"id"`
	PiID        string     `db:"pi_id" json:"pi_id"`
	Username    string     `db:"username" json:"username"`
	SharePoints int64      `db:"share_points" json:"share_points"`
	DriftCount  int        `db:"drift_count" json:"drift_count"`
	LastDriftAt *time.Time `db:"last_drift_at" json:"last_drift_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}
