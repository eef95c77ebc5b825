package repository

import (
	"context"
	"errors"
	"time"

	"piquiz_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCooldownActive    = errors.New("drift cooldown active")
	ErrNotFound          = errors.New("not found")
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, pi_id, COALESCE(username, ''), share_points, drift_count, last_drift_at, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.PiID,
		&u.Username,
		&u.SharePoints,
		&u.DriftCount,
		&u.LastDriftAt,
		&u.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByPiID(ctx context.Context, piID string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE pi_id = $1`, piID))
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	// Starting balance for new pioneers
	const initialSharePoints = 100

	return r.db.QueryRow(ctx,
		`INSERT INTO users (pi_id, username, share_points)
		 VALUES ($1, $2, $3)
		 RETURNING id, share_points, created_at`,
		u.PiID, u.Username, initialSharePoints,
	).Scan(&u.ID, &u.SharePoints, &u.CreatedAt)
}

// ApplyDriftWithTx charges the drift cost and records the drift on the user
// row in one conditional update. Both preconditions are re-checked at commit
// time, not query time: the balance must still cover the cost, and the user
// must still be outside the cooldown window (cooldownCutoff = now - cooldown).
// Two same-user drifts serializing on the row lock therefore resolve to one
// success even when they target different nodes: the loser re-evaluates the
// predicate against the winner's committed last_drift_at and matches zero
// rows.
func (r *UserRepository) ApplyDriftWithTx(ctx context.Context, tx pgx.Tx, userID, cost int64, now, cooldownCutoff time.Time) (newBalance int64, err error) {
	err = tx.QueryRow(ctx,
		`UPDATE users
		 SET share_points = share_points - $1,
		     drift_count = drift_count + 1,
		     last_drift_at = $2
		 WHERE id = $3
		   AND share_points >= $1
		   AND (last_drift_at IS NULL OR last_drift_at <= $4)
		 RETURNING share_points`,
		cost, now, userID, cooldownCutoff,
	).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var balance int64
			var lastDriftAt *time.Time
			scanErr := tx.QueryRow(ctx,
				`SELECT share_points, last_drift_at FROM users WHERE id = $1`, userID,
			).Scan(&balance, &lastDriftAt)
			if scanErr != nil {
				return 0, ErrNotFound
			}
			if lastDriftAt != nil && lastDriftAt.After(cooldownCutoff) {
				return 0, ErrCooldownActive
			}
			return 0, ErrInsufficientFunds
		}
		return 0, err
	}
	return newBalance, nil
}

// CreditWithTx adds share points within an existing transaction.
func (r *UserRepository) CreditWithTx(ctx context.Context, tx pgx.Tx, userID, amount int64) (newBalance int64, err error) {
	err = tx.QueryRow(ctx,
		`UPDATE users SET share_points = share_points + $1 WHERE id = $2 RETURNING share_points`,
		amount, userID,
	).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return newBalance, nil
}

// LeaderboardEntry is a row of the share points leaderboard.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	Username    string `json:"username"`
	SharePoints int64  `json:"share_points"`
	DriftCount  int    `json:"drift_count"`
}

// GetTopBySharePoints returns users ordered by balance desc.
func (r *UserRepository) GetTopBySharePoints(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT COALESCE(username, ''), share_points, drift_count
		 FROM users
		 ORDER BY share_points DESC, id ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.SharePoints, &e.DriftCount); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		res = append(res, e)
	}
	return res, rows.Err()
}
