package repository

import (
	"context"
	"errors"
	"time"

	"piquiz_backend/internal/domain"
	"piquiz_backend/internal/geo"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrRaceLost means a conditional update matched zero rows: another request
// changed the row between read and commit.
var ErrRaceLost = errors.New("race lost")

type NodeRepository struct {
	db *pgxpool.Pool
}

func NewNodeRepository(db *pgxpool.Pool) *NodeRepository {
	return &NodeRepository{db: db}
}

const nodeColumns = `id, COALESCE(name, ''), latitude, longitude, rarity, last_mined_at, open_for_mining, activated_at, activated_by`

func scanNode(row pgx.Row) (*domain.Node, error) {
	var n domain.Node
	var rarity string
	if err := row.Scan(
		&n.ID,
		&n.Name,
		&n.Latitude,
		&n.Longitude,
		&rarity,
		&n.LastMinedAt,
		&n.OpenForMining,
		&n.ActivatedAt,
		&n.ActivatedBy,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	n.Rarity, _ = domain.ParseRarity(rarity)
	return &n, nil
}

func (r *NodeRepository) GetByID(ctx context.Context, id int64) (*domain.Node, error) {
	return scanNode(r.db.QueryRow(ctx,
		`SELECT `+nodeColumns+` FROM nodes WHERE id = $1`, id))
}

// CountWithinRadius counts open nodes within radiusKm of loc (void-zone
// check). Bounding box in SQL, exact haversine on the survivors.
func (r *NodeRepository) CountWithinRadius(ctx context.Context, loc geo.Point, radiusKm float64) (int, error) {
	nodes, err := r.queryBox(ctx, loc, radiusKm, `open_for_mining`)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, n := range nodes {
		if geo.DistanceKm(loc, geo.Point{Latitude: n.Latitude, Longitude: n.Longitude}) <= radiusKm {
			count++
		}
	}
	return count, nil
}

// FindDormantWithin returns open, not-yet-activated nodes inside the bounding
// box of radiusKm around loc whose last activity is at or before cutoff. The
// exact distance filter happens in the drift package, which needs the
// per-node distance anyway for pricing.
func (r *NodeRepository) FindDormantWithin(ctx context.Context, loc geo.Point, radiusKm float64, cutoff time.Time) ([]domain.Node, error) {
	return r.queryBox(ctx, loc, radiusKm,
		`open_for_mining AND activated_at IS NULL AND last_mined_at <= $5`, cutoff)
}

func (r *NodeRepository) queryBox(ctx context.Context, loc geo.Point, radiusKm float64, cond string, extra ...any) ([]domain.Node, error) {
	minLat, maxLat, minLon, maxLon := geo.BoundingBox(loc, radiusKm)

	args := append([]any{minLat, maxLat, minLon, maxLon}, extra...)
	rows, err := r.db.Query(ctx,
		`SELECT `+nodeColumns+`
		 FROM nodes
		 WHERE latitude BETWEEN $1 AND $2
		   AND longitude BETWEEN $3 AND $4
		   AND `+cond, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *n)
	}
	return res, rows.Err()
}

// ActivateWithTx records the drift on the node. The update is conditioned on
// the node still being open, dormant past cutoff, and not already activated,
// so of two racing drifts against the same node exactly one sees a row. The
// node's activity clock restarts at now so it is immediately minable again.
func (r *NodeRepository) ActivateWithTx(ctx context.Context, tx pgx.Tx, nodeID, userID int64, cutoff, now time.Time) error {
	result, err := tx.Exec(ctx,
		`UPDATE nodes
		 SET activated_at = $1, activated_by = $2, last_mined_at = $1
		 WHERE id = $3
		   AND open_for_mining
		   AND activated_at IS NULL
		   AND last_mined_at <= $4`,
		now, userID, nodeID, cutoff,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrRaceLost
	}
	return nil
}

// TouchMinedWithTx refreshes the node's last-mined timestamp for a mining
// action. Conditioned on the node being open.
func (r *NodeRepository) TouchMinedWithTx(ctx context.Context, tx pgx.Tx, nodeID int64, now time.Time) error {
	result, err := tx.Exec(ctx,
		`UPDATE nodes SET last_mined_at = $1 WHERE id = $2 AND open_for_mining`,
		now, nodeID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Create inserts a node (used by the seeding tool; production nodes come from
// the spawning workflows).
func (r *NodeRepository) Create(ctx context.Context, n *domain.Node) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO nodes (name, latitude, longitude, rarity, last_mined_at, open_for_mining)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		n.Name, n.Latitude, n.Longitude, string(n.Rarity), n.LastMinedAt, n.OpenForMining,
	).Scan(&n.ID)
}
