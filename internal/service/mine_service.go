package service

import (
	"context"
	"errors"
	"time"

	"piquiz_backend/internal/domain"
	"piquiz_backend/internal/drift"
	"piquiz_backend/internal/geo"
	"piquiz_backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNodeClosed   = errors.New("node closed for mining")
	ErrOutOfRange   = errors.New("node out of mining range")
	ErrMineCooldown = errors.New("node was mined too recently")
)

// Node-level mining cooldown. Keeps one user from draining a node in a loop;
// independent from the drift cooldown.
const nodeMineCooldown = time.Hour

// MineResult is returned on a successful mining action.
type MineResult struct {
	NodeID     int64  `json:"node_id"`
	Reward     int64  `json:"reward"`
	NewBalance int64  `json:"new_balance"`
	Rarity     string `json:"rarity"`
}

// MineService awards share points for mining an open node the user is
// physically near. Mining refreshes the node's activity clock, which is what
// keeps it out of the drift-eligible dormant set.
type MineService struct {
	db         *pgxpool.Pool
	users      *repository.UserRepository
	nodes      *repository.NodeRepository
	ledger     *repository.TransactionRepository
	rangeKm    float64
	baseReward int64
	now        func() time.Time
}

func NewMineService(db *pgxpool.Pool, rangeKm float64, baseReward int64) *MineService {
	return &MineService{
		db:         db,
		users:      repository.NewUserRepository(db),
		nodes:      repository.NewNodeRepository(db),
		ledger:     repository.NewTransactionRepository(db),
		rangeKm:    rangeKm,
		baseReward: baseReward,
		now:        time.Now,
	}
}

// MineReward scales the base reward by the node's rarity multiplier.
func MineReward(base int64, rarity domain.Rarity) int64 {
	return int64(float64(base) * drift.RarityMultiplier(rarity))
}

// Mine validates proximity and node state, then credits the reward and
// refreshes the node inside one transaction.
func (s *MineService) Mine(ctx context.Context, userID, nodeID int64, loc geo.Point) (*MineResult, error) {
	if err := loc.Validate(); err != nil {
		return nil, ErrInvalidInput
	}

	node, err := s.nodes.GetByID(ctx, nodeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNodeNotFound
		}
		return nil, err
	}

	if !node.OpenForMining {
		return nil, ErrNodeClosed
	}

	if geo.DistanceKm(loc, geo.Point{Latitude: node.Latitude, Longitude: node.Longitude}) > s.rangeKm {
		return nil, ErrOutOfRange
	}

	now := s.now()
	if now.Sub(node.LastMinedAt) < nodeMineCooldown {
		return nil, ErrMineCooldown
	}

	reward := MineReward(s.baseReward, node.Rarity)

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	newBalance, err := s.users.CreditWithTx(ctx, tx, userID, reward)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.nodes.TouchMinedWithTx(ctx, tx, nodeID, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNodeClosed
		}
		return nil, err
	}

	ledgerEntry := &domain.Transaction{
		UserID: userID,
		Type:   domain.TxTypeMineReward,
		Amount: reward,
		Meta: map[string]interface{}{
			"node_id": nodeID,
			"rarity":  string(node.Rarity),
		},
	}
	if err := s.ledger.CreateWithTx(ctx, tx, ledgerEntry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &MineResult{
		NodeID:     nodeID,
		Reward:     reward,
		NewBalance: newBalance,
		Rarity:     string(node.Rarity),
	}, nil
}
