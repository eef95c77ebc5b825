package service

import (
	"context"
	"errors"
	"time"

	"piquiz_backend/internal/domain"
	"piquiz_backend/internal/drift"
	"piquiz_backend/internal/geo"
	"piquiz_backend/internal/logger"
	"piquiz_backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUserNotFound       = errors.New("user not found")
	ErrNodeNotFound       = errors.New("node not found")
	ErrPreconditionFailed = errors.New("drift precondition failed")
	ErrRaceLost           = errors.New("drift race lost")
	ErrInsufficientFunds  = errors.New("insufficient funds")
)

// DriftNotifier receives celebratory drift events. Dispatch is fire-and-forget:
// a failed broadcast never affects the committed drift.
type DriftNotifier interface {
	NotifyDrift(userID int64, username string, node domain.Node, cost int64)
}

// DriftStatus is the response of a status query.
type DriftStatus struct {
	Status         drift.Status            `json:"status"`
	CooldownEndsAt *time.Time              `json:"cooldown_ends_at,omitempty"`
	Candidates     []domain.DriftCandidate `json:"candidates"`
}

// DriftReceipt is returned on a successful drift.
type DriftReceipt struct {
	NodeID         int64     `json:"node_id"`
	NodeName       string    `json:"node_name"`
	CostCharged    int64     `json:"cost_charged"`
	NewBalance     int64     `json:"new_balance"`
	CooldownEndsAt time.Time `json:"cooldown_ends_at"`
}

// DriftService implements the drift eligibility, pricing and execution engine.
// Handlers are stateless; every decision is recomputed from the database at
// request time and concurrency is enforced by conditional updates inside a
// single transaction.
type DriftService struct {
	db       *pgxpool.Pool
	cfg      drift.Config
	users    *repository.UserRepository
	nodes    *repository.NodeRepository
	ledger   *repository.TransactionRepository
	notifier DriftNotifier
	now      func() time.Time
}

func NewDriftService(db *pgxpool.Pool, cfg drift.Config, notifier DriftNotifier) *DriftService {
	return &DriftService{
		db:       db,
		cfg:      cfg,
		users:    repository.NewUserRepository(db),
		nodes:    repository.NewNodeRepository(db),
		ledger:   repository.NewTransactionRepository(db),
		notifier: notifier,
		now:      time.Now,
	}
}

// QueryDriftStatus evaluates the drift gate for a user at loc and, when the
// gate allows it, returns the priced candidate set nearest first. loc may be
// nil (no GPS), which short-circuits to NO_LOCATION before touching node data.
func (s *DriftService) QueryDriftStatus(ctx context.Context, userID int64, loc *geo.Point) (*DriftStatus, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	now := s.now()

	if loc == nil {
		d := drift.Evaluate(s.cfg, drift.GateInput{Now: now, HasLocation: false})
		return &DriftStatus{Status: d.Status, Candidates: []domain.DriftCandidate{}}, nil
	}
	if err := loc.Validate(); err != nil {
		return nil, ErrInvalidInput
	}

	candidates, voidCount, err := s.eligibleCandidates(ctx, user, *loc, now)
	if err != nil {
		return nil, err
	}

	d := drift.Evaluate(s.cfg, drift.GateInput{
		Now:           now,
		HasLocation:   true,
		LastDriftAt:   user.LastDriftAt,
		NodesInVoid:   voidCount,
		EligibleCount: len(candidates),
		CheapestCost:  drift.Cheapest(candidates),
		UserBalance:   user.SharePoints,
	})

	status := &DriftStatus{
		Status:         d.Status,
		CooldownEndsAt: d.CooldownEndsAt,
		Candidates:     []domain.DriftCandidate{},
	}
	// candidates are only revealed when the gate is actionable
	if d.Status == drift.StatusReady || d.Status == drift.StatusInsufficientFunds {
		status.Candidates = candidates
	}
	return status, nil
}

// ExecuteDrift re-validates everything server-side and commits the drift
// atomically: balance decrement, drift counters and node activation all land
// in one transaction, each behind its own precondition. Two concurrent drifts
// by the same user, or two users racing for the same node, resolve to exactly
// one success.
func (s *DriftService) ExecuteDrift(ctx context.Context, userID, nodeID int64, loc geo.Point) (*DriftReceipt, error) {
	if err := loc.Validate(); err != nil {
		return nil, ErrInvalidInput
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	now := s.now()

	candidates, voidCount, err := s.eligibleCandidates(ctx, user, loc, now)
	if err != nil {
		return nil, err
	}

	d := drift.Evaluate(s.cfg, drift.GateInput{
		Now:           now,
		HasLocation:   true,
		LastDriftAt:   user.LastDriftAt,
		NodesInVoid:   voidCount,
		EligibleCount: len(candidates),
		CheapestCost:  drift.Cheapest(candidates),
		UserBalance:   user.SharePoints,
	})
	switch d.Status {
	case drift.StatusReady:
	case drift.StatusInsufficientFunds:
		return nil, ErrInsufficientFunds
	default:
		return nil, ErrPreconditionFailed
	}

	// the target must still be in the freshly computed candidate set
	var target *domain.DriftCandidate
	for i := range candidates {
		if candidates[i].Node.ID == nodeID {
			target = &candidates[i]
			break
		}
	}
	if target == nil {
		return nil, ErrPreconditionFailed
	}
	if !target.CanDrift {
		return nil, ErrInsufficientFunds
	}

	cutoff := s.cfg.DormantCutoff(now)

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// cooldown cutoff mirrors the gate read: a concurrent same-user drift
	// that committed first makes this conditional update match zero rows
	cooldownCutoff := now.Add(-s.cfg.Cooldown())

	newBalance, err := s.users.ApplyDriftWithTx(ctx, tx, userID, target.Cost, now, cooldownCutoff)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientFunds) {
			return nil, ErrInsufficientFunds
		}
		if errors.Is(err, repository.ErrCooldownActive) {
			return nil, ErrPreconditionFailed
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.nodes.ActivateWithTx(ctx, tx, nodeID, userID, cutoff, now); err != nil {
		if errors.Is(err, repository.ErrRaceLost) {
			return nil, ErrRaceLost
		}
		return nil, err
	}

	ledgerEntry := &domain.Transaction{
		UserID: userID,
		Type:   domain.TxTypeDriftCost,
		Amount: -target.Cost,
		Meta: map[string]interface{}{
			"node_id":     nodeID,
			"rarity":      string(target.Node.Rarity),
			"distance_km": target.DistanceKm,
		},
	}
	if err := s.ledger.CreateWithTx(ctx, tx, ledgerEntry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	logger.Info("drift executed",
		"user_id", userID, "node_id", nodeID,
		"cost", target.Cost, "distance_km", target.DistanceKm)

	if s.notifier != nil {
		go s.notifier.NotifyDrift(userID, user.Username, target.Node, target.Cost)
	}

	return &DriftReceipt{
		NodeID:         nodeID,
		NodeName:       target.Node.Name,
		CostCharged:    target.Cost,
		NewBalance:     newBalance,
		CooldownEndsAt: now.Add(s.cfg.Cooldown()),
	}, nil
}

// eligibleCandidates runs the void-zone count and the dormant-node query, then
// prices and orders the survivors. When the void zone is occupied the
// candidate query is skipped entirely.
func (s *DriftService) eligibleCandidates(ctx context.Context, user *domain.User, loc geo.Point, now time.Time) ([]domain.DriftCandidate, int, error) {
	voidCount, err := s.nodes.CountWithinRadius(ctx, loc, s.cfg.VoidZoneRadiusKm)
	if err != nil {
		return nil, 0, err
	}
	if voidCount > 0 {
		return nil, voidCount, nil
	}

	nodes, err := s.nodes.FindDormantWithin(ctx, loc, s.cfg.MaxDriftDistanceKm, s.cfg.DormantCutoff(now))
	if err != nil {
		return nil, 0, err
	}

	return drift.BuildCandidates(s.cfg, nodes, loc, user.DriftCount, user.SharePoints), 0, nil
}
