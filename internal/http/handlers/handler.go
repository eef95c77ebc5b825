package handlers

import (
	"piquiz_backend/internal/config"
	"piquiz_backend/internal/drift"
	"piquiz_backend/internal/repository"
	"piquiz_backend/internal/service"
	"piquiz_backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB              *pgxpool.Pool
	Cfg             *config.Config
	UserRepo        *repository.UserRepository
	TransactionRepo *repository.TransactionRepository
	PiAuth          *service.PiAuthService
	DriftService    *service.DriftService
	MineService     *service.MineService
	Hub             *ws.Hub
}

func NewHandler(db *pgxpool.Pool, cfg *config.Config) *Handler {
	hub := ws.NewHub()

	driftCfg := drift.Config{
		VoidZoneRadiusKm:      cfg.Drift.VoidZoneRadiusKm,
		MaxDriftDistanceKm:    cfg.Drift.MaxDriftDistanceKm,
		AllowedInactivityDays: cfg.Drift.AllowedInactivityDays,
		CooldownDays:          cfg.Drift.CooldownDays,
		FirstDriftCost:        cfg.Drift.FirstDriftCost,
		BaseCost:              cfg.Drift.BaseCost,
	}

	return &Handler{
		DB:              db,
		Cfg:             cfg,
		UserRepo:        repository.NewUserRepository(db),
		TransactionRepo: repository.NewTransactionRepository(db),
		PiAuth:          service.NewPiAuthService(cfg.PiAPIURL),
		DriftService:    service.NewDriftService(db, driftCfg, hub),
		MineService:     service.NewMineService(db, cfg.MineRangeKm, cfg.MineBaseReward),
		Hub:             hub,
	}
}

// getUserID extracts the authenticated user id set by the JWT middleware.
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
