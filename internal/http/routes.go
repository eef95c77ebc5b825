package http

import (
	"os"
	"strconv"
	"time"

	"piquiz_backend/internal/config"
	"piquiz_backend/internal/http/handlers"
	"piquiz_backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) {
	h := handlers.NewHandler(db, cfg)
	healthHandler := handlers.NewHealthHandler(db, version)

	// read limits from env, with safe defaults
	apiRateLimit := 60
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateLimit = n
		}
	}
	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	authRateLimit := 5
	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateLimit = n
		}
	}
	authRateWindow := time.Minute
	if v := os.Getenv("AUTH_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateWindow = time.Duration(n) * time.Second
		}
	}

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	driftRL := middleware.DriftRateLimit(cfg.DriftRateLimit, time.Duration(cfg.DriftRateWindow)*time.Second)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	{
		// Auth
		v1.POST("/auth", middleware.RedisRateLimit(authRateLimit, authRateWindow), h.Auth)

		// User profile
		v1.GET("/me", middleware.JWT(), h.Me)
		v1.GET("/me/transactions", middleware.JWT(), h.MyTransactions)

		// Drift engine
		v1.GET("/drift/status", middleware.JWT(), h.DriftStatusQuery)
		v1.POST("/drift", middleware.JWT(), driftRL, h.Drift)

		// Mining
		v1.POST("/mine", middleware.JWT(), driftRL, h.Mine)

		// Leaderboard
		v1.GET("/leaderboard", h.Leaderboard)
	}

	// WebSocket drift broadcast feed
	r.GET("/ws", middleware.JWT(), h.WS)
}
