package config

import (
	"os"
	"strconv"

	"piquiz_backend/internal/logger"

	"github.com/joho/godotenv"
)

// DriftConfig holds every tunable of the drift eligibility and pricing engine.
// Values are process-wide once loaded; tests construct their own instances.
type DriftConfig struct {
	VoidZoneRadiusKm      float64
	MaxDriftDistanceKm    float64
	AllowedInactivityDays int
	CooldownDays          int
	FirstDriftCost        int64
	BaseCost              int64
}

// DefaultDriftConfig returns the production drift tunables.
func DefaultDriftConfig() DriftConfig {
	return DriftConfig{
		VoidZoneRadiusKm:      10,
		MaxDriftDistanceKm:    100,
		AllowedInactivityDays: 7,
		CooldownDays:          3,
		FirstDriftCost:        75,
		BaseCost:              200,
	}
}

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	// Pi platform identity verification
	PiAPIURL string

	// Redis (rate limiting); empty addr disables it
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Drift DriftConfig

	// Mining
	MineRangeKm    float64
	MineBaseReward int64

	// Per-user action limits
	DriftRateLimit  int
	DriftRateWindow int
}

// Load reads configuration from the environment (.env honored in dev).
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	piAPIURL := os.Getenv("PI_API_URL")
	if piAPIURL == "" {
		piAPIURL = "https://api.minepi.com"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	drift := DefaultDriftConfig()
	drift.VoidZoneRadiusKm = envFloat("VOID_ZONE_RADIUS_KM", drift.VoidZoneRadiusKm)
	drift.MaxDriftDistanceKm = envFloat("MAX_DRIFT_DISTANCE_KM", drift.MaxDriftDistanceKm)
	drift.AllowedInactivityDays = envInt("ALLOWED_INACTIVITY_DAYS", drift.AllowedInactivityDays)
	drift.CooldownDays = envInt("DRIFT_COOL_DOWN_DAYS", drift.CooldownDays)
	drift.FirstDriftCost = envInt64("FIRST_DRIFT_COST", drift.FirstDriftCost)
	drift.BaseCost = envInt64("DRIFT_BASE_COST", drift.BaseCost)

	return &Config{
		AppPort:         port,
		DatabaseURL:     dbURL,
		JWTSecret:       jwtSecret,
		PiAPIURL:        piAPIURL,
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         redisDB,
		Drift:           drift,
		MineRangeKm:     envFloat("MINE_RANGE_KM", 0.5),
		MineBaseReward:  envInt64("MINE_BASE_REWARD", 10),
		DriftRateLimit:  envInt("DRIFT_RATE_LIMIT", 10),
		DriftRateWindow: envInt("DRIFT_RATE_WINDOW_SECONDS", 60),
	}
}

func envInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envInt64(name string, def int64) int64 {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envFloat(name string, def float64) float64 {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}
