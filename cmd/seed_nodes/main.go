package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"piquiz_backend/internal/db"
	"piquiz_backend/internal/domain"
	"piquiz_backend/internal/repository"
	"piquiz_backend/internal/service"
)

// Dev tool: creates a test pioneer plus a ring of dormant nodes around the
// given coordinates, and prints a session token for API poking.
func main() {
	lat := flag.Float64("lat", 48.8566, "center latitude")
	lon := flag.Float64("lon", 2.3522, "center longitude")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	ctx := context.Background()
	users := repository.NewUserRepository(pool)
	nodes := repository.NewNodeRepository(pool)

	piID := "seed-pioneer"
	u, err := users.GetByPiID(ctx, piID)
	if err != nil {
		u = &domain.User{PiID: piID, Username: "seeder"}
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("create user failed: %v", err)
		}
		log.Printf("user created id=%d", u.ID)
	} else {
		log.Printf("user already exists id=%d", u.ID)
	}

	// dormant nodes 20-60 km out, one per rarity tier
	seeds := []struct {
		name    string
		dLat    float64
		dLon    float64
		rarity  domain.Rarity
		dormant int // days
	}{
		{"Quiet Quarry", 0.2, 0, domain.RarityCommon, 10},
		{"Silver Gulch", 0.3, 0.1, domain.RarityUncommon, 14},
		{"Echo Cavern", -0.4, 0, domain.RarityRare, 21},
		{"Ember Vault", 0, 0.5, domain.RarityEpic, 30},
		{"Aurora Seam", -0.5, -0.2, domain.RarityLegendary, 45},
	}

	for _, s := range seeds {
		n := &domain.Node{
			Name:          s.name,
			Latitude:      *lat + s.dLat,
			Longitude:     *lon + s.dLon,
			Rarity:        s.rarity,
			LastMinedAt:   time.Now().AddDate(0, 0, -s.dormant),
			OpenForMining: true,
		}
		if err := nodes.Create(ctx, n); err != nil {
			log.Fatalf("create node %s failed: %v", s.name, err)
		}
		log.Printf("node created id=%d name=%s rarity=%s", n.ID, n.Name, n.Rarity)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}
	service.InitJWT(secret)
	token, err := service.GenerateJWT(u.ID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s", token)
}
