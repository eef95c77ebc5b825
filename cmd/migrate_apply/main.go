package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"sort"

	"piquiz_backend/internal/db"
	"piquiz_backend/internal/logger"
)

// Lists the SQL migrations under internal/migrations, or applies them in
// lexical order with -apply. Files are idempotent (IF NOT EXISTS), so
// re-running against an up-to-date database is safe.
func main() {
	logger.InitFromEnv()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	apply := flag.Bool("apply", false, "apply migrations (default: list only)")
	dir := flag.String("dir", filepath.Join("internal", "migrations"), "migrations directory")
	flag.Parse()

	entries, err := os.ReadDir(*dir)
	if err != nil {
		logger.Fatal("read migrations dir", "dir", *dir, "error", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".sql" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if !*apply {
		for _, name := range names {
			logger.Info("pending migration", "file", name)
		}
		return
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	for _, name := range names {
		stmt, err := os.ReadFile(filepath.Join(*dir, name))
		if err != nil {
			logger.Fatal("read migration", "file", name, "error", err)
		}
		if _, err := pool.Exec(context.Background(), string(stmt)); err != nil {
			logger.Fatal("apply migration failed", "file", name, "error", err)
		}
		logger.Info("migration applied", "file", name)
	}
}
