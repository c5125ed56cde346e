package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/samirrijal/tourguide/internal/adapters/gpsutil"
	"github.com/samirrijal/tourguide/internal/adapters/postgres"
	"github.com/samirrijal/tourguide/internal/adapters/valkey"
	"github.com/samirrijal/tourguide/internal/core/usecases"
	"github.com/samirrijal/tourguide/internal/pkg/config"
)

var migrations = []string{
	"migrations/001_attractions.sql",
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|seed|down>")
	}

	cfg, err := config.Load("tourguide-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		runMigrations(ctx, db)
	case "seed":
		seedAttractions(ctx, cfg, db)
	case "down":
		if _, err := db.Pool.Exec(ctx, "DROP TABLE IF EXISTS attractions"); err != nil {
			log.Fatalf("down: %v", err)
		}
		log.Println("attractions table dropped")
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func runMigrations(ctx context.Context, db *postgres.DB) {
	for _, f := range migrations {
		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}

		if _, err := db.Pool.Exec(ctx, string(data)); err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}

		fmt.Printf("OK  %s\n", f)
	}

	log.Println("all migrations applied")
}

// seedAttractions loads the built-in attraction catalog into the table and
// drops the cached copy so services pick up the new rows.
func seedAttractions(ctx context.Context, cfg *config.Config, db *postgres.DB) {
	repo := postgres.NewAttractionRepo(db)
	attractions := gpsutil.Attractions()
	if err := repo.UpsertBatch(ctx, attractions); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("seeded %d attractions", len(attractions))

	cache, err := valkey.New(cfg.Valkey.Addr, "tourguide")
	if err != nil {
		log.Printf("cache not invalidated: %v", err)
		return
	}
	defer cache.Close()
	if err := usecases.NewCatalogService(repo, cache, 0).Invalidate(ctx); err != nil {
		log.Printf("cache not invalidated: %v", err)
	}
}
