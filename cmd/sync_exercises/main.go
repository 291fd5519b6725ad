package main

import (
	"context"
	"log"
	"time"

	"github.com/pageza/fitplate/backend/config"
	"github.com/pageza/fitplate/backend/internal/database"
	"github.com/pageza/fitplate/backend/internal/exercisedb"
	"github.com/pageza/fitplate/backend/internal/jobs"
	"github.com/pageza/fitplate/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	exercises := service.NewExerciseService(exercisedb.NewClient(cfg.ExerciseDBBaseURL, cfg.ExerciseDBAPIKey), db, nil, cfg.Similarity)

	job, err := jobs.NewCatalogSync(exercises, jobs.DefaultCatalogSyncSchedule)
	if err != nil {
		log.Fatalf("Failed to create catalog sync: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), jobs.CatalogSyncTimeout)
	defer cancel()

	start := time.Now()
	count, err := job.RunOnce(ctx)
	if err != nil {
		log.Fatalf("Catalog sync failed: %v", err)
	}
	log.Printf("Synced %d exercises in %s", count, time.Since(start).Round(time.Millisecond))
}
