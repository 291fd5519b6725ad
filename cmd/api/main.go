package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pageza/fitplate/backend/config"
	"github.com/pageza/fitplate/backend/internal/database"
	"github.com/pageza/fitplate/backend/internal/jobs"
	"github.com/pageza/fitplate/backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	rdb, err := database.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Printf("Warning: failed to connect to Redis, continuing without it: %v", err)
		rdb = nil
	}

	srv := server.New(ctx, cfg, db, rdb)

	catalogSync, err := jobs.NewCatalogSync(srv.Services().Exercises, cfg.CatalogSyncSchedule)
	if err != nil {
		log.Fatalf("Failed to schedule catalog sync: %v", err)
	}
	catalogSync.Start()

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Printf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	catalogSync.Stop()
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Println("Server stopped")
}
