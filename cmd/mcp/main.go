package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pageza/fitplate/backend/config"
	"github.com/pageza/fitplate/backend/internal/database"
	"github.com/pageza/fitplate/backend/internal/exercisedb"
	"github.com/pageza/fitplate/backend/internal/mcptools"
	"github.com/pageza/fitplate/backend/internal/nutrition"
	"github.com/pageza/fitplate/backend/internal/service"
)

var (
	host    = flag.String("host", "0.0.0.0", "Host address")
	port    = flag.String("port", "", "Port for HTTP transport (defaults to MCP_PORT)")
	version = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("%s version %s\n", mcptools.Info.Name, mcptools.Info.Version)
		os.Exit(0)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.MCPAPIKeyHash == "" && config.IsProduction() {
		log.Fatal("MCP_API_KEY_HASH must be set in production")
	}

	listenPort := *port
	if listenPort == "" {
		listenPort = cfg.MCPPort
	}

	// The tools only read the catalog and food database; Postgres and Redis
	// are optional and only back the exercise cache.
	db, err := database.New(cfg)
	if err != nil {
		log.Printf("Warning: database unavailable, exercise lookups go straight to the catalog: %v", err)
		db = nil
	}
	rdb, err := database.NewRedisClient(context.Background(), cfg)
	if err != nil {
		log.Printf("Warning: failed to connect to Redis, continuing without it: %v", err)
		rdb = nil
	}

	exercises := service.NewExerciseService(exercisedb.NewClient(cfg.ExerciseDBBaseURL, cfg.ExerciseDBAPIKey), db, rdb, cfg.Similarity)
	nutritionService := service.NewNutritionService(nutrition.NewClient(cfg.FDCAPIKey, cfg.FDCBaseURL), rdb)

	srv := mcptools.NewServer(&mcptools.Config{
		Host:       *host,
		Port:       listenPort,
		APIKeyHash: cfg.MCPAPIKeyHash,
	}, nutritionService, exercises)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-sigCh:
		log.Println("Received shutdown signal")
	case err := <-errCh:
		log.Printf("Server error: %v", err)
	}

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
