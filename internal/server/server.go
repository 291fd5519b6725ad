package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/fitplate/backend/config"
	"github.com/pageza/fitplate/backend/internal/api"
	"github.com/pageza/fitplate/backend/internal/exercisedb"
	"github.com/pageza/fitplate/backend/internal/middleware"
	"github.com/pageza/fitplate/backend/internal/nutrition"
	"github.com/pageza/fitplate/backend/internal/router"
	"github.com/pageza/fitplate/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	cfg      *config.Config
	router   *gin.Engine
	http     *http.Server
	services *api.Services
}

// New wires the services described by cfg over db and rdb. rdb may be nil,
// which turns off caching, plan drafts and rate limiting.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Server {
	services := NewServices(ctx, cfg, db, rdb)
	engine := router.SetupRouter(cfg.AllowedOrigins, services)

	return &Server{
		cfg:      cfg,
		router:   engine,
		services: services,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// NewServices builds the service layer from configuration. Optional
// integrations that are not configured are logged and left disabled.
func NewServices(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *api.Services {
	catalog := exercisedb.NewClient(cfg.ExerciseDBBaseURL, cfg.ExerciseDBAPIKey)
	profiles := service.NewProfileService(db)
	exercises := service.NewExerciseService(catalog, db, rdb, cfg.Similarity)
	nutritionService := service.NewNutritionService(nutrition.NewClient(cfg.FDCAPIKey, cfg.FDCBaseURL), rdb)

	var llm service.ChatCompleter
	if client, err := service.NewLLMService(cfg.LLMAPIKey, cfg.LLMAPIURL, cfg.LLMModel); err != nil {
		log.Printf("Warning: plan generation disabled: %v", err)
	} else {
		llm = client
	}

	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		if !errors.Is(err, config.ErrStorageDisabled) {
			log.Printf("Warning: failed to initialize S3, images will not be mirrored: %v", err)
		}
		s3Config = nil
	}

	var planLimiter *middleware.RateLimiter
	if rdb != nil {
		planLimiter = middleware.NewPlanGenerationRateLimiter(rdb)
	} else {
		log.Printf("Warning: Redis unavailable, plan drafts and rate limiting are disabled")
	}

	return &api.Services{
		DB:          db,
		Auth:        service.NewAuthService(db, cfg.JWTSecret),
		Profiles:    profiles,
		Exercises:   exercises,
		Images:      service.NewImageService(cfg.PexelsAPIKey, cfg.PexelsBaseURL, s3Config, rdb),
		Nutrition:   nutritionService,
		Plans:       service.NewPlanService(db, rdb, llm, nutritionService, exercises, profiles),
		Workouts:    service.NewWorkoutService(db),
		PlanLimiter: planLimiter,
	}
}

// Services returns the service layer the server routes to.
func (s *Server) Services() *api.Services {
	return s.services
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
