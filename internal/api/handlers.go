package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/fitplate/backend/internal/database"
	"github.com/pageza/fitplate/backend/internal/exercisedb"
	"github.com/pageza/fitplate/backend/internal/middleware"
	"github.com/pageza/fitplate/backend/internal/nutrition"
	"github.com/pageza/fitplate/backend/internal/service"
)

// Services bundles everything the HTTP handlers depend on. PlanLimiter may
// be nil, in which case plan generation is not rate limited.
type Services struct {
	DB          *gorm.DB
	Auth        service.IAuthService
	Profiles    service.IProfileService
	Exercises   service.IExerciseService
	Images      service.IImageService
	Nutrition   service.INutritionService
	Plans       service.IPlanService
	Workouts    service.IWorkoutService
	PlanLimiter *middleware.RateLimiter
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, svc *Services) {
	health := NewHealthHandler(svc.DB)
	router.GET("/health", health.Check)

	v1 := router.Group("/api/v1")
	v1.GET("/health", health.Check)

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(svc.Auth), middleware.ProvisionUser(svc.Auth))

	NewProfileHandler(svc.Profiles).RegisterRoutes(authed)
	NewExerciseHandler(svc.Exercises, svc.Images).RegisterRoutes(authed)
	NewNutritionHandler(svc.Nutrition).RegisterRoutes(authed)
	NewPlanHandler(svc.Plans, svc.PlanLimiter).RegisterRoutes(authed)
	NewWorkoutHandler(svc.Workouts).RegisterRoutes(authed)
	NewDashboardHandler(svc.Workouts, svc.Plans).RegisterRoutes(authed)
	RegisterRateLimitRoutes(authed, svc.PlanLimiter)
}

// HealthHandler reports whether the API and its database are up
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check returns the health status of the API
func (h *HealthHandler) Check(c *gin.Context) {
	status := gin.H{
		"status":  "healthy",
		"message": "Fitplate API is running",
		"version": "v1.0.0",
	}

	if h.db != nil {
		if err := database.HealthCheck(c.Request.Context(), h.db); err != nil {
			log.Printf("[Health] Database check failed: %v", err)
			status["status"] = "unhealthy"
			status["database"] = "unreachable"
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
		status["database"] = "ok"
	}

	c.JSON(http.StatusOK, status)
}

// RegisterRateLimitRoutes registers endpoints for checking rate limit status
func RegisterRateLimitRoutes(router *gin.RouterGroup, planLimiter *middleware.RateLimiter) {
	rateLimits := router.Group("/rate-limits")
	{
		rateLimits.GET("/plan-generation", func(c *gin.Context) {
			userID, ok := currentUserID(c)
			if !ok {
				return
			}
			if planLimiter == nil {
				c.JSON(http.StatusOK, gin.H{"enabled": false})
				return
			}

			status, err := planLimiter.CheckOnly(c.Request.Context(), userID.String())
			if err != nil {
				log.Printf("[RateLimits] Failed to check plan generation limit: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check rate limit"})
				return
			}

			c.JSON(http.StatusOK, gin.H{
				"enabled":    true,
				"limit":      status.Limit,
				"remaining":  status.Remaining,
				"reset_time": status.ResetAt.Unix(),
				"window":     planLimiter.Config().Window.String(),
			})
		})
	}
}

// currentUserID reads the user set by the auth middleware and writes a 401
// when it is missing.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return uuid.Nil, false
	}
	return userID, true
}

// uuidParam parses a path parameter and writes a 400 when it is not a UUID.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s", name)})
		return uuid.Nil, false
	}
	return id, true
}

// intQuery reads a non-negative integer query parameter.
func intQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s must be a non-negative integer", name)})
		return 0, false
	}
	return v, true
}

// respondError maps service errors to HTTP statuses. Anything unrecognised
// is logged and reported as a 500 with the given message.
func respondError(c *gin.Context, err error, message string) {
	var reqErr *nutrition.RequestError
	switch {
	case errors.Is(err, exercisedb.ErrNotFound),
		errors.Is(err, service.ErrDraftNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrSetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidPlanID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSessionCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, nutrition.ErrMissingAPIKey),
		errors.Is(err, service.ErrLLMDisabled),
		errors.Is(err, service.ErrDraftsUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.As(err, &reqErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "food database request failed", "upstream_status": reqErr.StatusCode})
	case errors.Is(err, nutrition.ErrRequestFailed),
		errors.Is(err, service.ErrInvalidPlan):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		log.Printf("[API] %s %s: %s: %v", c.Request.Method, c.FullPath(), message, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
