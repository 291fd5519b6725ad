package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/fitplate/backend/internal/models"
	"github.com/pageza/fitplate/backend/internal/service"
)

// DashboardHandler handles dashboard-related requests
type DashboardHandler struct {
	workouts service.IWorkoutService
	plans    service.IPlanService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(workouts service.IWorkoutService, plans service.IPlanService) *DashboardHandler {
	return &DashboardHandler{
		workouts: workouts,
		plans:    plans,
	}
}

// RegisterRoutes registers the dashboard routes
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("/stats", h.GetStats)
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	WorkoutsThisWeek  int64      `json:"workoutsThisWeek"`
	TotalWorkouts     int64      `json:"totalWorkouts"`
	CompletedWorkouts int64      `json:"completedWorkouts"`
	TotalSets         int64      `json:"totalSets"`
	TotalVolumeKg     float64    `json:"totalVolumeKg"`
	LastWorkoutAt     *time.Time `json:"lastWorkoutAt,omitempty"`
	SavedMealPlans    int64      `json:"savedMealPlans"`
	SavedWorkoutPlans int64      `json:"savedWorkoutPlans"`
}

// GetStats returns dashboard statistics for the current user
func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var (
		workouts *service.WorkoutStats
		plans    map[models.PlanKind]int64
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		workouts, err = h.workouts.Stats(ctx, userID, startOfWeek(time.Now()))
		return err
	})
	g.Go(func() error {
		var err error
		plans, err = h.plans.CountPlans(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		respondError(c, err, "failed to load dashboard")
		return
	}

	c.JSON(http.StatusOK, DashboardStats{
		WorkoutsThisWeek:  workouts.RecentSessions,
		TotalWorkouts:     workouts.TotalSessions,
		CompletedWorkouts: workouts.CompletedSessions,
		TotalSets:         workouts.TotalSets,
		TotalVolumeKg:     workouts.TotalVolumeKg,
		LastWorkoutAt:     workouts.LastWorkoutAt,
		SavedMealPlans:    plans[models.PlanKindMeal],
		SavedWorkoutPlans: plans[models.PlanKindWorkout],
	})
}

// startOfWeek returns midnight of the Monday on or before t.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
