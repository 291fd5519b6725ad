package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/fitplate/backend/internal/middleware"
	"github.com/pageza/fitplate/backend/internal/models"
	"github.com/pageza/fitplate/backend/internal/service"
	"github.com/pageza/fitplate/backend/internal/types"
)

// PlanHandler generates meal and workout plans and manages saved ones
type PlanHandler struct {
	plans   service.IPlanService
	limiter *middleware.RateLimiter
}

func NewPlanHandler(plans service.IPlanService, limiter *middleware.RateLimiter) *PlanHandler {
	return &PlanHandler{
		plans:   plans,
		limiter: limiter,
	}
}

func (h *PlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plans := router.Group("/plans")

	generate := []gin.HandlerFunc{}
	if h.limiter != nil {
		generate = append(generate, h.limiter.Middleware())
	}
	plans.POST("/meal", append(generate, h.GenerateMealPlan)...)
	plans.POST("/workout", append(generate, h.GenerateWorkoutPlan)...)

	plans.GET("/drafts/:id", h.GetDraft)
	plans.DELETE("/drafts/:id", h.DeleteDraft)
	plans.POST("/drafts/:id/save", h.SaveDraft)

	plans.GET("", h.ListPlans)
	plans.GET("/:id", h.GetPlan)
	plans.DELETE("/:id", h.DeletePlan)
}

func (h *PlanHandler) GenerateMealPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.MealPlanRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	draft, err := h.plans.GenerateMealPlan(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "failed to generate meal plan")
		return
	}

	c.JSON(http.StatusCreated, draft)
}

func (h *PlanHandler) GenerateWorkoutPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.WorkoutPlanRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	draft, err := h.plans.GenerateWorkoutPlan(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "failed to generate workout plan")
		return
	}

	c.JSON(http.StatusCreated, draft)
}

func (h *PlanHandler) GetDraft(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	draft, err := h.plans.GetDraft(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to get draft")
		return
	}

	c.JSON(http.StatusOK, draft)
}

func (h *PlanHandler) DeleteDraft(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.plans.DeleteDraft(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "failed to delete draft")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "draft discarded"})
}

// SaveDraft persists a draft. The body is optional and may rename the plan.
func (h *PlanHandler) SaveDraft(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.SavePlanRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	plan, err := h.plans.SaveDraft(c.Request.Context(), userID, c.Param("id"), req.Title)
	if err != nil {
		respondError(c, err, "failed to save plan")
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// ListPlans returns saved plans, optionally filtered by ?kind=meal|workout
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	kind := models.PlanKind(c.Query("kind"))
	switch kind {
	case "", models.PlanKindMeal, models.PlanKindWorkout:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be meal or workout"})
		return
	}

	plans, err := h.plans.ListPlans(c.Request.Context(), userID, kind)
	if err != nil {
		respondError(c, err, "failed to list plans")
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.plans.GetPlan(c.Request.Context(), userID, planID)
	if err != nil {
		respondError(c, err, "failed to get plan")
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) DeletePlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.plans.DeletePlan(c.Request.Context(), userID, planID); err != nil {
		respondError(c, err, "failed to delete plan")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "plan deleted"})
}

// bindOptionalJSON binds the body into out, treating an empty body as {}.
func bindOptionalJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
