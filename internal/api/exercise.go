package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/fitplate/backend/internal/service"
	"github.com/pageza/fitplate/backend/internal/similarity"
)

const maxExercisePage = 100

// ExerciseHandler serves the exercise catalog, alternatives and illustrations
type ExerciseHandler struct {
	exercises service.IExerciseService
	images    service.IImageService
}

func NewExerciseHandler(exercises service.IExerciseService, images service.IImageService) *ExerciseHandler {
	return &ExerciseHandler{
		exercises: exercises,
		images:    images,
	}
}

func (h *ExerciseHandler) RegisterRoutes(router *gin.RouterGroup) {
	exercises := router.Group("/exercises")
	{
		exercises.GET("", h.List)
		exercises.GET("/search", h.Search)
		exercises.GET("/:id", h.Get)
		exercises.GET("/:id/alternatives", h.Alternatives)
		exercises.GET("/:id/image", h.Image)
	}
}

// List returns one page of the catalog
func (h *ExerciseHandler) List(c *gin.Context) {
	offset, ok := intQuery(c, "offset", 0)
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit", 20)
	if !ok {
		return
	}
	if limit == 0 || limit > maxExercisePage {
		limit = maxExercisePage
	}

	exercises, err := h.exercises.List(c.Request.Context(), offset, limit)
	if err != nil {
		respondError(c, err, "failed to list exercises")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"exercises": exercises,
		"offset":    offset,
		"limit":     limit,
	})
}

// Search finds exercises by name
func (h *ExerciseHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}
	limit, ok := intQuery(c, "limit", 20)
	if !ok {
		return
	}
	if limit > maxExercisePage {
		limit = maxExercisePage
	}

	exercises, err := h.exercises.Search(c.Request.Context(), query, limit)
	if err != nil {
		respondError(c, err, "failed to search exercises")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":     query,
		"exercises": exercises,
	})
}

func (h *ExerciseHandler) Get(c *gin.Context) {
	exercise, err := h.exercises.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to get exercise")
		return
	}

	c.JSON(http.StatusOK, exercise)
}

// Alternatives ranks catalog exercises that can replace the given one
func (h *ExerciseHandler) Alternatives(c *gin.Context) {
	limit, ok := intQuery(c, "limit", similarity.DefaultLimit)
	if !ok {
		return
	}
	if limit == 0 {
		limit = similarity.DefaultLimit
	}
	if limit > maxExercisePage {
		limit = maxExercisePage
	}

	alternatives, err := h.exercises.Alternatives(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err, "failed to find alternatives")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"exercise_id":  c.Param("id"),
		"alternatives": alternatives,
		"limit":        limit,
	})
}

// Image returns a stock photo for the exercise, or its catalog GIF
func (h *ExerciseHandler) Image(c *gin.Context) {
	exercise, err := h.exercises.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to get exercise")
		return
	}

	image, err := h.images.ExerciseImage(c.Request.Context(), exercise)
	if err != nil {
		respondError(c, err, "failed to get exercise image")
		return
	}

	c.JSON(http.StatusOK, image)
}
