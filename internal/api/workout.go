package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/fitplate/backend/internal/service"
	"github.com/pageza/fitplate/backend/internal/types"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WorkoutHandler logs workout sessions and their sets
type WorkoutHandler struct {
	workouts service.IWorkoutService
}

func NewWorkoutHandler(workouts service.IWorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workouts: workouts}
}

func (h *WorkoutHandler) RegisterRoutes(router *gin.RouterGroup) {
	workouts := router.Group("/workouts")
	{
		workouts.POST("", h.StartSession)
		workouts.GET("", h.ListSessions)
		workouts.GET("/export", h.Export)
		workouts.GET("/:id", h.GetSession)
		workouts.POST("/:id/sets", h.LogSet)
		workouts.DELETE("/:id/sets/:setId", h.DeleteSet)
		workouts.POST("/:id/complete", h.CompleteSession)
	}
}

func (h *WorkoutHandler) StartSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.StartSessionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	session, err := h.workouts.StartSession(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "failed to start workout")
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (h *WorkoutHandler) ListSessions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit", 20)
	if !ok {
		return
	}
	offset, ok := intQuery(c, "offset", 0)
	if !ok {
		return
	}

	sessions, err := h.workouts.ListSessions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, err, "failed to list workouts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"workouts": sessions})
}

func (h *WorkoutHandler) GetSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	session, err := h.workouts.GetSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondError(c, err, "failed to get workout")
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *WorkoutHandler) LogSet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req types.LogSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set, err := h.workouts.LogSet(c.Request.Context(), userID, sessionID, &req)
	if err != nil {
		respondError(c, err, "failed to log set")
		return
	}

	c.JSON(http.StatusCreated, set)
}

func (h *WorkoutHandler) DeleteSet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	setID, ok := uuidParam(c, "setId")
	if !ok {
		return
	}

	if err := h.workouts.DeleteSet(c.Request.Context(), userID, sessionID, setID); err != nil {
		respondError(c, err, "failed to delete set")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "set deleted"})
}

func (h *WorkoutHandler) CompleteSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	session, err := h.workouts.CompleteSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondError(c, err, "failed to complete workout")
		return
	}

	c.JSON(http.StatusOK, session)
}

// Export downloads every logged set as an Excel workbook
func (h *WorkoutHandler) Export(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	data, err := h.workouts.ExportXLSX(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to export workouts")
		return
	}

	filename := fmt.Sprintf("workouts-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
