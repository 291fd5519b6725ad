package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/fitplate/backend/internal/nutrition"
	"github.com/pageza/fitplate/backend/internal/service"
	"github.com/pageza/fitplate/backend/internal/types"
)

const maxMealIngredients = 50

// NutritionHandler checks ingredients and meals against FoodData Central
type NutritionHandler struct {
	nutrition service.INutritionService
}

func NewNutritionHandler(nutritionService service.INutritionService) *NutritionHandler {
	return &NutritionHandler{nutrition: nutritionService}
}

func (h *NutritionHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/nutrition")
	{
		group.POST("/validate", h.ValidateIngredient)
		group.POST("/validate-meal", h.ValidateMeal)
	}
}

func (h *NutritionHandler) ValidateIngredient(c *gin.Context) {
	var req types.ValidateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.nutrition.ValidateIngredient(c.Request.Context(), nutrition.MealIngredient{
		Name:     req.Name,
		Quantity: req.Quantity,
		Unit:     req.Unit,
	})
	if err != nil {
		respondError(c, err, "failed to validate ingredient")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *NutritionHandler) ValidateMeal(c *gin.Context) {
	var req types.ValidateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Ingredients) > maxMealIngredients {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a meal can have at most 50 ingredients"})
		return
	}

	result, err := h.nutrition.ValidateMeal(c.Request.Context(), req.Ingredients)
	if err != nil {
		respondError(c, err, "failed to validate meal")
		return
	}

	c.JSON(http.StatusOK, result)
}
