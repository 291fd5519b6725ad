package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"

	"github.com/pageza/fitplate/backend/internal/nutrition"
	"github.com/pageza/fitplate/backend/internal/similarity"
)

// Tool names
const (
	ToolValidateMeal       = "validate_meal"
	ToolValidateIngredient = "validate_ingredient"
	ToolFindAlternatives   = "find_alternatives"
)

const (
	maxToolIngredients     = 50
	defaultAlternatives    = similarity.DefaultLimit
	maxAlternativesPerCall = 50
)

type ValidateMealParams struct {
	Ingredients []nutrition.MealIngredient `json:"ingredients" description:"Ingredients with name, quantity and unit"`
}

type ValidateIngredientParams struct {
	Name     string  `json:"name" description:"Free-text ingredient name"`
	Quantity float64 `json:"quantity" description:"Amount of the ingredient"`
	Unit     string  `json:"unit" description:"Unit such as g, oz, cup or piece"`
}

type FindAlternativesParams struct {
	ExerciseID string `json:"exercise_id" description:"Catalog id of the exercise to replace"`
	Limit      int    `json:"limit,omitempty" description:"Maximum number of alternatives to return"`
}

func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}
	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return nil
}

func (s *Server) handleValidateMeal(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ValidateMealParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if len(params.Ingredients) == 0 {
		return nil, fmt.Errorf("%w: ingredients are required", errInvalidParams)
	}
	if len(params.Ingredients) > maxToolIngredients {
		return nil, fmt.Errorf("%w: a meal can have at most %d ingredients", errInvalidParams, maxToolIngredients)
	}
	for _, ing := range params.Ingredients {
		if ing.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity for %q must not be negative", errInvalidParams, ing.Name)
		}
	}

	result, err := s.nutrition.ValidateMeal(ctx, params.Ingredients)
	if err != nil {
		return nil, fmt.Errorf("failed to validate meal: %w", err)
	}
	return createJSONResponse(result)
}

func (s *Server) handleValidateIngredient(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ValidateIngredientParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", errInvalidParams)
	}

	result, err := s.nutrition.ValidateIngredient(ctx, nutrition.MealIngredient{
		Name:     params.Name,
		Quantity: params.Quantity,
		Unit:     params.Unit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to validate ingredient: %w", err)
	}
	return createJSONResponse(result)
}

func (s *Server) handleFindAlternatives(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params FindAlternativesParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.ExerciseID == "" {
		return nil, fmt.Errorf("%w: exercise_id is required", errInvalidParams)
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultAlternatives
	}
	if limit > maxAlternativesPerCall {
		limit = maxAlternativesPerCall
	}

	alternatives, err := s.exercises.Alternatives(ctx, params.ExerciseID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find alternatives: %w", err)
	}
	return createJSONResponse(map[string]interface{}{
		"exercise_id":  params.ExerciseID,
		"alternatives": alternatives,
	})
}
