// Package nutrition resolves free-text ingredients against USDA FoodData
// Central and computes the macros of the quantity actually eaten.
package nutrition

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// SearchPageSize is how many candidate foods are ranked per ingredient.
const SearchPageSize = 10

// Validator checks ingredients against a food database.
type Validator struct {
	searcher FoodSearcher
}

// NewValidator creates a validator backed by searcher.
func NewValidator(searcher FoodSearcher) *Validator {
	return &Validator{searcher: searcher}
}

// ValidateIngredient finds the closest generic food for ing and scales its
// per-100 g macros to the ingredient's weight. Blank names and searches with
// no hits produce an unverified, low-confidence result rather than an error.
func (v *Validator) ValidateIngredient(ctx context.Context, ing MealIngredient) (*ValidationResult, error) {
	name := strings.TrimSpace(ing.Name)
	if name == "" {
		return unverified(), nil
	}

	foods, err := v.searcher.SearchFoods(ctx, name, SearchPageSize)
	if err != nil {
		return nil, err
	}
	if len(foods) == 0 {
		return unverified(), nil
	}

	food, score := bestMatch(name, foods)
	confidence := ConfidenceFor(score)
	factor := ToGrams(ing.Quantity, ing.Unit) / 100

	fdcID := food.FdcID
	return &ValidationResult{
		Verified:       confidence != ConfidenceLow,
		Confidence:     confidence,
		FdcID:          &fdcID,
		MatchedName:    food.Description,
		ActualCalories: scaled(food, NutrientIDEnergy, factor),
		ActualProtein:  scaled(food, NutrientIDProtein, factor),
		ActualCarbs:    scaled(food, NutrientIDCarbohydrate, factor),
		ActualFat:      scaled(food, NutrientIDTotalFat, factor),
		ActualFiber:    scaled(food, NutrientIDFiber, factor),
	}, nil
}

// ValidateMeal validates every ingredient concurrently and sums the results.
// If any lookup fails the whole meal fails; partial totals are never returned.
func (v *Validator) ValidateMeal(ctx context.Context, ingredients []MealIngredient) (*MealNutrition, error) {
	results := make([]*ValidationResult, len(ingredients))

	g, gctx := errgroup.WithContext(ctx)
	for i, ing := range ingredients {
		g.Go(func() error {
			res, err := v.ValidateIngredient(gctx, ing)
			if err != nil {
				return fmt.Errorf("failed to validate ingredient %q: %w", ing.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	meal := &MealNutrition{Ingredients: make([]ValidationResult, 0, len(results))}
	for _, res := range results {
		meal.TotalCalories += valueOrZero(res.ActualCalories)
		meal.TotalProtein += valueOrZero(res.ActualProtein)
		meal.TotalCarbs += valueOrZero(res.ActualCarbs)
		meal.TotalFat += valueOrZero(res.ActualFat)
		meal.TotalFiber += valueOrZero(res.ActualFiber)
		meal.Ingredients = append(meal.Ingredients, *res)
	}
	return meal, nil
}

func scaled(food Food, nutrientID int, factor float64) *float64 {
	per100g, ok := food.Nutrient(nutrientID)
	if !ok {
		return nil
	}
	v := per100g * factor
	return &v
}
