package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/fitplate/backend/internal/nutrition"
)

const foodSearchCacheTTL = 24 * time.Hour

// cachedFoodSearcher memoises FoodData Central searches in Redis. Errors are
// never cached.
type cachedFoodSearcher struct {
	next  nutrition.FoodSearcher
	redis *redis.Client
}

func (c *cachedFoodSearcher) SearchFoods(ctx context.Context, query string, pageSize int) ([]nutrition.Food, error) {
	key := fmt.Sprintf("fdc:search:%s:%d", strings.ToLower(strings.TrimSpace(query)), pageSize)

	var foods []nutrition.Food
	if cacheGet(ctx, c.redis, key, &foods) {
		return foods, nil
	}

	foods, err := c.next.SearchFoods(ctx, query, pageSize)
	if err != nil {
		return nil, err
	}

	cacheSet(ctx, c.redis, key, foods, foodSearchCacheTTL)
	return foods, nil
}

// NutritionService validates ingredients and meals against FoodData Central.
type NutritionService struct {
	validator *nutrition.Validator
}

var (
	_ INutritionService = (*NutritionService)(nil)
	_ MealValidator     = (*NutritionService)(nil)
)

// NewNutritionService wraps searcher in a Redis cache when rdb is non-nil.
func NewNutritionService(searcher nutrition.FoodSearcher, rdb *redis.Client) *NutritionService {
	if rdb != nil {
		searcher = &cachedFoodSearcher{next: searcher, redis: rdb}
	}
	return &NutritionService{validator: nutrition.NewValidator(searcher)}
}

func (s *NutritionService) ValidateIngredient(ctx context.Context, ingredient nutrition.MealIngredient) (*nutrition.ValidationResult, error) {
	return s.validator.ValidateIngredient(ctx, ingredient)
}

func (s *NutritionService) ValidateMeal(ctx context.Context, ingredients []nutrition.MealIngredient) (*nutrition.MealNutrition, error) {
	return s.validator.ValidateMeal(ctx, ingredients)
}
