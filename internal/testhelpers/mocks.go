package testhelpers

import (
	"context"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/fitplate/backend/internal/exercisedb"
	"github.com/pageza/fitplate/backend/internal/nutrition"
	"github.com/pageza/fitplate/backend/internal/types"
)

// MockAuthService is a mock implementation of the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) ValidateToken(token string) (*types.TokenClaims, error) {
	token = strings.TrimPrefix(token, "Bearer ")
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

func (m *MockAuthService) EnsureUser(ctx context.Context, claims *types.TokenClaims) error {
	args := m.Called(ctx, claims)
	return args.Error(0)
}

// MockCatalogClient is a mock implementation of the exercise catalog client
type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) List(ctx context.Context, offset, limit int) ([]exercisedb.Exercise, exercisedb.Metadata, error) {
	args := m.Called(ctx, offset, limit)
	list, _ := args.Get(0).([]exercisedb.Exercise)
	return list, args.Get(1).(exercisedb.Metadata), args.Error(2)
}

func (m *MockCatalogClient) Get(ctx context.Context, id string) (*exercisedb.Exercise, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exercisedb.Exercise), args.Error(1)
}

func (m *MockCatalogClient) ByMuscle(ctx context.Context, muscle string, limit int) ([]exercisedb.Exercise, error) {
	args := m.Called(ctx, muscle, limit)
	list, _ := args.Get(0).([]exercisedb.Exercise)
	return list, args.Error(1)
}

func (m *MockCatalogClient) ByBodyPart(ctx context.Context, bodyPart string, limit int) ([]exercisedb.Exercise, error) {
	args := m.Called(ctx, bodyPart, limit)
	list, _ := args.Get(0).([]exercisedb.Exercise)
	return list, args.Error(1)
}

func (m *MockCatalogClient) Search(ctx context.Context, query string, limit int) ([]exercisedb.Exercise, error) {
	args := m.Called(ctx, query, limit)
	list, _ := args.Get(0).([]exercisedb.Exercise)
	return list, args.Error(1)
}

// MockChatCompleter is a mock implementation of the LLM client
type MockChatCompleter struct {
	mock.Mock
}

func (m *MockChatCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	return args.String(0), args.Error(1)
}

// MockMealValidator is a mock implementation of the meal validator
type MockMealValidator struct {
	mock.Mock
}

func (m *MockMealValidator) ValidateMeal(ctx context.Context, ingredients []nutrition.MealIngredient) (*nutrition.MealNutrition, error) {
	args := m.Called(ctx, ingredients)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nutrition.MealNutrition), args.Error(1)
}

// MockFoodSearcher is a mock implementation of the FoodData Central client
type MockFoodSearcher struct {
	mock.Mock
}

func (m *MockFoodSearcher) SearchFoods(ctx context.Context, query string, pageSize int) ([]nutrition.Food, error) {
	args := m.Called(ctx, query, pageSize)
	foods, _ := args.Get(0).([]nutrition.Food)
	return foods, args.Error(1)
}
