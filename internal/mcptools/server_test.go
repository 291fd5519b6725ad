package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/fitplate/backend/internal/exercisedb"
	"github.com/pageza/fitplate/backend/internal/nutrition"
	"github.com/pageza/fitplate/backend/internal/service"
)

type mockNutritionService struct {
	mock.Mock
}

func (m *mockNutritionService) ValidateIngredient(ctx context.Context, ingredient nutrition.MealIngredient) (*nutrition.ValidationResult, error) {
	args := m.Called(ctx, ingredient)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nutrition.ValidationResult), args.Error(1)
}

func (m *mockNutritionService) ValidateMeal(ctx context.Context, ingredients []nutrition.MealIngredient) (*nutrition.MealNutrition, error) {
	args := m.Called(ctx, ingredients)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nutrition.MealNutrition), args.Error(1)
}

type mockExerciseService struct {
	mock.Mock
}

func (m *mockExerciseService) List(ctx context.Context, offset, limit int) ([]exercisedb.Exercise, error) {
	args := m.Called(ctx, offset, limit)
	list, _ := args.Get(0).([]exercisedb.Exercise)
	return list, args.Error(1)
}

func (m *mockExerciseService) Get(ctx context.Context, id string) (*exercisedb.Exercise, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exercisedb.Exercise), args.Error(1)
}

func (m *mockExerciseService) Search(ctx context.Context, query string, limit int) ([]exercisedb.Exercise, error) {
	args := m.Called(ctx, query, limit)
	list, _ := args.Get(0).([]exercisedb.Exercise)
	return list, args.Error(1)
}

func (m *mockExerciseService) Alternatives(ctx context.Context, id string, limit int) ([]service.ExerciseAlternative, error) {
	args := m.Called(ctx, id, limit)
	list, _ := args.Get(0).([]service.ExerciseAlternative)
	return list, args.Error(1)
}

func (m *mockExerciseService) SyncCatalog(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type toolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func setup(t *testing.T, apiKeyHash string) (*Server, *mockNutritionService, *mockExerciseService) {
	t.Helper()
	nutritionService := new(mockNutritionService)
	exerciseService := new(mockExerciseService)
	srv := NewServer(&Config{Host: "127.0.0.1", Port: "0", APIKeyHash: apiKeyHash}, nutritionService, exerciseService)
	return srv, nutritionService, exerciseService
}

func call(t *testing.T, srv *Server, method, body, apiKey string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

// decodeText unwraps the single text content item of a tool result into target.
func decodeText(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	var result toolResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), target))
}

func TestHandleHTTP_Routing(t *testing.T) {
	srv, _, _ := setup(t, "")

	t.Run("rejects GET", func(t *testing.T) {
		w := call(t, srv, http.MethodGet, "", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		w := call(t, srv, http.MethodPost, "{", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown tool", func(t *testing.T) {
		w := call(t, srv, http.MethodPost, `{"name":"log_meal","arguments":{}}`, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Unknown tool: log_meal")
	})
}

func TestHandleHTTP_APIKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("tool-secret"), bcrypt.MinCost)
	require.NoError(t, err)

	srv, nutritionService, _ := setup(t, string(hash))
	nutritionService.On("ValidateIngredient", mock.Anything, mock.Anything).
		Return(&nutrition.ValidationResult{Verified: false, Confidence: nutrition.ConfidenceLow}, nil)

	body := `{"name":"validate_ingredient","arguments":{"name":"oats","quantity":40,"unit":"g"}}`

	tests := []struct {
		name   string
		apiKey string
		want   int
	}{
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "other-secret", http.StatusUnauthorized},
		{"valid key", "tool-secret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(t, srv, http.MethodPost, body, tt.apiKey)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestValidateMealTool(t *testing.T) {
	srv, nutritionService, _ := setup(t, "")

	ingredients := []nutrition.MealIngredient{
		{Name: "chicken breast", Quantity: 150, Unit: "g"},
		{Name: "rice", Quantity: 1, Unit: "cup"},
	}
	nutritionService.On("ValidateMeal", mock.Anything, ingredients).Return(&nutrition.MealNutrition{
		TotalCalories: 425,
		TotalProtein:  38,
		Ingredients:   []nutrition.ValidationResult{{Verified: true}, {Verified: true}},
	}, nil)

	w := call(t, srv, http.MethodPost,
		`{"name":"validate_meal","arguments":{"ingredients":[`+
			`{"name":"chicken breast","quantity":150,"unit":"g"},`+
			`{"name":"rice","quantity":1,"unit":"cup"}]}}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var meal nutrition.MealNutrition
	decodeText(t, w, &meal)
	assert.Equal(t, 425.0, meal.TotalCalories)
	assert.Len(t, meal.Ingredients, 2)
	nutritionService.AssertExpectations(t)
}

func TestValidateMealTool_InvalidParams(t *testing.T) {
	srv, nutritionService, _ := setup(t, "")

	tests := []struct {
		name string
		args string
	}{
		{"no ingredients", `{}`},
		{"wrong type", `{"ingredients":"rice"}`},
		{"negative quantity", `{"ingredients":[{"name":"rice","quantity":-1,"unit":"cup"}]}`},
		{"too many", `{"ingredients":[` + strings.TrimSuffix(strings.Repeat(`{"name":"rice","quantity":1,"unit":"g"},`, 51), ",") + `]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(t, srv, http.MethodPost, `{"name":"validate_meal","arguments":`+tt.args+`}`, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	nutritionService.AssertNotCalled(t, "ValidateMeal", mock.Anything, mock.Anything)
}

func TestValidateIngredientTool(t *testing.T) {
	srv, nutritionService, _ := setup(t, "")

	calories := 165.0
	fdcID := 171077
	nutritionService.On("ValidateIngredient", mock.Anything, nutrition.MealIngredient{Name: "chicken breast", Quantity: 100, Unit: "g"}).
		Return(&nutrition.ValidationResult{
			Verified:       true,
			Confidence:     nutrition.ConfidenceHigh,
			FdcID:          &fdcID,
			MatchedName:    "Chicken, broilers or fryers, breast, meat only, cooked, roasted",
			ActualCalories: &calories,
		}, nil)

	w := call(t, srv, http.MethodPost, `{"name":"validate_ingredient","arguments":{"name":"chicken breast","quantity":100,"unit":"g"}}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var result nutrition.ValidationResult
	decodeText(t, w, &result)
	assert.True(t, result.Verified)
	assert.Equal(t, nutrition.ConfidenceHigh, result.Confidence)
	require.NotNil(t, result.ActualCalories)
	assert.Equal(t, 165.0, *result.ActualCalories)

	t.Run("blank name", func(t *testing.T) {
		w := call(t, srv, http.MethodPost, `{"name":"validate_ingredient","arguments":{"name":"  "}}`, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("upstream failure", func(t *testing.T) {
		nutritionService.On("ValidateIngredient", mock.Anything, nutrition.MealIngredient{Name: "tofu"}).
			Return(nil, errors.New("connection refused"))
		w := call(t, srv, http.MethodPost, `{"name":"validate_ingredient","arguments":{"name":"tofu"}}`, "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestFindAlternativesTool(t *testing.T) {
	srv, _, exerciseService := setup(t, "")

	exerciseService.On("Alternatives", mock.Anything, "squat", 5).Return([]service.ExerciseAlternative{
		{Exercise: exercisedb.Exercise{ExerciseID: "front", Name: "front squat"}, Score: 100},
		{Exercise: exercisedb.Exercise{ExerciseID: "goblet", Name: "goblet squat"}, Score: 80},
	}, nil)
	exerciseService.On("Alternatives", mock.Anything, "squat", maxAlternativesPerCall).Return([]service.ExerciseAlternative{}, nil)
	exerciseService.On("Alternatives", mock.Anything, "missing", 5).Return(nil, exercisedb.ErrNotFound)

	t.Run("default limit", func(t *testing.T) {
		w := call(t, srv, http.MethodPost, `{"name":"find_alternatives","arguments":{"exercise_id":"squat"}}`, "")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			ExerciseID   string                        `json:"exercise_id"`
			Alternatives []service.ExerciseAlternative `json:"alternatives"`
		}
		decodeText(t, w, &body)
		assert.Equal(t, "squat", body.ExerciseID)
		require.Len(t, body.Alternatives, 2)
		assert.Equal(t, "front", body.Alternatives[0].ExerciseID)
		assert.Equal(t, 100.0, body.Alternatives[0].Score)
	})

	t.Run("limit is capped", func(t *testing.T) {
		w := call(t, srv, http.MethodPost, `{"name":"find_alternatives","arguments":{"exercise_id":"squat","limit":500}}`, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown exercise", func(t *testing.T) {
		w := call(t, srv, http.MethodPost, `{"name":"find_alternatives","arguments":{"exercise_id":"missing"}}`, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing id", func(t *testing.T) {
		w := call(t, srv, http.MethodPost, `{"name":"find_alternatives","arguments":{}}`, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	exerciseService.AssertExpectations(t)
}
