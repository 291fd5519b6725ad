package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/fitplate/backend/internal/middleware"
	"github.com/pageza/fitplate/backend/internal/service"
	"github.com/pageza/fitplate/backend/internal/similarity"
	"github.com/pageza/fitplate/backend/internal/testhelpers"
	"github.com/pageza/fitplate/backend/internal/types"
)

const testJWTSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// testEnv wires real services over SQLite with mocked upstreams.
type testEnv struct {
	router   *gin.Engine
	db       *gorm.DB
	catalog  *testhelpers.MockCatalogClient
	foods    *testhelpers.MockFoodSearcher
	llm      *testhelpers.MockChatCompleter
	userID   uuid.UUID
	token    string
	services *Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithRedis(t, nil)
}

// newTestEnvWithRedis enables plan drafts and a plan generation limit of
// two requests per hour.
func newTestEnvWithRedis(t *testing.T, rdb *redis.Client) *testEnv {
	t.Helper()

	db := testhelpers.SetupSQLite(t)
	env := &testEnv{
		db:      db,
		catalog: new(testhelpers.MockCatalogClient),
		foods:   new(testhelpers.MockFoodSearcher),
		llm:     new(testhelpers.MockChatCompleter),
		userID:  uuid.New(),
	}

	auth := service.NewAuthService(db, testJWTSecret)
	profiles := service.NewProfileService(db)
	exercises := service.NewExerciseService(env.catalog, nil, nil, similarity.DefaultWeights)
	nutritionService := service.NewNutritionService(env.foods, nil)

	env.services = &Services{
		DB:        db,
		Auth:      auth,
		Profiles:  profiles,
		Exercises: exercises,
		Images:    service.NewImageService("", "", nil, nil),
		Nutrition: nutritionService,
		Plans:     service.NewPlanService(db, rdb, env.llm, nutritionService, exercises, profiles),
		Workouts:  service.NewWorkoutService(db),
	}
	if rdb != nil {
		env.services.PlanLimiter = middleware.NewRateLimiter(rdb, middleware.RateLimitConfig{
			Window:    time.Hour,
			Limit:     2,
			KeyPrefix: "rate_limit:plan_generation",
		})
	}

	token, err := auth.GenerateToken(&types.TokenClaims{UserID: env.userID, Email: "lifter@example.com"}, time.Hour)
	require.NoError(t, err)
	env.token = token

	env.router = gin.New()
	RegisterRoutes(env.router, env.services)
	return env
}

// do sends an authenticated request with an optional JSON body.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader).WithContext(context.Background())
	req.Header.Set("Authorization", "Bearer "+e.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}
