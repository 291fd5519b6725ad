package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/fitplate/backend/internal/exercisedb"
	"github.com/pageza/fitplate/backend/internal/models"
	"github.com/pageza/fitplate/backend/internal/nutrition"
	"github.com/pageza/fitplate/backend/internal/types"
)

// CatalogClient is the part of the exercise catalog API the services use.
type CatalogClient interface {
	List(ctx context.Context, offset, limit int) ([]exercisedb.Exercise, exercisedb.Metadata, error)
	Get(ctx context.Context, id string) (*exercisedb.Exercise, error)
	ByMuscle(ctx context.Context, muscle string, limit int) ([]exercisedb.Exercise, error)
	ByBodyPart(ctx context.Context, bodyPart string, limit int) ([]exercisedb.Exercise, error)
	Search(ctx context.Context, query string, limit int) ([]exercisedb.Exercise, error)
}

// ChatCompleter sends a system and user prompt to a chat model and returns
// the JSON content of the reply.
type ChatCompleter interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// MealValidator checks a list of ingredients against the food database.
type MealValidator interface {
	ValidateMeal(ctx context.Context, ingredients []nutrition.MealIngredient) (*nutrition.MealNutrition, error)
}

// IAuthService defines the interface for identity-provider token handling
type IAuthService interface {
	ValidateToken(token string) (*types.TokenClaims, error)
	EnsureUser(ctx context.Context, claims *types.TokenClaims) error
}

// IProfileService defines the interface for fitness profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error)
}

// IExerciseService defines the interface for catalog lookups and alternatives
type IExerciseService interface {
	List(ctx context.Context, offset, limit int) ([]exercisedb.Exercise, error)
	Get(ctx context.Context, id string) (*exercisedb.Exercise, error)
	Search(ctx context.Context, query string, limit int) ([]exercisedb.Exercise, error)
	Alternatives(ctx context.Context, id string, limit int) ([]ExerciseAlternative, error)
	SyncCatalog(ctx context.Context) (int, error)
}

// INutritionService defines the interface for ingredient and meal validation
type INutritionService interface {
	ValidateIngredient(ctx context.Context, ingredient nutrition.MealIngredient) (*nutrition.ValidationResult, error)
	ValidateMeal(ctx context.Context, ingredients []nutrition.MealIngredient) (*nutrition.MealNutrition, error)
}

// IPlanService defines the interface for generated plans and their drafts
type IPlanService interface {
	GenerateMealPlan(ctx context.Context, userID uuid.UUID, req *types.MealPlanRequest) (*PlanDraft, error)
	GenerateWorkoutPlan(ctx context.Context, userID uuid.UUID, req *types.WorkoutPlanRequest) (*PlanDraft, error)
	GetDraft(ctx context.Context, userID uuid.UUID, draftID string) (*PlanDraft, error)
	DeleteDraft(ctx context.Context, userID uuid.UUID, draftID string) error
	SaveDraft(ctx context.Context, userID uuid.UUID, draftID, title string) (*models.Plan, error)
	ListPlans(ctx context.Context, userID uuid.UUID, kind models.PlanKind) ([]models.Plan, error)
	GetPlan(ctx context.Context, userID, planID uuid.UUID) (*models.Plan, error)
	DeletePlan(ctx context.Context, userID, planID uuid.UUID) error
	CountPlans(ctx context.Context, userID uuid.UUID) (map[models.PlanKind]int64, error)
}

// IWorkoutService defines the interface for workout logging
type IWorkoutService interface {
	StartSession(ctx context.Context, userID uuid.UUID, req *types.StartSessionRequest) (*models.WorkoutSession, error)
	ListSessions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WorkoutSession, error)
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*models.WorkoutSession, error)
	LogSet(ctx context.Context, userID, sessionID uuid.UUID, req *types.LogSetRequest) (*models.WorkoutSet, error)
	DeleteSet(ctx context.Context, userID, sessionID, setID uuid.UUID) error
	CompleteSession(ctx context.Context, userID, sessionID uuid.UUID) (*models.WorkoutSession, error)
	Stats(ctx context.Context, userID uuid.UUID, since time.Time) (*WorkoutStats, error)
	ExportXLSX(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

// IImageService defines the interface for exercise illustrations
type IImageService interface {
	ExerciseImage(ctx context.Context, ex *exercisedb.Exercise) (*ExerciseImage, error)
}
