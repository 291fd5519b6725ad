package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pageza/fitplate/backend/internal/exercisedb"
	"github.com/pageza/fitplate/backend/internal/models"
	"github.com/pageza/fitplate/backend/internal/nutrition"
	"github.com/pageza/fitplate/backend/internal/types"
)

var (
	ErrDraftNotFound     = errors.New("draft not found")
	ErrPlanNotFound      = errors.New("plan not found")
	ErrDraftsUnavailable = errors.New("plan drafts require Redis")
	ErrInvalidPlan       = errors.New("model returned an invalid plan")
)

const draftTTL = 24 * time.Hour

// PlanDraft is a generated plan waiting in Redis to be saved or discarded.
type PlanDraft struct {
	ID        string          `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Kind      models.PlanKind `json:"kind"`
	Title     string          `json:"title"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// MealPlan is the content of a meal plan.
type MealPlan struct {
	Title string        `json:"title"`
	Days  []MealPlanDay `json:"days"`
}

type MealPlanDay struct {
	Day           int           `json:"day"`
	Meals         []PlannedMeal `json:"meals"`
	TotalCalories float64       `json:"total_calories"`
	TotalProtein  float64       `json:"total_protein"`
}

// PlannedMeal is one meal of a plan. Nutrition is nil when the ingredients
// could not be checked against the food database.
type PlannedMeal struct {
	Name         string                     `json:"name"`
	Type         string                     `json:"type"`
	Ingredients  []nutrition.MealIngredient `json:"ingredients"`
	Instructions string                     `json:"instructions,omitempty"`
	Nutrition    *nutrition.MealNutrition   `json:"nutrition,omitempty"`
}

// WorkoutPlan is the content of a workout plan.
type WorkoutPlan struct {
	Title string           `json:"title"`
	Days  []WorkoutPlanDay `json:"days"`
}

type WorkoutPlanDay struct {
	Day       int               `json:"day"`
	Focus     string            `json:"focus"`
	Exercises []PlannedExercise `json:"exercises"`
}

// PlannedExercise is one exercise of a workout day. ExerciseID and GifURL are
// filled in when the name resolves to a catalog exercise.
type PlannedExercise struct {
	Name        string `json:"name"`
	ExerciseID  string `json:"exercise_id,omitempty"`
	GifURL      string `json:"gif_url,omitempty"`
	Sets        int    `json:"sets"`
	Reps        string `json:"reps"`
	RestSeconds int    `json:"rest_seconds"`
	Notes       string `json:"notes,omitempty"`
}

// ExerciseFinder resolves exercise names to catalog entries.
type ExerciseFinder interface {
	Search(ctx context.Context, query string, limit int) ([]exercisedb.Exercise, error)
}

// PlanService generates meal and workout plans, keeps them as drafts, and
// stores the ones the user saves.
type PlanService struct {
	db        *gorm.DB
	redis     *redis.Client
	llm       ChatCompleter
	meals     MealValidator
	exercises ExerciseFinder
	profiles  IProfileService
}

var _ IPlanService = (*PlanService)(nil)

// NewPlanService creates a PlanService. llm may be nil, in which case
// generation fails with ErrLLMDisabled; meals and exercises may be nil to
// skip nutrition checks and catalog lookups.
func NewPlanService(db *gorm.DB, rdb *redis.Client, llm ChatCompleter, meals MealValidator, exercises ExerciseFinder, profiles IProfileService) *PlanService {
	return &PlanService{
		db:        db,
		redis:     rdb,
		llm:       llm,
		meals:     meals,
		exercises: exercises,
		profiles:  profiles,
	}
}

// GenerateMealPlan asks the model for a meal plan, checks each meal's
// ingredients against the food database, and stores the result as a draft.
func (s *PlanService) GenerateMealPlan(ctx context.Context, userID uuid.UUID, req *types.MealPlanRequest) (*PlanDraft, error) {
	if s.llm == nil {
		return nil, ErrLLMDisabled
	}
	if s.redis == nil {
		return nil, ErrDraftsUnavailable
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	log.Printf("[PlanService] Generating meal plan for user %s", userID)
	raw, err := s.llm.Complete(ctx, mealPlanSystemPrompt, buildMealPlanPrompt(profile, req))
	if err != nil {
		return nil, fmt.Errorf("failed to generate meal plan: %w", err)
	}

	var plan MealPlan
	if err := decodePlan(raw, &plan); err != nil {
		return nil, err
	}
	if len(plan.Days) == 0 {
		return nil, fmt.Errorf("%w: no days", ErrInvalidPlan)
	}

	s.addNutrition(ctx, &plan)
	if plan.Title == "" {
		plan.Title = fmt.Sprintf("%d-day meal plan", len(plan.Days))
	}

	return s.saveDraft(ctx, userID, models.PlanKindMeal, plan.Title, plan)
}

// addNutrition validates every meal. Meals that fail keep a nil Nutrition;
// missing FoodData Central credentials stop the pass early.
func (s *PlanService) addNutrition(ctx context.Context, plan *MealPlan) {
	if s.meals == nil {
		return
	}

	for d := range plan.Days {
		day := &plan.Days[d]
		day.TotalCalories, day.TotalProtein = 0, 0

		for m := range day.Meals {
			meal := &day.Meals[m]
			if len(meal.Ingredients) == 0 {
				continue
			}

			result, err := s.meals.ValidateMeal(ctx, meal.Ingredients)
			if err != nil {
				if errors.Is(err, nutrition.ErrMissingAPIKey) {
					log.Printf("[PlanService] Skipping nutrition checks: %v", err)
					return
				}
				log.Printf("[PlanService] Failed to validate meal %q: %v", meal.Name, err)
				continue
			}

			meal.Nutrition = result
			day.TotalCalories += result.TotalCalories
			day.TotalProtein += result.TotalProtein
		}
	}
}

// GenerateWorkoutPlan asks the model for a workout plan, links exercises to
// the catalog where possible, and stores the result as a draft.
func (s *PlanService) GenerateWorkoutPlan(ctx context.Context, userID uuid.UUID, req *types.WorkoutPlanRequest) (*PlanDraft, error) {
	if s.llm == nil {
		return nil, ErrLLMDisabled
	}
	if s.redis == nil {
		return nil, ErrDraftsUnavailable
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	log.Printf("[PlanService] Generating workout plan for user %s", userID)
	raw, err := s.llm.Complete(ctx, workoutPlanSystemPrompt, buildWorkoutPlanPrompt(profile, req))
	if err != nil {
		return nil, fmt.Errorf("failed to generate workout plan: %w", err)
	}

	var plan WorkoutPlan
	if err := decodePlan(raw, &plan); err != nil {
		return nil, err
	}
	if len(plan.Days) == 0 {
		return nil, fmt.Errorf("%w: no days", ErrInvalidPlan)
	}

	s.linkExercises(ctx, &plan)
	if plan.Title == "" {
		plan.Title = fmt.Sprintf("%d-day workout plan", len(plan.Days))
	}

	return s.saveDraft(ctx, userID, models.PlanKindWorkout, plan.Title, plan)
}

func (s *PlanService) linkExercises(ctx context.Context, plan *WorkoutPlan) {
	if s.exercises == nil {
		return
	}

	resolved := make(map[string]*exercisedb.Exercise)
	for d := range plan.Days {
		for e := range plan.Days[d].Exercises {
			pe := &plan.Days[d].Exercises[e]
			name := strings.ToLower(strings.TrimSpace(pe.Name))
			if name == "" {
				continue
			}

			ex, seen := resolved[name]
			if !seen {
				found, err := s.exercises.Search(ctx, name, 1)
				if err != nil {
					log.Printf("[PlanService] Failed to resolve exercise %q: %v", pe.Name, err)
				} else if len(found) > 0 {
					ex = &found[0]
				}
				resolved[name] = ex
			}
			if ex != nil {
				pe.ExerciseID = ex.ExerciseID
				pe.GifURL = ex.GifURL
			}
		}
	}
}

func (s *PlanService) saveDraft(ctx context.Context, userID uuid.UUID, kind models.PlanKind, title string, content interface{}) (*PlanDraft, error) {
	body, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan: %w", err)
	}

	now := time.Now()
	draft := &PlanDraft{
		ID:        uuid.New().String(),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Content:   body,
		CreatedAt: now,
		ExpiresAt: now.Add(draftTTL),
	}

	data, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := s.redis.Set(ctx, draftKey(draft.ID), data, draftTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to save draft to Redis: %w", err)
	}

	return draft, nil
}

// GetDraft returns a draft owned by userID.
func (s *PlanService) GetDraft(ctx context.Context, userID uuid.UUID, draftID string) (*PlanDraft, error) {
	if s.redis == nil {
		return nil, ErrDraftsUnavailable
	}

	data, err := s.redis.Get(ctx, draftKey(draftID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	var draft PlanDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	if draft.UserID != userID {
		return nil, ErrDraftNotFound
	}

	return &draft, nil
}

// DeleteDraft discards a draft owned by userID.
func (s *PlanService) DeleteDraft(ctx context.Context, userID uuid.UUID, draftID string) error {
	if _, err := s.GetDraft(ctx, userID, draftID); err != nil {
		return err
	}
	if err := s.redis.Del(ctx, draftKey(draftID)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// SaveDraft persists a draft as a plan and removes the draft. An empty title
// keeps the generated one. A draft is saved at most once; concurrent saves of
// the same draft get ErrDraftNotFound for all but one caller.
func (s *PlanService) SaveDraft(ctx context.Context, userID uuid.UUID, draftID, title string) (*models.Plan, error) {
	draft, err := s.GetDraft(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}

	// Whoever removes the key owns the save.
	removed, err := s.redis.Del(ctx, draftKey(draftID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to claim draft: %w", err)
	}
	if removed == 0 {
		return nil, ErrDraftNotFound
	}

	if title = strings.TrimSpace(title); title == "" {
		title = draft.Title
	}

	plan := &models.Plan{
		UserID:  userID,
		Kind:    draft.Kind,
		Title:   title,
		Content: datatypes.JSON(draft.Content),
	}
	if err := s.db.WithContext(ctx).Create(plan).Error; err != nil {
		s.restoreDraft(ctx, draft)
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}

	return plan, nil
}

// restoreDraft puts a claimed draft back for the rest of its lifetime so the
// user can retry the save.
func (s *PlanService) restoreDraft(ctx context.Context, draft *PlanDraft) {
	ttl := time.Until(draft.ExpiresAt)
	if ttl <= 0 {
		return
	}
	data, err := json.Marshal(draft)
	if err == nil {
		err = s.redis.Set(ctx, draftKey(draft.ID), data, ttl).Err()
	}
	if err != nil {
		log.Printf("[PlanService] Failed to restore draft %s: %v", draft.ID, err)
	}
}

// ListPlans returns the user's saved plans, newest first. An empty kind
// lists every kind.
func (s *PlanService) ListPlans(ctx context.Context, userID uuid.UUID, kind models.PlanKind) ([]models.Plan, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var plans []models.Plan
	if err := query.Order("created_at DESC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

func (s *PlanService) GetPlan(ctx context.Context, userID, planID uuid.UUID) (*models.Plan, error) {
	var plan models.Plan
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", planID, userID).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return &plan, nil
}

func (s *PlanService) DeletePlan(ctx context.Context, userID, planID uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", planID, userID).Delete(&models.Plan{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// CountPlans returns the number of saved plans per kind.
func (s *PlanService) CountPlans(ctx context.Context, userID uuid.UUID) (map[models.PlanKind]int64, error) {
	var rows []struct {
		Kind  models.PlanKind
		Count int64
	}
	err := s.db.WithContext(ctx).Model(&models.Plan{}).
		Select("kind, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count plans: %w", err)
	}

	counts := map[models.PlanKind]int64{
		models.PlanKindMeal:    0,
		models.PlanKindWorkout: 0,
	}
	for _, r := range rows {
		counts[r.Kind] = r.Count
	}
	return counts, nil
}

func draftKey(id string) string {
	return fmt.Sprintf("plan:draft:%s", id)
}

// decodePlan parses the model's reply, tolerating a Markdown code fence.
func decodePlan(raw string, out interface{}) error {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	return nil
}
