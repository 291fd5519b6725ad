package types

import (
	"time"

	"github.com/pageza/fitplate/backend/internal/nutrition"
)

// UpdateProfileRequest represents the request body for updating a fitness profile.
// Nil fields are left unchanged.
type UpdateProfileRequest struct {
	DisplayName        *string  `json:"display_name" binding:"omitempty,max=100"`
	HeightCm           *float64 `json:"height_cm" binding:"omitempty,gt=0,lt=300"`
	WeightKg           *float64 `json:"weight_kg" binding:"omitempty,gt=0,lt=500"`
	BirthYear          *int     `json:"birth_year" binding:"omitempty,gt=1900"`
	Goal               *string  `json:"goal" binding:"omitempty,oneof=lose_weight build_muscle general_fitness endurance strength"`
	ExperienceLevel    *string  `json:"experience_level" binding:"omitempty,oneof=beginner intermediate advanced"`
	DailyCalorieTarget *int     `json:"daily_calorie_target" binding:"omitempty,gt=0"`
	DietaryPreferences []string `json:"dietary_preferences"`
	Allergies          []string `json:"allergies"`
	Equipment          []string `json:"equipment"`
}

// ValidateIngredientRequest is the body of POST /nutrition/validate.
type ValidateIngredientRequest struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity" binding:"gte=0"`
	Unit     string  `json:"unit"`
}

// ValidateMealRequest is the body of POST /nutrition/validate-meal.
type ValidateMealRequest struct {
	Ingredients []nutrition.MealIngredient `json:"ingredients" binding:"dive"`
}

// StartSessionRequest starts a workout session.
type StartSessionRequest struct {
	Name      string     `json:"name" binding:"max=100"`
	Notes     string     `json:"notes" binding:"max=2000"`
	PlanID    string     `json:"plan_id"`
	StartedAt *time.Time `json:"started_at"`
}

// LogSetRequest records one set in a workout session.
type LogSetRequest struct {
	ExerciseID      string     `json:"exercise_id" binding:"required"`
	ExerciseName    string     `json:"exercise_name"`
	Reps            int        `json:"reps" binding:"gte=0"`
	WeightKg        float64    `json:"weight_kg" binding:"gte=0"`
	RPE             *float64   `json:"rpe" binding:"omitempty,gte=1,lte=10"`
	DurationSeconds *int       `json:"duration_seconds" binding:"omitempty,gte=0"`
	PerformedAt     *time.Time `json:"performed_at"`
}

// MealPlanRequest asks for a generated meal plan.
type MealPlanRequest struct {
	Days         int      `json:"days" binding:"omitempty,gte=1,lte=7"`
	MealsPerDay  int      `json:"meals_per_day" binding:"omitempty,gte=1,lte=6"`
	CalorieGoal  int      `json:"calorie_goal" binding:"omitempty,gt=0"`
	Preferences  []string `json:"preferences"`
	Exclusions   []string `json:"exclusions"`
	Instructions string   `json:"instructions" binding:"max=1000"`
}

// WorkoutPlanRequest asks for a generated workout plan.
type WorkoutPlanRequest struct {
	DaysPerWeek    int      `json:"days_per_week" binding:"omitempty,gte=1,lte=7"`
	SessionMinutes int      `json:"session_minutes" binding:"omitempty,gte=10,lte=240"`
	FocusBodyParts []string `json:"focus_body_parts"`
	Equipment      []string `json:"equipment"`
	Instructions   string   `json:"instructions" binding:"max=1000"`
}

// SavePlanRequest optionally renames a draft when it is saved.
type SavePlanRequest struct {
	Title string `json:"title" binding:"max=255"`
}
