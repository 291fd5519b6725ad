package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/pageza/fitplate/backend/internal/models"
	"github.com/pageza/fitplate/backend/internal/types"
)

const mealPlanSystemPrompt = `You are a sports nutritionist. Reply with a JSON object of this shape:
{
    "title": "short plan title",
    "days": [
        {
            "day": 1,
            "meals": [
                {
                    "name": "Greek yogurt bowl",
                    "type": "breakfast",
                    "ingredients": [
                        {"name": "plain greek yogurt", "quantity": 200, "unit": "g"},
                        {"name": "blueberries", "quantity": 0.5, "unit": "cup"}
                    ],
                    "instructions": "one or two sentences"
                }
            ]
        }
    ]
}

Use plain generic ingredient names a food database would recognise.
quantity must be a number. unit must be one of g, kg, oz, lb, ml, l, cup, tbsp, tsp, piece.
Respect every allergy and exclusion.`

const workoutPlanSystemPrompt = `You are a strength and conditioning coach. Reply with a JSON object of this shape:
{
    "title": "short plan title",
    "days": [
        {
            "day": 1,
            "focus": "upper body push",
            "exercises": [
                {"name": "barbell bench press", "sets": 4, "reps": "6-8", "rest_seconds": 120, "notes": "optional cue"}
            ]
        }
    ]
}

Use common exercise names. sets and rest_seconds must be numbers; reps is a string.
Only use equipment the athlete has.`

func buildMealPlanPrompt(profile *models.UserProfile, req *types.MealPlanRequest) string {
	days := req.Days
	if days == 0 {
		days = 3
	}
	mealsPerDay := req.MealsPerDay
	if mealsPerDay == 0 {
		mealsPerDay = 3
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a %d-day meal plan with %d meals per day.\n", days, mealsPerDay)

	calories := req.CalorieGoal
	if calories == 0 && profile.DailyCalorieTarget != nil {
		calories = *profile.DailyCalorieTarget
	}
	if calories > 0 {
		fmt.Fprintf(&b, "Daily calorie target: %d kcal.\n", calories)
	}

	writeProfile(&b, profile)

	prefs := append(append([]string{}, profile.DietaryPreferences...), req.Preferences...)
	if len(prefs) > 0 {
		fmt.Fprintf(&b, "Dietary preferences: %s.\n", strings.Join(prefs, ", "))
	}
	exclusions := append(append([]string{}, profile.Allergies...), req.Exclusions...)
	if len(exclusions) > 0 {
		fmt.Fprintf(&b, "Never include: %s.\n", strings.Join(exclusions, ", "))
	}
	if req.Instructions != "" {
		fmt.Fprintf(&b, "Additional instructions: %s\n", req.Instructions)
	}

	return b.String()
}

func buildWorkoutPlanPrompt(profile *models.UserProfile, req *types.WorkoutPlanRequest) string {
	days := req.DaysPerWeek
	if days == 0 {
		days = 3
	}
	minutes := req.SessionMinutes
	if minutes == 0 {
		minutes = 45
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a weekly workout plan with %d training days of about %d minutes each.\n", days, minutes)
	writeProfile(&b, profile)

	equipment := req.Equipment
	if len(equipment) == 0 {
		equipment = profile.Equipment
	}
	if len(equipment) > 0 {
		fmt.Fprintf(&b, "Available equipment: %s.\n", strings.Join(equipment, ", "))
	} else {
		b.WriteString("Available equipment: body weight only.\n")
	}
	if len(req.FocusBodyParts) > 0 {
		fmt.Fprintf(&b, "Emphasise: %s.\n", strings.Join(req.FocusBodyParts, ", "))
	}
	if req.Instructions != "" {
		fmt.Fprintf(&b, "Additional instructions: %s\n", req.Instructions)
	}

	return b.String()
}

func writeProfile(b *strings.Builder, profile *models.UserProfile) {
	if profile.Goal != "" {
		fmt.Fprintf(b, "Goal: %s.\n", strings.ReplaceAll(profile.Goal, "_", " "))
	}
	if profile.ExperienceLevel != "" {
		fmt.Fprintf(b, "Experience level: %s.\n", profile.ExperienceLevel)
	}
	if profile.WeightKg != nil {
		fmt.Fprintf(b, "Body weight: %.1f kg.\n", *profile.WeightKg)
	}
	if profile.HeightCm != nil {
		fmt.Fprintf(b, "Height: %.0f cm.\n", *profile.HeightCm)
	}
	if profile.BirthYear != nil {
		fmt.Fprintf(b, "Age: %d.\n", time.Now().Year()-*profile.BirthYear)
	}
}
