package nutrition

// Confidence grades how closely a FoodData Central match fits the ingredient name.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// MealIngredient is a free-text ingredient with an amount.
type MealIngredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity" binding:"gte=0"`
	Unit     string  `json:"unit"`
}

// ValidationResult is the outcome of resolving one ingredient. Macro fields
// are nil when no food was matched or the matched food lacks the nutrient.
type ValidationResult struct {
	Verified       bool       `json:"verified"`
	Confidence     Confidence `json:"confidence"`
	FdcID          *int       `json:"fdc_id,omitempty"`
	MatchedName    string     `json:"matched_name,omitempty"`
	ActualCalories *float64   `json:"actual_calories,omitempty"`
	ActualProtein  *float64   `json:"actual_protein,omitempty"`
	ActualCarbs    *float64   `json:"actual_carbs,omitempty"`
	ActualFat      *float64   `json:"actual_fat,omitempty"`
	ActualFiber    *float64   `json:"actual_fiber,omitempty"`
}

// MealNutrition holds the totals for a meal and one result per ingredient,
// in the order the ingredients were given.
type MealNutrition struct {
	TotalCalories float64            `json:"total_calories"`
	TotalProtein  float64            `json:"total_protein"`
	TotalCarbs    float64            `json:"total_carbs"`
	TotalFat      float64            `json:"total_fat"`
	TotalFiber    float64            `json:"total_fiber"`
	Ingredients   []ValidationResult `json:"ingredients"`
}

// unverified is returned for blank names and searches with no matches.
func unverified() *ValidationResult {
	return &ValidationResult{Verified: false, Confidence: ConfidenceLow}
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
