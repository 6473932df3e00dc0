package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Macros holds macronutrient grams.
type Macros struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// Add returns the element-wise sum of m and o.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Protein: m.Protein + o.Protein,
		Carbs:   m.Carbs + o.Carbs,
		Fat:     m.Fat + o.Fat,
	}
}

// NutritionDetails carries the micronutrient breakdown shown for meals and scans.
type NutritionDetails struct {
	Vitamins     map[string]string `json:"vitamins"`
	Minerals     map[string]string `json:"minerals"`
	Fiber        float64           `json:"fiber"`
	Sugar        float64           `json:"sugar"`
	Sodium       float64           `json:"sodium"`
	Cholesterol  float64           `json:"cholesterol"`
	SaturatedFat float64           `json:"saturated_fat"`
	TransFat     float64           `json:"trans_fat"`
}

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealTypes lists the daily slots in serving order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Meal is a single entry of a diet plan.
type Meal struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Type             MealType          `json:"type"`
	Description      string            `json:"description"`
	Ingredients      []string          `json:"ingredients"`
	Calories         int               `json:"calories"`
	Macros           Macros            `json:"macros"`
	PrepTime         int               `json:"prep_time"`
	Difficulty       Difficulty        `json:"difficulty"`
	Instructions     []string          `json:"instructions,omitempty"`
	NutritionDetails *NutritionDetails `json:"nutrition_details,omitempty"`
	ImageURL         string            `json:"image_url,omitempty"`
}

// Supplement is a recommended supplement that can be bought.
type Supplement struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Dosage      string          `json:"dosage"`
	Timing      string          `json:"timing"`
	Benefits    []string        `json:"benefits"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
	Rating      float64         `json:"rating,omitempty"`
	Reviews     int             `json:"reviews,omitempty"`
	Brand       string          `json:"brand,omitempty"`
}

// DietPlan is regenerated wholesale on every generate action. TotalCalories
// and Macros are always the exact sums over Meals.
type DietPlan struct {
	ID            string       `json:"id"`
	UserID        string       `json:"user_id"`
	Goals         []Goal       `json:"goals"`
	Meals         []Meal       `json:"meals"`
	Supplements   []Supplement `json:"supplements"`
	TotalCalories int          `json:"total_calories"`
	Macros        Macros       `json:"macros"`
	GeneratedAt   time.Time    `json:"generated_at"`
}
