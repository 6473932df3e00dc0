package onboarding

import (
	"errors"
	"math"

	"vitalplan/internal/domain"
)

var (
	ErrUnknownGoal     = errors.New("unknown goal type")
	ErrInvalidPriority = errors.New("priority must be low, medium or high")
)

// GoalOption is one of the fixed goals offered on the selection step.
type GoalOption struct {
	Type        domain.GoalType
	Title       string
	Description string
	Benefits    []string
}

var goalOptions = []GoalOption{
	{
		Type:        domain.GoalMuscleBuilding,
		Title:       "Building Muscle",
		Description: "Optimize your nutrition for muscle growth and recovery",
		Benefits:    []string{"High protein recommendations", "Pre/post workout meals", "Muscle recovery foods"},
	},
	{
		Type:        domain.GoalGlowingSkin,
		Title:       "Glowing Skin",
		Description: "Nourish your skin from within with targeted nutrition",
		Benefits:    []string{"Antioxidant-rich foods", "Hydration guidance", "Anti-inflammatory diet"},
	},
	{
		Type:        domain.GoalHealthyAging,
		Title:       "Healthy Aging",
		Description: "Support longevity and vitality through smart nutrition choices",
		Benefits:    []string{"Brain-boosting nutrients", "Bone health support", "Cellular protection"},
	},
	{
		Type:        domain.GoalHealthConditions,
		Title:       "Managing Health Conditions",
		Description: "Dietary support for specific health concerns and conditions",
		Benefits:    []string{"Condition-specific plans", "Symptom management", "Medical compliance"},
	},
}

// GoalOptions returns the selectable goals in display order.
func GoalOptions() []GoalOption {
	out := make([]GoalOption, len(goalOptions))
	copy(out, goalOptions)
	return out
}

// LookupGoal finds the option for a goal type.
func LookupGoal(t domain.GoalType) (GoalOption, bool) {
	for _, opt := range goalOptions {
		if opt.Type == t {
			return opt, true
		}
	}
	return GoalOption{}, false
}

// BMI returns weight / height² rounded to one decimal, or 0 when either
// measurement is missing.
func BMI(heightCm, weightKg float64) float64 {
	if heightCm <= 0 || weightKg <= 0 {
		return 0
	}
	m := heightCm / 100
	return math.Round(weightKg/(m*m)*10) / 10
}

// BMICategory buckets a BMI value.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}
