package domain

import "time"

// Gender is the self-reported gender of a user.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ActivityLevel describes how physically active a user is.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very-active"
)

// Profile defaults used when a saved profile omits a field.
const (
	DefaultAge    = 25
	DefaultHeight = 170.0
	DefaultWeight = 70.0
)

// User is the profile captured during onboarding. It is always replaced
// wholesale, never patched.
type User struct {
	ID                  string        `json:"id"`
	Name                string        `json:"name"`
	Email               string        `json:"email"`
	Age                 int           `json:"age"`
	Height              float64       `json:"height"`
	Weight              float64       `json:"weight"`
	Gender              Gender        `json:"gender"`
	ActivityLevel       ActivityLevel `json:"activity_level"`
	DietaryRestrictions []string      `json:"dietary_restrictions"`
	Allergies           []string      `json:"allergies"`
	Goals               []Goal        `json:"goals"`
	CreatedAt           time.Time     `json:"created_at"`
	Avatar              string        `json:"avatar,omitempty"`
	Bio                 string        `json:"bio,omitempty"`
	Location            string        `json:"location,omitempty"`
}

// GoalType identifies one of the fixed wellness objectives.
type GoalType string

const (
	GoalMuscleBuilding   GoalType = "muscle-building"
	GoalGlowingSkin      GoalType = "glowing-skin"
	GoalHealthyAging     GoalType = "healthy-aging"
	GoalHealthConditions GoalType = "health-conditions"
)

// Priority is the tri-state importance of a goal.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Goal is a typed wellness objective selected by the user.
type Goal struct {
	ID          string     `json:"id"`
	Type        GoalType   `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
}
