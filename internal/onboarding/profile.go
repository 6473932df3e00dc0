package onboarding

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"vitalplan/internal/domain"
)

// ProfileInput is the profile form as submitted. Numeric fields hold zero
// when the user left them empty, which fails validation.
type ProfileInput struct {
	Name                string               `json:"name" validate:"required"`
	Email               string               `json:"email" validate:"required"`
	Age                 int                  `json:"age" validate:"min=13,max=120"`
	Height              float64              `json:"height" validate:"min=100,max=250"`
	Weight              float64              `json:"weight" validate:"min=30,max=300"`
	Gender              domain.Gender        `json:"gender" validate:"omitempty,oneof=male female other"`
	ActivityLevel       domain.ActivityLevel `json:"activity_level" validate:"omitempty,oneof=sedentary light moderate active very-active"`
	DietaryRestrictions []string             `json:"dietary_restrictions"`
	Allergies           []string             `json:"allergies"`
	Avatar              string               `json:"avatar"`
	Bio                 string               `json:"bio"`
	Location            string               `json:"location"`
}

// NewProfileInput pre-fills the form from an existing user, or with the
// profile defaults when there is none.
func NewProfileInput(u *domain.User) ProfileInput {
	if u == nil {
		return ProfileInput{
			Age:           domain.DefaultAge,
			Height:        domain.DefaultHeight,
			Weight:        domain.DefaultWeight,
			Gender:        domain.GenderOther,
			ActivityLevel: domain.ActivityModerate,
		}
	}
	return ProfileInput{
		Name:                u.Name,
		Email:               u.Email,
		Age:                 u.Age,
		Height:              u.Height,
		Weight:              u.Weight,
		Gender:              u.Gender,
		ActivityLevel:       u.ActivityLevel,
		DietaryRestrictions: append([]string(nil), u.DietaryRestrictions...),
		Allergies:           append([]string(nil), u.Allergies...),
		Avatar:              u.Avatar,
		Bio:                 u.Bio,
		Location:            u.Location,
	}
}

// FieldErrors maps a form field name to a user-facing message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, fe[k])
	}
	return "invalid profile: " + strings.Join(parts, "; ")
}

var fieldMessages = map[string]string{
	"name":           "Name is required",
	"email":          "Email is required",
	"age":            "Please enter a valid age between 13 and 120",
	"height":         "Please enter a valid height in cm",
	"weight":         "Please enter a valid weight in kg",
	"gender":         "Please choose male, female or other",
	"activity_level": "Please choose a valid activity level",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateProfile checks the form and returns FieldErrors, or nil.
func ValidateProfile(in ProfileInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate profile: %w", err)
	}
	fe := make(FieldErrors, len(verrs))
	for _, ve := range verrs {
		msg, ok := fieldMessages[ve.Field()]
		if !ok {
			msg = fmt.Sprintf("invalid value for %s", ve.Field())
		}
		fe[ve.Field()] = msg
	}
	return fe
}

// BuildUser rebuilds the whole user from the form. Identity and creation
// time are carried over from existing when present.
func BuildUser(in ProfileInput, existing *domain.User, now time.Time) domain.User {
	u := domain.User{
		ID:                  uuid.NewString(),
		Name:                strings.TrimSpace(in.Name),
		Email:               strings.TrimSpace(in.Email),
		Age:                 in.Age,
		Height:              in.Height,
		Weight:              in.Weight,
		Gender:              in.Gender,
		ActivityLevel:       in.ActivityLevel,
		DietaryRestrictions: append([]string{}, in.DietaryRestrictions...),
		Allergies:           append([]string{}, in.Allergies...),
		Goals:               []domain.Goal{},
		CreatedAt:           now,
		Avatar:              in.Avatar,
		Bio:                 in.Bio,
		Location:            in.Location,
	}
	if u.Age == 0 {
		u.Age = domain.DefaultAge
	}
	if u.Height == 0 {
		u.Height = domain.DefaultHeight
	}
	if u.Weight == 0 {
		u.Weight = domain.DefaultWeight
	}
	if u.Gender == "" {
		u.Gender = domain.GenderOther
	}
	if u.ActivityLevel == "" {
		u.ActivityLevel = domain.ActivityModerate
	}
	if existing != nil {
		u.ID = existing.ID
		u.CreatedAt = existing.CreatedAt
		u.Goals = append(u.Goals, existing.Goals...)
	}
	return u
}

// SubmitProfile validates the form and, on success, returns the rebuilt
// user. During onboarding it advances to goal selection; in edit-only mode
// the step is left alone. On failure the machine does not move and the
// error is FieldErrors.
func (m *Machine) SubmitProfile(in ProfileInput, existing *domain.User, now time.Time) (domain.User, error) {
	if err := ValidateProfile(in); err != nil {
		return domain.User{}, err
	}
	u := BuildUser(in, existing, now)
	m.profileSaved()
	return u, nil
}
