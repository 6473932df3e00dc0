package app

import (
	"maps"
	"slices"

	"vitalplan/internal/domain"
)

func cloneGoals(in []domain.Goal) []domain.Goal {
	if in == nil {
		return nil
	}
	out := make([]domain.Goal, len(in))
	for i, g := range in {
		if g.TargetDate != nil {
			t := *g.TargetDate
			g.TargetDate = &t
		}
		out[i] = g
	}
	return out
}

func cloneUser(u domain.User) domain.User {
	u.DietaryRestrictions = slices.Clone(u.DietaryRestrictions)
	u.Allergies = slices.Clone(u.Allergies)
	u.Goals = cloneGoals(u.Goals)
	return u
}

func cloneDetails(d domain.NutritionDetails) domain.NutritionDetails {
	d.Vitamins = maps.Clone(d.Vitamins)
	d.Minerals = maps.Clone(d.Minerals)
	return d
}

func clonePlan(p domain.DietPlan) domain.DietPlan {
	p.Goals = cloneGoals(p.Goals)
	if p.Meals != nil {
		meals := make([]domain.Meal, len(p.Meals))
		for i, m := range p.Meals {
			m.Ingredients = slices.Clone(m.Ingredients)
			m.Instructions = slices.Clone(m.Instructions)
			if m.NutritionDetails != nil {
				d := cloneDetails(*m.NutritionDetails)
				m.NutritionDetails = &d
			}
			meals[i] = m
		}
		p.Meals = meals
	}
	if p.Supplements != nil {
		sups := make([]domain.Supplement, len(p.Supplements))
		for i, s := range p.Supplements {
			s.Benefits = slices.Clone(s.Benefits)
			sups[i] = s
		}
		p.Supplements = sups
	}
	return p
}

func cloneFood(f domain.ScannedFood) domain.ScannedFood {
	f.NutritionDetails = cloneDetails(f.NutritionDetails)
	f.Insights = slices.Clone(f.Insights)
	f.ImageData = slices.Clone(f.ImageData)
	return f
}
