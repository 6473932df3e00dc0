package scanner

import "vitalplan/internal/domain"

var foodCatalog = []domain.ScannedFood{
	{
		ID:          "food-apple",
		Name:        "Red Apple",
		Brand:       "Fresh Produce",
		Barcode:     "fresh-apple",
		Calories:    95,
		ServingSize: "1 medium apple (182g)",
		Macros:      domain.Macros{Protein: 0.5, Carbs: 25, Fat: 0.3},
		NutritionDetails: domain.NutritionDetails{
			Vitamins:     map[string]string{"Vitamin C": "14% DV", "Vitamin K": "5% DV"},
			Minerals:     map[string]string{"Potassium": "6% DV", "Manganese": "3% DV"},
			Fiber:        4.4,
			Sugar:        19,
			Sodium:       2,
			SaturatedFat: 0.1,
		},
		ImageURL:   "https://images.pexels.com/photos/102104/pexels-photo-102104.jpeg?auto=compress&cs=tinysrgb&w=400",
		Confidence: 0.95,
		Insights: []string{
			"Rich in antioxidants and fiber",
			"Great for heart health",
			"Natural source of energy",
			"Supports digestive health",
		},
	},
	{
		ID:          "food-banana",
		Name:        "Banana",
		Brand:       "Fresh Produce",
		Barcode:     "fresh-banana",
		Calories:    105,
		ServingSize: "1 medium banana (118g)",
		Macros:      domain.Macros{Protein: 1.3, Carbs: 27, Fat: 0.4},
		NutritionDetails: domain.NutritionDetails{
			Vitamins:     map[string]string{"Vitamin B6": "20% DV", "Vitamin C": "17% DV"},
			Minerals:     map[string]string{"Potassium": "12% DV", "Manganese": "16% DV"},
			Fiber:        3.1,
			Sugar:        14,
			Sodium:       1,
			SaturatedFat: 0.1,
		},
		ImageURL:   "https://images.pexels.com/photos/61127/pexels-photo-61127.jpeg?auto=compress&cs=tinysrgb&w=400",
		Confidence: 0.92,
		Insights: []string{
			"Excellent source of potassium",
			"Natural pre-workout fuel",
			"Supports muscle function",
			"Quick energy boost",
		},
	},
	{
		ID:          "food-sandwich",
		Name:        "Turkey Sandwich",
		Brand:       "Homemade",
		Barcode:     "sandwich-turkey",
		Calories:    320,
		ServingSize: "1 sandwich (150g)",
		Macros:      domain.Macros{Protein: 25, Carbs: 35, Fat: 8},
		NutritionDetails: domain.NutritionDetails{
			Vitamins:     map[string]string{"Niacin": "25% DV", "Vitamin B6": "15% DV"},
			Minerals:     map[string]string{"Selenium": "30% DV", "Phosphorus": "20% DV"},
			Fiber:        4,
			Sugar:        3,
			Sodium:       680,
			Cholesterol:  45,
			SaturatedFat: 2.5,
		},
		ImageURL:   "https://images.pexels.com/photos/1603901/pexels-photo-1603901.jpeg?auto=compress&cs=tinysrgb&w=400",
		Confidence: 0.88,
		Insights: []string{
			"High protein content for muscle building",
			"Balanced macronutrient profile",
			"Good source of B vitamins",
			"Moderate sodium - watch intake",
		},
	},
}

// IsCatalogFood reports whether id belongs to the mock catalog.
func IsCatalogFood(id string) bool {
	for _, f := range foodCatalog {
		if f.ID == id {
			return true
		}
	}
	return false
}

func cloneFood(f domain.ScannedFood) domain.ScannedFood {
	f.Insights = append([]string(nil), f.Insights...)
	vit := make(map[string]string, len(f.NutritionDetails.Vitamins))
	for k, v := range f.NutritionDetails.Vitamins {
		vit[k] = v
	}
	minerals := make(map[string]string, len(f.NutritionDetails.Minerals))
	for k, v := range f.NutritionDetails.Minerals {
		minerals[k] = v
	}
	f.NutritionDetails.Vitamins = vit
	f.NutritionDetails.Minerals = minerals
	return f
}
