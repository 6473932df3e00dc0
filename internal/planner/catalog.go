package planner

import (
	"github.com/shopspring/decimal"

	"vitalplan/internal/domain"
)

// mealCatalog holds the alternatives the mock draws from, at least one per
// meal type.
var mealCatalog = []domain.Meal{
	{
		ID:          "meal-1",
		Name:        "Power Protein Breakfast Bowl",
		Type:        domain.MealBreakfast,
		Description: "Greek yogurt with berries, nuts, and protein powder - perfect for muscle building and sustained energy",
		Ingredients: []string{"Greek yogurt (200g)", "Mixed berries (100g)", "Almonds (30g)", "Vanilla protein powder (1 scoop)", "Honey (1 tbsp)", "Chia seeds (1 tbsp)"},
		Calories:    485,
		Macros:      domain.Macros{Protein: 38, Carbs: 32, Fat: 18},
		PrepTime:    5,
		Difficulty:  domain.DifficultyEasy,
		ImageURL:    "https://images.pexels.com/photos/1640774/pexels-photo-1640774.jpeg?auto=compress&cs=tinysrgb&w=400",
		Instructions: []string{
			"Add Greek yogurt to a bowl",
			"Mix in protein powder until smooth",
			"Top with mixed berries and almonds",
			"Drizzle with honey and sprinkle chia seeds",
			"Serve immediately for best texture",
		},
		NutritionDetails: &domain.NutritionDetails{
			Vitamins:     map[string]string{"Vitamin C": "45mg", "Vitamin B12": "2.4μg", "Vitamin D": "120IU"},
			Minerals:     map[string]string{"Calcium": "320mg", "Iron": "2.1mg", "Magnesium": "85mg"},
			Fiber:        8.5,
			Sugar:        24,
			Sodium:       95,
			Cholesterol:  15,
			SaturatedFat: 4.2,
		},
	},
	{
		ID:          "meal-5",
		Name:        "Spinach & Feta Egg White Omelette",
		Type:        domain.MealBreakfast,
		Description: "Fluffy egg white omelette with greens and feta for a lean, protein-forward start",
		Ingredients: []string{"Egg whites (200ml)", "Whole egg (1)", "Baby spinach (50g)", "Feta cheese (30g)", "Cherry tomatoes (80g)", "Whole grain toast (1 slice)", "Olive oil (1 tsp)"},
		Calories:    390,
		Macros:      domain.Macros{Protein: 32, Carbs: 18, Fat: 20},
		PrepTime:    12,
		Difficulty:  domain.DifficultyEasy,
		Instructions: []string{
			"Whisk egg whites with the whole egg",
			"Wilt spinach in olive oil over medium heat",
			"Pour in eggs and cook until almost set",
			"Add feta and halved tomatoes, then fold",
			"Serve with toast",
		},
		NutritionDetails: &domain.NutritionDetails{
			Vitamins:     map[string]string{"Vitamin A": "280μg", "Vitamin B2": "0.9mg", "Folate": "110μg"},
			Minerals:     map[string]string{"Calcium": "240mg", "Selenium": "38μg", "Potassium": "560mg"},
			Fiber:        4.1,
			Sugar:        5,
			Sodium:       610,
			Cholesterol:  205,
			SaturatedFat: 7.4,
		},
	},
	{
		ID:          "meal-2",
		Name:        "Mediterranean Quinoa Power Salad",
		Type:        domain.MealLunch,
		Description: "Nutrient-dense quinoa salad packed with antioxidants for glowing skin and sustained energy",
		Ingredients: []string{"Quinoa (100g)", "Cherry tomatoes (150g)", "Cucumber (100g)", "Feta cheese (50g)", "Extra virgin olive oil (2 tbsp)", "Lemon juice (1 tbsp)", "Fresh herbs (parsley, mint)", "Red onion (30g)", "Kalamata olives (40g)"},
		Calories:    565,
		Macros:      domain.Macros{Protein: 20, Carbs: 48, Fat: 32},
		PrepTime:    15,
		Difficulty:  domain.DifficultyEasy,
		ImageURL:    "https://images.pexels.com/photos/1640770/pexels-photo-1640770.jpeg?auto=compress&cs=tinysrgb&w=400",
		Instructions: []string{
			"Cook quinoa according to package instructions and let cool",
			"Dice tomatoes, cucumber, and red onion",
			"Whisk olive oil with lemon juice and herbs",
			"Combine all ingredients in a large bowl",
			"Toss with dressing and let marinate for 10 minutes",
			"Top with crumbled feta and olives before serving",
		},
		NutritionDetails: &domain.NutritionDetails{
			Vitamins:     map[string]string{"Vitamin K": "180μg", "Vitamin C": "28mg", "Folate": "95μg"},
			Minerals:     map[string]string{"Magnesium": "118mg", "Phosphorus": "285mg", "Potassium": "520mg"},
			Fiber:        12.3,
			Sugar:        8,
			Sodium:       485,
			Cholesterol:  25,
			SaturatedFat: 8.1,
		},
	},
	{
		ID:          "meal-6",
		Name:        "Chicken & Avocado Power Wrap",
		Type:        domain.MealLunch,
		Description: "Grilled chicken, avocado and crunchy greens in a whole wheat wrap for steady afternoon energy",
		Ingredients: []string{"Chicken breast (120g)", "Whole wheat tortilla (1 large)", "Avocado (1/2)", "Romaine lettuce (40g)", "Red bell pepper (60g)", "Greek yogurt (2 tbsp)", "Lime juice (1 tsp)"},
		Calories:    540,
		Macros:      domain.Macros{Protein: 42, Carbs: 45, Fat: 21},
		PrepTime:    10,
		Difficulty:  domain.DifficultyEasy,
		Instructions: []string{
			"Slice grilled chicken into strips",
			"Mash avocado with lime juice and yogurt",
			"Spread the avocado mix over the tortilla",
			"Layer lettuce, pepper and chicken",
			"Roll tightly and cut in half",
		},
		NutritionDetails: &domain.NutritionDetails{
			Vitamins:     map[string]string{"Vitamin C": "95mg", "Vitamin B6": "1.1mg", "Vitamin E": "3.2mg"},
			Minerals:     map[string]string{"Potassium": "780mg", "Phosphorus": "390mg", "Zinc": "2.4mg"},
			Fiber:        9.8,
			Sugar:        6,
			Sodium:       540,
			Cholesterol:  90,
			SaturatedFat: 4.3,
		},
	},
	{
		ID:          "meal-3",
		Name:        "Grilled Salmon with Roasted Sweet Potato",
		Type:        domain.MealDinner,
		Description: "Omega-3 rich salmon with antioxidant-packed vegetables for optimal health and recovery",
		Ingredients: []string{"Salmon fillet (150g)", "Sweet potato (200g)", "Broccoli (150g)", "Asparagus (100g)", "Olive oil (1 tbsp)", "Garlic (2 cloves)", "Lemon (1/2)", "Fresh dill", "Sea salt", "Black pepper"},
		Calories:    620,
		Macros:      domain.Macros{Protein: 45, Carbs: 38, Fat: 28},
		PrepTime:    30,
		Difficulty:  domain.DifficultyMedium,
		ImageURL:    "https://images.pexels.com/photos/1640772/pexels-photo-1640772.jpeg?auto=compress&cs=tinysrgb&w=400",
		Instructions: []string{
			"Preheat oven to 400°F (200°C)",
			"Cut sweet potato into cubes and toss with olive oil",
			"Roast sweet potato for 20 minutes",
			"Season salmon with salt, pepper, and dill",
			"Grill salmon for 4-5 minutes per side",
			"Steam broccoli and asparagus until tender-crisp",
			"Serve with lemon wedges",
		},
		NutritionDetails: &domain.NutritionDetails{
			Vitamins:     map[string]string{"Vitamin A": "1200μg", "Vitamin D": "360IU", "Vitamin B6": "1.2mg"},
			Minerals:     map[string]string{"Selenium": "55μg", "Potassium": "890mg", "Phosphorus": "420mg"},
			Fiber:        11.2,
			Sugar:        12,
			Sodium:       125,
			Cholesterol:  85,
			SaturatedFat: 6.8,
		},
	},
	{
		ID:          "meal-7",
		Name:        "Lentil & Vegetable Turmeric Curry",
		Type:        domain.MealDinner,
		Description: "Anti-inflammatory red lentil curry with turmeric and ginger, served over brown rice",
		Ingredients: []string{"Red lentils (80g dry)", "Brown rice (60g dry)", "Light coconut milk (150ml)", "Spinach (60g)", "Carrot (1 medium)", "Onion (1/2)", "Turmeric (1 tsp)", "Fresh ginger (1 tbsp)", "Garlic (2 cloves)"},
		Calories:    560,
		Macros:      domain.Macros{Protein: 24, Carbs: 72, Fat: 18},
		PrepTime:    35,
		Difficulty:  domain.DifficultyMedium,
		Instructions: []string{
			"Start the rice according to package instructions",
			"Sweat onion, garlic and ginger until soft",
			"Stir in turmeric and diced carrot",
			"Add lentils, coconut milk and 300ml water",
			"Simmer for 20 minutes until the lentils break down",
			"Fold in spinach and serve over rice",
		},
		NutritionDetails: &domain.NutritionDetails{
			Vitamins:     map[string]string{"Vitamin A": "950μg", "Folate": "260μg", "Vitamin B1": "0.6mg"},
			Minerals:     map[string]string{"Iron": "6.5mg", "Magnesium": "140mg", "Potassium": "910mg"},
			Fiber:        16.8,
			Sugar:        9,
			Sodium:       210,
			SaturatedFat: 9.5,
		},
	},
	{
		ID:          "meal-4",
		Name:        "Antioxidant Berry Smoothie Bowl",
		Type:        domain.MealSnack,
		Description: "Superfood-packed smoothie bowl loaded with antioxidants for glowing skin and energy",
		Ingredients: []string{"Frozen mixed berries (150g)", "Banana (1 medium)", "Spinach (30g)", "Almond butter (2 tbsp)", "Coconut milk (100ml)", "Granola (30g)", "Coconut flakes (1 tbsp)", "Goji berries (1 tbsp)"},
		Calories:    385,
		Macros:      domain.Macros{Protein: 12, Carbs: 45, Fat: 18},
		PrepTime:    8,
		Difficulty:  domain.DifficultyEasy,
		ImageURL:    "https://images.pexels.com/photos/1640771/pexels-photo-1640771.jpeg?auto=compress&cs=tinysrgb&w=400",
		Instructions: []string{
			"Blend frozen berries, banana, spinach, and coconut milk until smooth",
			"Pour into a bowl",
			"Top with granola, coconut flakes, and goji berries",
			"Drizzle with almond butter",
			"Serve immediately",
		},
		NutritionDetails: &domain.NutritionDetails{
			Vitamins:     map[string]string{"Vitamin C": "85mg", "Vitamin E": "8mg", "Folate": "65μg"},
			Minerals:     map[string]string{"Manganese": "1.8mg", "Copper": "0.3mg", "Iron": "2.8mg"},
			Fiber:        14.5,
			Sugar:        28,
			Sodium:       45,
			SaturatedFat: 8.2,
		},
	},
	{
		ID:          "meal-8",
		Name:        "Hummus Veggie Crunch Plate",
		Type:        domain.MealSnack,
		Description: "Creamy hummus with crisp vegetables and seeded crackers for a fibre-rich afternoon snack",
		Ingredients: []string{"Hummus (80g)", "Carrot sticks (80g)", "Cucumber (80g)", "Bell pepper strips (60g)", "Seeded crackers (3)", "Pumpkin seeds (1 tbsp)"},
		Calories:    290,
		Macros:      domain.Macros{Protein: 10, Carbs: 30, Fat: 15},
		PrepTime:    5,
		Difficulty:  domain.DifficultyEasy,
		Instructions: []string{
			"Cut the vegetables into sticks",
			"Spoon hummus into a small bowl and sprinkle with pumpkin seeds",
			"Arrange vegetables and crackers around the bowl",
		},
		NutritionDetails: &domain.NutritionDetails{
			Vitamins:     map[string]string{"Vitamin A": "640μg", "Vitamin C": "70mg", "Vitamin K": "25μg"},
			Minerals:     map[string]string{"Iron": "2.6mg", "Zinc": "1.9mg", "Magnesium": "95mg"},
			Fiber:        10.2,
			Sugar:        7,
			Sodium:       390,
			SaturatedFat: 2.1,
		},
	},
}

var supplementCatalog = []domain.Supplement{
	{
		ID:          "supp-1",
		Name:        "Premium Omega-3 Fish Oil",
		Description: "High-potency fish oil with EPA and DHA for heart, brain, and joint health",
		Dosage:      "2 capsules daily (1000mg each)",
		Timing:      "With meals to enhance absorption",
		Benefits:    []string{"Heart health support", "Brain function enhancement", "Anti-inflammatory properties", "Joint health", "Skin health"},
		Price:       decimal.RequireFromString("29.99"),
		ImageURL:    "https://images.pexels.com/photos/3683107/pexels-photo-3683107.jpeg?auto=compress&cs=tinysrgb&w=400",
		Rating:      4.8,
		Reviews:     2847,
		Brand:       "Nordic Naturals",
	},
	{
		ID:          "supp-2",
		Name:        "Vitamin D3 + K2 Complex",
		Description: "Synergistic blend of Vitamin D3 and K2 for optimal bone health and calcium absorption",
		Dosage:      "1 capsule daily (2000 IU D3 + 100μg K2)",
		Timing:      "Morning with breakfast",
		Benefits:    []string{"Bone health support", "Immune system boost", "Calcium absorption", "Mood regulation", "Muscle function"},
		Price:       decimal.RequireFromString("24.99"),
		ImageURL:    "https://images.pexels.com/photos/3683108/pexels-photo-3683108.jpeg?auto=compress&cs=tinysrgb&w=400",
		Rating:      4.7,
		Reviews:     1923,
		Brand:       "Thorne Health",
	},
	{
		ID:          "supp-3",
		Name:        "Collagen Peptides Powder",
		Description: "Grass-fed collagen peptides for skin elasticity, joint health, and hair strength",
		Dosage:      "1 scoop daily (20g)",
		Timing:      "Can be mixed with smoothies or beverages",
		Benefits:    []string{"Skin elasticity", "Hair and nail strength", "Joint support", "Muscle recovery", "Gut health"},
		Price:       decimal.RequireFromString("39.99"),
		ImageURL:    "https://images.pexels.com/photos/3683109/pexels-photo-3683109.jpeg?auto=compress&cs=tinysrgb&w=400",
		Rating:      4.6,
		Reviews:     3156,
		Brand:       "Vital Proteins",
	},
}

// mealsOfType returns the catalog alternatives for one meal slot.
func mealsOfType(t domain.MealType) []domain.Meal {
	var out []domain.Meal
	for _, m := range mealCatalog {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

// Supplements returns a copy of the static supplement catalog.
func Supplements() []domain.Supplement {
	out := make([]domain.Supplement, len(supplementCatalog))
	for i, s := range supplementCatalog {
		s.Benefits = append([]string(nil), s.Benefits...)
		out[i] = s
	}
	return out
}

func cloneMeal(m domain.Meal) domain.Meal {
	m.Ingredients = append([]string(nil), m.Ingredients...)
	m.Instructions = append([]string(nil), m.Instructions...)
	if m.NutritionDetails != nil {
		nd := *m.NutritionDetails
		nd.Vitamins = cloneMap(nd.Vitamins)
		nd.Minerals = cloneMap(nd.Minerals)
		m.NutritionDetails = &nd
	}
	return m
}

func cloneMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
