// Package marketplace serves the static product catalog: search, category
// filters, favorites and goal-based recommendations.
package marketplace

import (
	"fmt"

	"github.com/shopspring/decimal"

	"vitalplan/internal/domain"
)

const imageBase = "https://images.pexels.com/photos/%s/pexels-photo-%s.jpeg?auto=compress&cs=tinysrgb&w=400"

func image(photo string) string { return fmt.Sprintf(imageBase, photo, photo) }

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func originalPrice(s string) *decimal.Decimal {
	d := price(s)
	return &d
}

var catalog = []domain.MarketplaceItem{
	{
		ID:            "market-1",
		Name:          "Premium Whey Protein Isolate",
		Description:   "Ultra-pure whey protein isolate with 25g protein per serving. Perfect for muscle building and recovery.",
		Price:         price("49.99"),
		OriginalPrice: originalPrice("59.99"),
		Category:      domain.CategoryProtein,
		Brand:         "Optimum Nutrition",
		Rating:        4.8,
		Reviews:       3247,
		ImageURL:      image("4162449"),
		InStock:       true,
		Features:      []string{"25g Protein", "Low Carb", "Fast Absorption", "Gluten Free", "Third-Party Tested"},
	},
	{
		ID:          "market-2",
		Name:        "Organic Spirulina Powder",
		Description: "Premium organic spirulina powder packed with nutrients, antioxidants, and complete proteins.",
		Price:       price("24.99"),
		Category:    domain.CategorySuperfoods,
		Brand:       "Nutrex Hawaii",
		Rating:      4.6,
		Reviews:     1892,
		ImageURL:    image("4162451"),
		InStock:     true,
		Features:    []string{"Organic Certified", "Complete Protein", "Rich in Iron", "Antioxidant Power", "Vegan Friendly"},
	},
	{
		ID:            "market-3",
		Name:          "Advanced Multivitamin Complex",
		Description:   "Comprehensive multivitamin with 25+ essential vitamins and minerals for optimal health.",
		Price:         price("34.99"),
		OriginalPrice: originalPrice("44.99"),
		Category:      domain.CategoryVitamins,
		Brand:         "Garden of Life",
		Rating:        4.7,
		Reviews:       2156,
		ImageURL:      image("4162452"),
		InStock:       true,
		Features:      []string{"25+ Nutrients", "Whole Food Based", "Easy Absorption", "Non-GMO", "Vegetarian"},
	},
	{
		ID:          "market-4",
		Name:        "Organic Quinoa Grain",
		Description: "Premium organic quinoa - a complete protein superfood perfect for healthy meals.",
		Price:       price("12.99"),
		Category:    domain.CategoryOrganicFoods,
		Brand:       "Ancient Harvest",
		Rating:      4.5,
		Reviews:     987,
		ImageURL:    image("4162453"),
		InStock:     true,
		Features:    []string{"Complete Protein", "Gluten Free", "High Fiber", "Organic Certified", "Versatile"},
	},
	{
		ID:          "market-5",
		Name:        "Collagen Beauty Blend",
		Description: "Marine collagen peptides with hyaluronic acid and vitamin C for skin, hair, and nail health.",
		Price:       price("39.99"),
		Category:    domain.CategorySupplements,
		Brand:       "Vital Proteins",
		Rating:      4.9,
		Reviews:     4521,
		ImageURL:    image("4162454"),
		InStock:     true,
		Features:    []string{"Marine Collagen", "Hyaluronic Acid", "Vitamin C", "Beauty Support", "Unflavored"},
	},
	{
		ID:          "market-6",
		Name:        "Organic Chia Seeds",
		Description: "Premium organic chia seeds rich in omega-3s, fiber, and plant-based protein.",
		Price:       price("16.99"),
		Category:    domain.CategorySuperfoods,
		Brand:       "Spectrum Essentials",
		Rating:      4.4,
		Reviews:     1234,
		ImageURL:    image("4162455"),
		InStock:     true,
		Features:    []string{"Omega-3 Rich", "High Fiber", "Plant Protein", "Organic", "Versatile Use"},
	},
	{
		ID:            "market-7",
		Name:          "Probiotic Complex 50 Billion",
		Description:   "Advanced probiotic formula with 50 billion CFU and 12 strains for digestive and immune health.",
		Price:         price("29.99"),
		OriginalPrice: originalPrice("39.99"),
		Category:      domain.CategorySupplements,
		Brand:         "Renew Life",
		Rating:        4.6,
		Reviews:       2876,
		ImageURL:      image("4162456"),
		InStock:       true,
		Features:      []string{"50 Billion CFU", "12 Strains", "Delayed Release", "Shelf Stable", "Gluten Free"},
	},
	{
		ID:          "market-8",
		Name:        "Organic Matcha Powder",
		Description: "Ceremonial grade organic matcha powder rich in antioxidants and natural energy.",
		Price:       price("28.99"),
		Category:    domain.CategorySuperfoods,
		Brand:       "Jade Leaf",
		Rating:      4.8,
		Reviews:     1567,
		ImageURL:    image("4162457"),
		InStock:     true,
		Features:    []string{"Ceremonial Grade", "Organic", "Antioxidant Rich", "Natural Energy", "Stone Ground"},
	},
}

// categoryNames is also the display order of the category filter.
var categoryNames = []struct {
	id   domain.Category
	name string
}{
	{domain.CategorySupplements, "Supplements"},
	{domain.CategoryProtein, "Protein"},
	{domain.CategoryVitamins, "Vitamins"},
	{domain.CategorySuperfoods, "Superfoods"},
	{domain.CategoryOrganicFoods, "Organic Foods"},
}

func cloneItem(it domain.MarketplaceItem) domain.MarketplaceItem {
	it.Features = append([]string(nil), it.Features...)
	if it.OriginalPrice != nil {
		p := *it.OriginalPrice
		it.OriginalPrice = &p
	}
	return it
}
