package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategorySupplements  Category = "supplements"
	CategoryOrganicFoods Category = "organic-foods"
	CategorySuperfoods   Category = "superfoods"
	CategoryProtein      Category = "protein"
	CategoryVitamins     Category = "vitamins"
)

// MarketplaceItem is a product listed in the marketplace.
type MarketplaceItem struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Price          decimal.Decimal   `json:"price"`
	OriginalPrice  *decimal.Decimal  `json:"original_price,omitempty"`
	Category       Category          `json:"category"`
	Brand          string            `json:"brand"`
	Rating         float64           `json:"rating"`
	Reviews        int               `json:"reviews"`
	ImageURL       string            `json:"image_url"`
	InStock        bool              `json:"in_stock"`
	Features       []string          `json:"features"`
	NutritionFacts *NutritionDetails `json:"nutrition_facts,omitempty"`
}

// ScannedFood is a single-shot analysis result. It is not persisted beyond
// the scanner view.
type ScannedFood struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Brand            string           `json:"brand,omitempty"`
	Barcode          string           `json:"barcode"`
	Calories         int              `json:"calories"`
	ServingSize      string           `json:"serving_size"`
	Macros           Macros           `json:"macros"`
	NutritionDetails NutritionDetails `json:"nutrition_details"`
	ImageURL         string           `json:"image_url,omitempty"`
	Confidence       float64          `json:"confidence,omitempty"`
	Insights         []string         `json:"ai_insights,omitempty"`
	AnalyzedAt       time.Time        `json:"analyzed_at"`
	ImageData        []byte           `json:"-"`
}

// CategoryCount is a marketplace filter option with its item count. The
// "all" pseudo-category has ID "all".
type CategoryCount struct {
	ID    Category `json:"id"`
	Name  string   `json:"name"`
	Count int      `json:"count"`
}
