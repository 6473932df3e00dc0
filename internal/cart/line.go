package cart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"vitalplan/internal/domain"
)

// ErrInvalidLine is returned when an untyped cart payload cannot be turned
// into an OrderItem.
var ErrInvalidLine = errors.New("invalid cart line")

var (
	ingredientRate = decimal.RequireFromString("0.015")
	scanLinePrice  = decimal.RequireFromString("3.99")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RawLine is a cart payload as it arrives from a front end or the backend.
// Quantity is a pointer so an absent value can be told apart from zero.
type RawLine struct {
	ID       string          `json:"id" validate:"required"`
	Name     string          `json:"name" validate:"required"`
	Quantity *int            `json:"quantity,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Type     string          `json:"type" validate:"oneof=supplement grocery"`
}

// NewLine validates raw and converts it into an OrderItem. An absent
// quantity means one unit; an explicit non-positive quantity is rejected.
func NewLine(raw RawLine) (domain.OrderItem, error) {
	raw.ID = strings.TrimSpace(raw.ID)
	raw.Name = strings.TrimSpace(raw.Name)

	if err := validate.Struct(raw); err != nil {
		return domain.OrderItem{}, fmt.Errorf("%w: %v", ErrInvalidLine, err)
	}
	if raw.Price.IsNegative() {
		return domain.OrderItem{}, fmt.Errorf("%w: negative price %s", ErrInvalidLine, raw.Price)
	}

	qty := 1
	if raw.Quantity != nil {
		if *raw.Quantity <= 0 {
			return domain.OrderItem{}, fmt.Errorf("%w: quantity %d for %q", ErrInvalidLine, *raw.Quantity, raw.ID)
		}
		qty = *raw.Quantity
	}

	return domain.OrderItem{
		ID:       raw.ID,
		Name:     raw.Name,
		Quantity: qty,
		Price:    raw.Price,
		Type:     domain.ItemType(raw.Type),
	}, nil
}

// Lines converts a batch. Either every line is valid or none is returned.
func Lines(raws []RawLine) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, 0, len(raws))
	for i, raw := range raws {
		item, err := NewLine(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// PlanLines builds the batch added by "add plan to cart": one grocery line
// per meal for its ingredients and one line per supplement.
func PlanLines(plan domain.DietPlan) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(plan.Meals)+len(plan.Supplements))
	for _, meal := range plan.Meals {
		items = append(items, domain.OrderItem{
			ID:       meal.ID,
			Name:     "Ingredients for " + meal.Name,
			Quantity: 1,
			Price:    decimal.NewFromInt(int64(meal.Calories)).Mul(ingredientRate).Round(2),
			Type:     domain.ItemGrocery,
		})
	}
	for _, supp := range plan.Supplements {
		items = append(items, domain.OrderItem{
			ID:       supp.ID,
			Name:     supp.Name,
			Quantity: 1,
			Price:    supp.Price,
			Type:     domain.ItemSupplement,
		})
	}
	return items
}

// ScanLine turns a scanned food into a grocery line.
func ScanLine(food domain.ScannedFood) domain.OrderItem {
	return domain.OrderItem{
		ID:       food.ID,
		Name:     food.Name,
		Quantity: 1,
		Price:    scanLinePrice,
		Type:     domain.ItemGrocery,
	}
}
