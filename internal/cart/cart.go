// Package cart aggregates order items into a quantity-summed shopping cart.
// All operations are pure and return a new slice; the input is never mutated.
package cart

import (
	"github.com/shopspring/decimal"

	"vitalplan/internal/domain"
)

// Merge folds incoming into cart. Items whose id already exists have their
// quantity increased; new ids are appended in the order they appear in
// incoming. The relative order of existing items is preserved.
func Merge(cart, incoming []domain.OrderItem) []domain.OrderItem {
	out := clone(cart)
	index := make(map[string]int, len(out)+len(incoming))
	for i, item := range out {
		index[item.ID] = i
	}

	for _, item := range incoming {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		if i, ok := index[item.ID]; ok {
			out[i].Quantity += qty
			continue
		}
		item.Quantity = qty
		index[item.ID] = len(out)
		out = append(out, item)
	}
	return out
}

// RemoveItem drops the entry with the given id. Missing ids are a no-op.
func RemoveItem(cart []domain.OrderItem, id string) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(cart))
	for _, item := range cart {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

// SetQuantity replaces the stored quantity of id. A quantity of zero or less
// removes the item.
func SetQuantity(cart []domain.OrderItem, id string, qty int) []domain.OrderItem {
	if qty <= 0 {
		return RemoveItem(cart, id)
	}
	out := clone(cart)
	for i := range out {
		if out[i].ID == id {
			out[i].Quantity = qty
		}
	}
	return out
}

// Total is the exact sum of price times quantity over the cart.
func Total(cart []domain.OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range cart {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// ItemCount is the sum of quantities over the cart.
func ItemCount(cart []domain.OrderItem) int {
	n := 0
	for _, item := range cart {
		n += item.Quantity
	}
	return n
}

func clone(cart []domain.OrderItem) []domain.OrderItem {
	out := make([]domain.OrderItem, len(cart))
	copy(out, cart)
	return out
}
