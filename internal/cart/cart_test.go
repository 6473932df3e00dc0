package cart

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitalplan/internal/domain"
)

func item(id string, price string, qty int) domain.OrderItem {
	return domain.OrderItem{
		ID:       id,
		Name:     "Item " + id,
		Quantity: qty,
		Price:    decimal.RequireFromString(price),
		Type:     domain.ItemGrocery,
	}
}

func ids(cart []domain.OrderItem) []string {
	out := make([]string, len(cart))
	for i, it := range cart {
		out[i] = it.ID
	}
	return out
}

func TestMerge(t *testing.T) {
	t.Run("DisjointBatchAppendsInOrder", func(t *testing.T) {
		c := []domain.OrderItem{item("a", "1", 1), item("b", "2", 2)}
		in := []domain.OrderItem{item("c", "3", 1), item("d", "4", 3)}

		got := Merge(c, in)

		assert.Equal(t, []string{"a", "b", "c", "d"}, ids(got))
		assert.Equal(t, ItemCount(c)+4, ItemCount(got))
	})

	t.Run("CollidingIdsSumQuantities", func(t *testing.T) {
		c := []domain.OrderItem{item("a", "1", 1), item("b", "2", 2)}
		in := []domain.OrderItem{item("b", "2", 5), item("a", "1", 1), item("e", "1", 1)}

		got := Merge(c, in)

		assert.Equal(t, []string{"a", "b", "e"}, ids(got))
		assert.Equal(t, 2, got[0].Quantity)
		assert.Equal(t, 7, got[1].Quantity)
		assert.Equal(t, ItemCount(c)+7, ItemCount(got))
	})

	t.Run("DuplicatesWithinBatchCollapse", func(t *testing.T) {
		got := Merge(nil, []domain.OrderItem{item("x", "1", 1), item("x", "1", 2)})

		require.Len(t, got, 1)
		assert.Equal(t, 3, got[0].Quantity)
	})

	t.Run("UnsetQuantityCountsAsOne", func(t *testing.T) {
		got := Merge([]domain.OrderItem{item("a", "1", 1)}, []domain.OrderItem{item("a", "1", 0)})

		assert.Equal(t, 2, got[0].Quantity)
	})

	t.Run("DoesNotMutateInput", func(t *testing.T) {
		c := []domain.OrderItem{item("a", "1", 1)}
		_ = Merge(c, []domain.OrderItem{item("a", "1", 4)})

		assert.Equal(t, 1, c[0].Quantity)
	})
}

func TestRemoveAndSetQuantity(t *testing.T) {
	c := []domain.OrderItem{item("a", "1", 1), item("b", "2", 2), item("c", "3", 3)}

	t.Run("SetQuantityZeroEqualsRemove", func(t *testing.T) {
		assert.Equal(t, RemoveItem(c, "b"), SetQuantity(c, "b", 0))
		assert.Equal(t, RemoveItem(c, "b"), SetQuantity(c, "b", -2))
	})

	t.Run("SetQuantityReplaces", func(t *testing.T) {
		got := SetQuantity(c, "c", 10)
		assert.Equal(t, 10, got[2].Quantity)
		assert.Equal(t, 3, c[2].Quantity)
	})

	t.Run("MissingIdIsNoop", func(t *testing.T) {
		assert.Equal(t, c, RemoveItem(c, "zzz"))
		assert.Equal(t, c, SetQuantity(c, "zzz", 4))
	})
}

func TestTotals(t *testing.T) {
	c := []domain.OrderItem{item("a", "10", 2), item("b", "5", 1)}
	assert.True(t, decimal.NewFromInt(25).Equal(Total(c)))
	assert.Equal(t, 3, ItemCount(c))

	// 0.1 + 0.2 must not drift.
	drift := []domain.OrderItem{item("x", "0.1", 1), item("y", "0.2", 1)}
	assert.Equal(t, "0.3", Total(drift).String())

	assert.True(t, Total(nil).IsZero())
	assert.Equal(t, 0, ItemCount(nil))
}

func intPtr(v int) *int { return &v }

func TestNewLine(t *testing.T) {
	t.Run("AbsentQuantityDefaultsToOne", func(t *testing.T) {
		got, err := NewLine(RawLine{ID: "supp-1", Name: "Fish Oil", Price: decimal.RequireFromString("29.99"), Type: "supplement"})
		require.NoError(t, err)
		assert.Equal(t, 1, got.Quantity)
		assert.Equal(t, domain.ItemSupplement, got.Type)
	})

	tests := []struct {
		name string
		raw  RawLine
	}{
		{"ZeroQuantity", RawLine{ID: "a", Name: "A", Quantity: intPtr(0), Type: "grocery"}},
		{"NegativeQuantity", RawLine{ID: "a", Name: "A", Quantity: intPtr(-1), Type: "grocery"}},
		{"NegativePrice", RawLine{ID: "a", Name: "A", Price: decimal.NewFromInt(-1), Type: "grocery"}},
		{"BlankID", RawLine{ID: "  ", Name: "A", Type: "grocery"}},
		{"BlankName", RawLine{ID: "a", Type: "grocery"}},
		{"UnknownType", RawLine{ID: "a", Name: "A", Type: "gadget"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLine(tt.raw)
			assert.True(t, errors.Is(err, ErrInvalidLine), "got %v", err)
		})
	}
}

func TestLinesIsAllOrNothing(t *testing.T) {
	raws := []RawLine{
		{ID: "a", Name: "A", Type: "grocery", Quantity: intPtr(2)},
		{ID: "b", Name: "B", Type: "grocery", Quantity: intPtr(0)},
	}
	got, err := Lines(raws)
	assert.ErrorIs(t, err, ErrInvalidLine)
	assert.Nil(t, got)

	got, err = Lines(raws[:1])
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestPlanLines(t *testing.T) {
	plan := domain.DietPlan{
		Meals: []domain.Meal{
			{ID: "meal-1", Name: "Power Protein Breakfast Bowl", Calories: 485},
			{ID: "meal-3", Name: "Grilled Salmon with Roasted Sweet Potato", Calories: 620},
		},
		Supplements: []domain.Supplement{
			{ID: "supp-1", Name: "Premium Omega-3 Fish Oil", Price: decimal.RequireFromString("29.99")},
		},
	}

	got := PlanLines(plan)

	require.Len(t, got, 3)
	assert.Equal(t, "Ingredients for Power Protein Breakfast Bowl", got[0].Name)
	assert.Equal(t, "7.28", got[0].Price.StringFixed(2))
	assert.Equal(t, "9.3", got[1].Price.String())
	assert.Equal(t, domain.ItemSupplement, got[2].Type)
	assert.Equal(t, "29.99", got[2].Price.String())

	// Adding the same plan twice doubles quantities without duplicating ids.
	merged := Merge(Merge(nil, got), got)
	assert.Len(t, merged, 3)
	assert.Equal(t, 6, ItemCount(merged))
}

func TestScanLine(t *testing.T) {
	got := ScanLine(domain.ScannedFood{ID: "food-apple", Name: "Red Apple"})
	assert.Equal(t, "3.99", got.Price.String())
	assert.Equal(t, domain.ItemGrocery, got.Type)
	assert.Equal(t, 1, got.Quantity)
}
