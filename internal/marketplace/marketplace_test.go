package marketplace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitalplan/internal/cart"
	"vitalplan/internal/domain"
)

func ids(items []domain.MarketplaceItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestSearch(t *testing.T) {
	t.Run("EverythingInFeaturedOrder", func(t *testing.T) {
		res := Search(Query{})
		assert.Equal(t, 8, res.Total)
		assert.Equal(t, []string{"market-1", "market-2", "market-3", "market-4", "market-5", "market-6", "market-7", "market-8"}, ids(res.Items))
	})

	t.Run("TermMatchesNameDescriptionAndBrand", func(t *testing.T) {
		assert.Equal(t, []string{"market-1"}, ids(Search(Query{Term: "WHEY"}).Items))
		assert.Equal(t, []string{"market-8"}, ids(Search(Query{Term: "jade leaf"}).Items))
		assert.Equal(t, []string{"market-5"}, ids(Search(Query{Term: "hyaluronic"}).Items))
		assert.Empty(t, Search(Query{Term: "pizza"}).Items)
	})

	t.Run("Category", func(t *testing.T) {
		res := Search(Query{Category: domain.CategorySuperfoods})
		assert.Equal(t, []string{"market-2", "market-6", "market-8"}, ids(res.Items))
		assert.Equal(t, 8, res.Total)

		assert.Len(t, Search(Query{Category: CategoryAll}).Items, 8)
	})

	t.Run("Sorts", func(t *testing.T) {
		low := Search(Query{Sort: SortPriceLow}).Items
		assert.Equal(t, "market-4", low[0].ID)
		assert.Equal(t, "market-1", low[len(low)-1].ID)

		high := Search(Query{Sort: SortPriceHigh}).Items
		assert.Equal(t, "market-1", high[0].ID)

		rated := Search(Query{Sort: SortRating}).Items
		assert.Equal(t, "market-5", rated[0].ID)
		// 4.8 tie keeps catalog order.
		assert.Equal(t, []string{"market-1", "market-8"}, ids(rated[1:3]))

		reviewed := Search(Query{Sort: SortReviews}).Items
		assert.Equal(t, "market-5", reviewed[0].ID)
		assert.Equal(t, "market-4", reviewed[len(reviewed)-1].ID)
	})

	t.Run("ResultsDoNotAliasCatalog", func(t *testing.T) {
		res := Search(Query{Term: "whey"})
		res.Items[0].Features[0] = "changed"
		assert.Equal(t, "25g Protein", catalog[0].Features[0])
	})
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortRating, ParseSort("rating"))
	assert.Equal(t, SortFeatured, ParseSort("cheapest"))
}

func TestCategories(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 6)
	got := map[domain.Category]int{}
	for _, c := range cats {
		got[c.ID] = c.Count
	}
	assert.Equal(t, CategoryAll, cats[0].ID)
	assert.Equal(t, 8, got[CategoryAll])
	assert.Equal(t, 2, got[domain.CategorySupplements])
	assert.Equal(t, 1, got[domain.CategoryProtein])
	assert.Equal(t, 1, got[domain.CategoryVitamins])
	assert.Equal(t, 3, got[domain.CategorySuperfoods])
	assert.Equal(t, 1, got[domain.CategoryOrganicFoods])
}

func TestLineAndSavings(t *testing.T) {
	it, err := Lookup("market-1")
	require.NoError(t, err)

	line, err := Line(it, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemSupplement, line.Type)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, "99.98", line.LineTotal().StringFixed(2))

	assert.Equal(t, "10.00", Savings(it).StringFixed(2))
	spirulina, _ := Lookup("market-2")
	assert.True(t, Savings(spirulina).IsZero())

	_, err = Line(it, 0)
	assert.ErrorIs(t, err, cart.ErrInvalidLine)

	it.InStock = false
	_, err = Line(it, 1)
	assert.ErrorIs(t, err, ErrOutOfStock)

	_, err = Lookup("market-404")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRecommendations(t *testing.T) {
	t.Run("NoGoalsIsTopRated", func(t *testing.T) {
		recs := Recommendations(nil, 3)
		assert.Equal(t, []string{"market-5", "market-1", "market-8"}, ids(recs))
	})

	t.Run("GoalsRankByAffinity", func(t *testing.T) {
		goals := []domain.Goal{{Type: domain.GoalMuscleBuilding, Priority: domain.PriorityHigh}}
		recs := Recommendations(goals, 3)
		// protein and supplements score 3; collagen outrates whey.
		assert.Equal(t, []string{"market-5", "market-1", "market-7"}, ids(recs))
	})

	t.Run("Limits", func(t *testing.T) {
		assert.Len(t, Recommendations(nil, 0), DefaultRecommendations)
		assert.Len(t, Recommendations(nil, 100), 8)
	})
}

func TestFavorites(t *testing.T) {
	var f Favorites
	assert.True(t, f.Toggle("market-1"))
	assert.True(t, f.Toggle("market-3"))
	assert.True(t, f.Has("market-1"))
	assert.False(t, f.Toggle("market-1"))
	assert.False(t, f.Has("market-1"))
	assert.Equal(t, []string{"market-3"}, f.IDs())
}
