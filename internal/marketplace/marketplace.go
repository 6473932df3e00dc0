package marketplace

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"vitalplan/internal/cart"
	"vitalplan/internal/domain"
)

var (
	ErrItemNotFound = errors.New("marketplace item not found")
	ErrOutOfStock   = errors.New("item is out of stock")
)

// CategoryAll disables the category filter.
const CategoryAll domain.Category = "all"

// Sort orders a listing. SortFeatured keeps catalog order.
type Sort string

const (
	SortFeatured  Sort = "featured"
	SortPriceLow  Sort = "price-low"
	SortPriceHigh Sort = "price-high"
	SortRating    Sort = "rating"
	SortReviews   Sort = "reviews"
)

// DefaultRecommendations is the listing size when no limit is given.
const (
	DefaultRecommendations = 6
	MaxRecommendations     = 20
)

// Query filters and orders the catalog. Zero values match everything in
// featured order.
type Query struct {
	Term     string
	Category domain.Category
	Sort     Sort
}

// Result is a filtered listing plus the size of the whole catalog, for the
// "Showing X of Y products" line.
type Result struct {
	Items []domain.MarketplaceItem
	Total int
}

func matches(it domain.MarketplaceItem, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(it.Name), term) ||
		strings.Contains(strings.ToLower(it.Description), term) ||
		strings.Contains(strings.ToLower(it.Brand), term)
}

// Search filters the catalog by term (case-insensitive on name, description
// and brand) and category, then sorts. Sorting is stable so ties keep
// catalog order.
func Search(q Query) Result {
	term := strings.ToLower(strings.TrimSpace(q.Term))
	out := make([]domain.MarketplaceItem, 0, len(catalog))
	for _, it := range catalog {
		if q.Category != "" && q.Category != CategoryAll && it.Category != q.Category {
			continue
		}
		if !matches(it, term) {
			continue
		}
		out = append(out, cloneItem(it))
	}

	switch q.Sort {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b domain.MarketplaceItem) int { return a.Price.Cmp(b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b domain.MarketplaceItem) int { return b.Price.Cmp(a.Price) })
	case SortRating:
		slices.SortStableFunc(out, func(a, b domain.MarketplaceItem) int { return cmpFloat(b.Rating, a.Rating) })
	case SortReviews:
		slices.SortStableFunc(out, func(a, b domain.MarketplaceItem) int { return b.Reviews - a.Reviews })
	}
	return Result{Items: out, Total: len(catalog)}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// ParseSort accepts the sort keys used by the listing. Unknown keys fall back
// to featured.
func ParseSort(s string) Sort {
	switch Sort(s) {
	case SortPriceLow, SortPriceHigh, SortRating, SortReviews:
		return Sort(s)
	}
	return SortFeatured
}

// Categories returns the filter options with item counts, "all" first.
func Categories() []domain.CategoryCount {
	out := []domain.CategoryCount{{ID: CategoryAll, Name: "All Products", Count: len(catalog)}}
	for _, c := range categoryNames {
		n := 0
		for _, it := range catalog {
			if it.Category == c.id {
				n++
			}
		}
		out = append(out, domain.CategoryCount{ID: c.id, Name: c.name, Count: n})
	}
	return out
}

// Lookup finds a catalog item by id.
func Lookup(id string) (domain.MarketplaceItem, error) {
	for _, it := range catalog {
		if it.ID == id {
			return cloneItem(it), nil
		}
	}
	return domain.MarketplaceItem{}, fmt.Errorf("%w: %q", ErrItemNotFound, id)
}

// Savings is the discount against the original price, zero when there is
// none.
func Savings(it domain.MarketplaceItem) decimal.Decimal {
	if it.OriginalPrice == nil || !it.OriginalPrice.GreaterThan(it.Price) {
		return decimal.Zero
	}
	return it.OriginalPrice.Sub(it.Price)
}

// Line builds the cart line for adding qty of an item. Marketplace products
// are always supplement lines.
func Line(it domain.MarketplaceItem, qty int) (domain.OrderItem, error) {
	if !it.InStock {
		return domain.OrderItem{}, fmt.Errorf("%w: %s", ErrOutOfStock, it.Name)
	}
	return cart.NewLine(cart.RawLine{
		ID:       it.ID,
		Name:     it.Name,
		Quantity: &qty,
		Price:    it.Price,
		Type:     string(domain.ItemSupplement),
	})
}

// goalAffinity lists the categories that serve each goal.
var goalAffinity = map[domain.GoalType][]domain.Category{
	domain.GoalMuscleBuilding:   {domain.CategoryProtein, domain.CategorySupplements},
	domain.GoalGlowingSkin:      {domain.CategorySupplements, domain.CategorySuperfoods},
	domain.GoalHealthyAging:     {domain.CategoryVitamins, domain.CategorySuperfoods},
	domain.GoalHealthConditions: {domain.CategorySupplements, domain.CategoryVitamins, domain.CategoryOrganicFoods},
}

var priorityWeight = map[domain.Priority]int{
	domain.PriorityLow:    1,
	domain.PriorityMedium: 2,
	domain.PriorityHigh:   3,
}

// Recommendations ranks in-stock items by how well their category matches
// the weighted goals, then by rating and review count. With no goals it is
// simply the top-rated list. limit ≤ 0 means DefaultRecommendations.
func Recommendations(goals []domain.Goal, limit int) []domain.MarketplaceItem {
	if limit <= 0 {
		limit = DefaultRecommendations
	}
	limit = min(limit, MaxRecommendations)

	score := func(it domain.MarketplaceItem) int {
		s := 0
		for _, g := range goals {
			if slices.Contains(goalAffinity[g.Type], it.Category) {
				s += priorityWeight[g.Priority]
			}
		}
		return s
	}

	ranked := make([]domain.MarketplaceItem, 0, len(catalog))
	for _, it := range catalog {
		if it.InStock {
			ranked = append(ranked, cloneItem(it))
		}
	}
	slices.SortStableFunc(ranked, func(a, b domain.MarketplaceItem) int {
		if d := score(b) - score(a); d != 0 {
			return d
		}
		if d := cmpFloat(b.Rating, a.Rating); d != 0 {
			return d
		}
		return b.Reviews - a.Reviews
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Favorites is a toggle set of item ids that remembers insertion order.
type Favorites struct {
	mu  sync.Mutex
	ids []string
}

// Toggle adds or removes id and reports whether it is now a favorite.
func (f *Favorites) Toggle(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := slices.Index(f.ids, id); i >= 0 {
		f.ids = slices.Delete(f.ids, i, i+1)
		return false
	}
	f.ids = append(f.ids, id)
	return true
}

func (f *Favorites) Has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Contains(f.ids, id)
}

func (f *Favorites) IDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.ids)
}
