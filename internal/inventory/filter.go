package inventory

import (
	"strconv"
	"strings"
)

// Criteria is the transient set of user-chosen filter predicates, owned by
// the UI session. Numeric bounds arrive as raw widget values: the empty
// string means unbounded on that side, never zero. Bounds are inclusive.
type Criteria struct {
	MinPrice string `json:"minPrice"`
	MaxPrice string `json:"maxPrice"`
	MinStock string `json:"minStock"`
	MaxStock string `json:"maxStock"`

	// ShowLowStock restricts to 0 < stock < lowBelow; ShowOutOfStock
	// restricts to stock == 0. They are independent AND clauses, not a
	// radio choice: with both set, only stock == 0 can pass the
	// out-of-stock clause and nothing survives the low-stock clause,
	// so the combined result is empty. That literal composition is kept
	// deliberately (see the regression test).
	ShowLowStock   bool `json:"showLowStock"`
	ShowOutOfStock bool `json:"showOutOfStock"`

	// Categories is a set of category names; empty means no category
	// restriction, not "match nothing".
	Categories []string `json:"selectedCategories"`
}

// IsZero reports whether no clause is active.
func (c Criteria) IsZero() bool {
	return c.MinPrice == "" && c.MaxPrice == "" &&
		c.MinStock == "" && c.MaxStock == "" &&
		!c.ShowLowStock && !c.ShowOutOfStock &&
		len(c.Categories) == 0
}

// bound coerces a raw widget value to a numeric bound.
// Empty or unparseable input means the bound is absent.
func bound(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ApplyFilter returns the products satisfying every active clause of c.
// Clauses are applied as a conjunction in fixed order: min price, max price,
// min stock, max stock, low stock, out of stock, category membership.
// lowBelow is the exclusive upper bound of the low-stock band.
// The input slice is never mutated and the result is always a new slice.
func ApplyFilter(products []Product, c Criteria, lowBelow int) []Product {
	out := make([]Product, 0, len(products))

	minPrice, hasMinPrice := bound(c.MinPrice)
	maxPrice, hasMaxPrice := bound(c.MaxPrice)
	minStock, hasMinStock := bound(c.MinStock)
	maxStock, hasMaxStock := bound(c.MaxStock)

	var cats map[string]struct{}
	if len(c.Categories) > 0 {
		cats = make(map[string]struct{}, len(c.Categories))
		for _, cat := range c.Categories {
			cats[cat] = struct{}{}
		}
	}

	for _, p := range products {
		if hasMinPrice && p.Price < minPrice {
			continue
		}
		if hasMaxPrice && p.Price > maxPrice {
			continue
		}
		if hasMinStock && float64(p.Stock) < minStock {
			continue
		}
		if hasMaxStock && float64(p.Stock) > maxStock {
			continue
		}
		if c.ShowLowStock && !(p.Stock > 0 && p.Stock < lowBelow) {
			continue
		}
		if c.ShowOutOfStock && p.Stock != 0 {
			continue
		}
		if cats != nil {
			if _, ok := cats[p.Category]; !ok {
				continue
			}
		}
		out = append(out, p)
	}

	return out
}
