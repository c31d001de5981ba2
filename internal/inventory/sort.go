package inventory

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the ordering applied to the filtered collection.
type SortKey string

const (
	SortNone      SortKey = ""
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortStockAsc  SortKey = "stock-asc"
	SortStockDesc SortKey = "stock-desc"
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
)

// Valid reports whether k is a recognized sort key.
func (k SortKey) Valid() bool {
	switch k {
	case SortNone, SortPriceAsc, SortPriceDesc, SortStockAsc, SortStockDesc,
		SortNameAsc, SortNameDesc:
		return true
	}
	return false
}

// SortProducts returns a new ordered slice; the input is never reordered in
// place so the underlying cache stays untouched. SortNone preserves the input
// order. The sort is stable: products comparing equal under the chosen key
// keep their pre-sort relative order. Name keys use locale-aware collation;
// numeric keys order by signed difference.
func SortProducts(products []Product, key SortKey) []Product {
	out := make([]Product, len(products))
	copy(out, products)

	var less func(a, b Product) bool
	switch key {
	case SortPriceAsc:
		less = func(a, b Product) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b Product) bool { return a.Price > b.Price }
	case SortStockAsc:
		less = func(a, b Product) bool { return a.Stock < b.Stock }
	case SortStockDesc:
		less = func(a, b Product) bool { return a.Stock > b.Stock }
	case SortNameAsc:
		cl := collate.New(language.Und)
		less = func(a, b Product) bool { return cl.CompareString(a.Name, b.Name) < 0 }
	case SortNameDesc:
		cl := collate.New(language.Und)
		less = func(a, b Product) bool { return cl.CompareString(a.Name, b.Name) > 0 }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
