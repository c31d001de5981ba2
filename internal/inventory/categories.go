package inventory

import "sort"

// Categories returns the distinct category values present in the full,
// pre-filter collection, sorted ascending. It is recomputed whenever the
// snapshot changes and is independent of the filter/sort/page chain, so
// narrowing the view never removes an entry from the category checklist.
func Categories(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}
