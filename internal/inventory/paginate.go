package inventory

// Page describes the slice of the filtered collection shown on the current
// page and the page-number window offered as direct-jump controls.
type Page struct {
	// Start and End are the half-open [Start, End) bounds of the visible
	// slice, clamped to [0, totalItems].
	Start int `json:"start"`
	End   int `json:"end"`

	Current    int `json:"current"`
	TotalPages int `json:"totalPages"`

	// VisiblePages is a fixed-size sliding window of page numbers centered
	// as closely as possible on Current and clamped to [1, TotalPages].
	VisiblePages []int `json:"visiblePages"`

	// ShowLeadingEllipsis is set when the window starts after page 1;
	// page 1 itself is then offered as an explicit jump target. The
	// trailing pair follows the symmetric rule for the last page.
	ShowLeadingEllipsis  bool `json:"showLeadingEllipsis"`
	ShowTrailingEllipsis bool `json:"showTrailingEllipsis"`
}

// Needed reports whether pagination controls should be rendered at all.
// With a single page the slice still covers the whole collection, the caller
// just renders no controls.
func (p Page) Needed() bool { return p.TotalPages > 1 }

// Paginate computes the slice bounds and visible page window for the given
// collection size. currentPage is 1-based and must already be valid: the
// caller (the view orchestrator) clamps out-of-range requests before calling,
// the windower itself does not.
func Paginate(totalItems, itemsPerPage, currentPage, windowSize int) Page {
	totalPages := 0
	if itemsPerPage > 0 {
		totalPages = (totalItems + itemsPerPage - 1) / itemsPerPage
	}

	p := Page{
		Current:    currentPage,
		TotalPages: totalPages,
	}

	p.Start = (currentPage - 1) * itemsPerPage
	p.End = currentPage * itemsPerPage
	if p.Start < 0 {
		p.Start = 0
	}
	if p.Start > totalItems {
		p.Start = totalItems
	}
	if p.End > totalItems {
		p.End = totalItems
	}

	if totalPages < 1 {
		return p
	}

	var startPage, endPage int
	if totalPages <= windowSize {
		startPage, endPage = 1, totalPages
	} else {
		before := windowSize / 2
		after := (windowSize+1)/2 - 1
		switch {
		case currentPage <= before:
			startPage, endPage = 1, windowSize
		case currentPage+after >= totalPages:
			startPage, endPage = totalPages-windowSize+1, totalPages
		default:
			startPage, endPage = currentPage-before, currentPage+after
		}
	}

	p.VisiblePages = make([]int, 0, endPage-startPage+1)
	for i := startPage; i <= endPage; i++ {
		p.VisiblePages = append(p.VisiblePages, i)
	}
	p.ShowLeadingEllipsis = startPage > 1
	p.ShowTrailingEllipsis = endPage < totalPages

	return p
}

// ClampPage keeps a requested page inside [1, totalPages] so it is always
// valid input for Paginate. An empty collection clamps to page 1.
func ClampPage(page, totalItems, itemsPerPage int) int {
	if page < 1 {
		return 1
	}
	totalPages := 0
	if itemsPerPage > 0 {
		totalPages = (totalItems + itemsPerPage - 1) / itemsPerPage
	}
	if totalPages < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
