package models

// Pagination mirrors the catalog service pagination block. LastPage is trusted
// as sent and never recomputed locally.
type Pagination struct {
	Total       int `json:"total"`
	PerPage     int `json:"per_page"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
}

// PageEllipsis marks a gap in a page window.
const PageEllipsis = 0

// NewPagination returns the empty first-page state.
func NewPagination(perPage int) Pagination {
	if perPage <= 0 {
		perPage = 1
	}
	return Pagination{PerPage: perPage, CurrentPage: 1, LastPage: 1}
}

// Normalize clamps fields to their documented minimums.
func (p Pagination) Normalize() Pagination {
	if p.Total < 0 {
		p.Total = 0
	}
	if p.PerPage <= 0 {
		p.PerPage = 1
	}
	if p.LastPage < 1 {
		p.LastPage = 1
	}
	if p.CurrentPage < 1 {
		p.CurrentPage = 1
	}
	if p.CurrentPage > p.LastPage {
		p.CurrentPage = p.LastPage
	}
	return p
}

// Contains reports whether page is navigable.
func (p Pagination) Contains(page int) bool {
	return page >= 1 && page <= p.LastPage
}

// Range returns the 1-based bounds of the rows on the current page, as shown in
// "showing X to Y of Z". Both are zero when there are no rows.
func (p Pagination) Range() (from, to int) {
	if p.Total <= 0 || p.PerPage <= 0 {
		return 0, 0
	}
	from = (p.CurrentPage-1)*p.PerPage + 1
	to = p.CurrentPage * p.PerPage
	if to > p.Total {
		to = p.Total
	}
	if from > to {
		return 0, 0
	}
	return from, to
}

// Window returns the page strip rendered under a listing: the first page, the
// neighbours of the current page, the last page, and PageEllipsis for gaps.
func (p Pagination) Window() []int {
	current, last := p.CurrentPage, p.LastPage
	pages := []int{1}
	if current > 3 {
		pages = append(pages, PageEllipsis)
	}
	if current > 2 {
		pages = append(pages, current-1)
	}
	if current != 1 && current != last {
		pages = append(pages, current)
	}
	if current < last-1 {
		pages = append(pages, current+1)
	}
	if current < last-2 {
		pages = append(pages, PageEllipsis)
	}
	if last > 1 {
		pages = append(pages, last)
	}
	return pages
}
