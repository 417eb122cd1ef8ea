package store

import (
	"strconv"
	"strings"
)

// Page is one page of a numbered listing together with the window of page
// numbers to show around it.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Number     int   `json:"page"`
	TotalPages int   `json:"total_pages"`
	TotalItems int   `json:"total_items"`
	PageSize   int   `json:"page_size"`
	Window     []int `json:"page_window"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

// Paginator resolves page requests against a known item count.
type Paginator struct {
	PageSize   int
	WindowSize int
}

// TotalPages returns the number of pages for count items. An empty listing
// still has one (empty) page.
func (p Paginator) TotalPages(count int) int {
	if count <= 0 || p.PageSize <= 0 {
		return 1
	}
	return (count + p.PageSize - 1) / p.PageSize
}

// Resolve turns a raw page parameter into a page number in [1, total].
// A missing or non-numeric value gives page 1; a numeric value outside the
// range gives the last page.
func (p Paginator) Resolve(raw string, total int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	if n < 1 || n > total {
		return total
	}
	return n
}

// Offset returns the row offset of page.
func (p Paginator) Offset(page int) int {
	return (page - 1) * p.PageSize
}

// Window returns the page numbers to display around current.
//
// With W the window size and T the total:
//
//	current <= W/2       → [1, min(W, T)]
//	current >  T - W/2   → [max(1, T-W), T]
//	otherwise            → [current - W/2, current + W/2]
func (p Paginator) Window(current, total int) []int {
	w := p.WindowSize
	half := w / 2

	var lo, hi int
	switch {
	case current <= half:
		lo, hi = 1, min(w, total)
	case current > total-half:
		lo, hi = max(1, total-w), total
	default:
		lo, hi = current-half, current+half
	}

	pages := make([]int, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		pages = append(pages, n)
	}
	return pages
}

// NewPage assembles a Page for items already fetched at number.
func NewPage[T any](p Paginator, items []T, number, totalItems int) *Page[T] {
	total := p.TotalPages(totalItems)
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:      items,
		Number:     number,
		TotalPages: total,
		TotalItems: totalItems,
		PageSize:   p.PageSize,
		Window:     p.Window(number, total),
		HasPrev:    number > 1,
		HasNext:    number < total,
	}
}
