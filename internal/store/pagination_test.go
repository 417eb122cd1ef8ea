package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func span(lo, hi int) []int {
	out := []int{}
	for n := lo; n <= hi; n++ {
		out = append(out, n)
	}
	return out
}

func TestPaginator_Window(t *testing.T) {
	p := Paginator{PageSize: 10, WindowSize: 15}

	tests := []struct {
		name           string
		current, total int
		want           []int
	}{
		{"centered", 35, 100, span(28, 42)},
		{"first page", 1, 100, span(1, 15)},
		{"last page", 100, 100, span(85, 100)},
		{"few pages", 3, 5, span(1, 5)},
		{"single page", 1, 1, span(1, 1)},
		{"lower edge of head", 7, 100, span(1, 15)},
		{"first centered", 8, 100, span(1, 15)},
		{"tail boundary", 93, 100, span(86, 100)},
		{"tail start", 94, 100, span(85, 100)},
		{"tail clamped at one", 9, 10, span(1, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Window(tt.current, tt.total))
		})
	}
}

func TestPaginator_WindowNeverExceedsRange(t *testing.T) {
	p := Paginator{PageSize: 10, WindowSize: 15}

	for total := 1; total <= 40; total++ {
		for current := 1; current <= total; current++ {
			w := p.Window(current, total)
			assert.NotEmpty(t, w)
			assert.GreaterOrEqual(t, w[0], 1)
			assert.LessOrEqual(t, w[len(w)-1], total)
			assert.Contains(t, w, current, "total=%d current=%d", total, current)
		}
	}
}

func TestPaginator_Resolve(t *testing.T) {
	p := Paginator{PageSize: 10, WindowSize: 15}

	tests := []struct {
		raw   string
		total int
		want  int
	}{
		{"", 5, 1},
		{"abc", 5, 1},
		{"3", 5, 3},
		{" 2 ", 5, 2},
		{"9999", 5, 5},
		{"0", 5, 5},
		{"-1", 5, 5},
		{"1", 1, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Resolve(tt.raw, tt.total), "raw=%q", tt.raw)
	}
}

func TestPaginator_TotalPages(t *testing.T) {
	p := Paginator{PageSize: 10}

	assert.Equal(t, 1, p.TotalPages(0))
	assert.Equal(t, 1, p.TotalPages(10))
	assert.Equal(t, 2, p.TotalPages(11))
	assert.Equal(t, 10, p.Offset(2))
}

func TestNewPage(t *testing.T) {
	p := Paginator{PageSize: 2, WindowSize: 15}

	page := NewPage(p, []string{"c", "d"}, 2, 5)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasPrev)
	assert.True(t, page.HasNext)
	assert.Equal(t, []int{1, 2, 3}, page.Window)

	empty := NewPage[string](p, nil, 1, 0)
	assert.Equal(t, 1, empty.TotalPages)
	assert.NotNil(t, empty.Items)
	assert.False(t, empty.HasNext)
}
