package domain

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Tag is a global free-text label. Slug is the identity used in URLs and
// filters; Name keeps the casing of the first person who typed it.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// TagCount pairs a tag with the number of associations counted for it.
type TagCount struct {
	Tag
	Count int `json:"count"`
}

// SortTagCounts orders by count descending, then name, then slug.
func SortTagCounts(tags []TagCount) {
	slices.SortStableFunc(tags, func(a, b TagCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.Slug, b.Slug)
	})
}
