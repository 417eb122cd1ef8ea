package domain

import "fmt"

// TagCategory is one of the three fixed profile tag buckets.
type TagCategory string

// Tag categories. Adding one means updating Label and AllCategories.
const (
	CategoryExpertise   TagCategory = "my-expertise"
	CategoryProjects    TagCategory = "my-projects"
	CategoryOtherThings TagCategory = "other-things"
)

// AllCategories lists the categories in display order.
var AllCategories = []TagCategory{CategoryExpertise, CategoryProjects, CategoryOtherThings}

// ParseTagCategory accepts the bare slug or the legacy "staff-directory-" prefixed form.
func ParseTagCategory(s string) (TagCategory, error) {
	const legacyPrefix = "staff-directory-"
	if len(s) > len(legacyPrefix) && s[:len(legacyPrefix)] == legacyPrefix {
		s = s[len(legacyPrefix):]
	}
	c := TagCategory(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown tag category %q", s)
	}
	return c, nil
}

// Valid reports whether c is a recognized category.
func (c TagCategory) Valid() bool {
	switch c {
	case CategoryExpertise, CategoryProjects, CategoryOtherThings:
		return true
	}
	return false
}

// Label returns the human display label.
func (c TagCategory) Label() string {
	switch c {
	case CategoryExpertise:
		return "Expertise"
	case CategoryProjects:
		return "Projects"
	case CategoryOtherThings:
		return "Other Things"
	}
	return string(c)
}

// String implements fmt.Stringer.
func (c TagCategory) String() string {
	return string(c)
}
