// Package slug normalizes free text into URL-safe slugs and manipulates
// the "/"-joined slug paths used by tag filter URLs.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	wordSeparatorRe   = regexp.MustCompile(`[\s_/.]+`)
	nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9-]`)
	multipleDashRe    = regexp.MustCompile(`-+`)
)

// Make converts user input to a canonical slug.
//
//	"Public Speaking" → "public-speaking"
//	"Café_Culture"    → "cafe-culture"
//	"C++ / Go!"       → "c-go"
//	"--leading--"     → "leading"
func Make(input string) string {
	s := strings.ToLower(strings.TrimSpace(foldDiacritics(input)))
	s = wordSeparatorRe.ReplaceAllString(s, "-")
	s = nonAlphanumericRe.ReplaceAllString(s, "")
	s = multipleDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Stub builds a profile handle from a person's name.
func Stub(first, last string) string {
	return Make(first + " " + last)
}

func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// SplitPath splits a "/"-joined slug path, dropping blank segments.
// Order is preserved and duplicates are removed.
func SplitPath(path string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(path, "/") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}

// JoinPath joins slugs into a filter path.
func JoinPath(slugs []string) string {
	return strings.Join(slugs, "/")
}

// RemoveFromPath returns path without the given slug. An empty result means
// no filter remains.
func RemoveFromPath(path, slug string) string {
	parts := SplitPath(path)
	kept := parts[:0]
	for _, p := range parts {
		if p != slug {
			kept = append(kept, p)
		}
	}
	return JoinPath(kept)
}
