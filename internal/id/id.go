// Package id generates prefixed, URL-safe identifiers.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Entity prefixes.
const (
	PrefixAccount    = "acct"
	PrefixPerson     = "person"
	PrefixOrgGroup   = "org"
	PrefixTag        = "tag"
	PrefixTaggedItem = "ti"
	PrefixPraise     = "thanks"
	PrefixClient     = "sse"
)

// Generate returns "<prefix>-<nanoid>", e.g. "tag-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	nid, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + nid, nil
}

// MustGenerate is like Generate but panics on entropy failure.
func MustGenerate(prefix string) string {
	v, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return v
}
