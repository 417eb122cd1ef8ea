package domain

import "strings"

// Account is the identity record owned by the surrounding platform.
// The directory only reads it; every Person hangs off exactly one Account.
type Account struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `json:"is_active"`
}

// FullName returns "First Last", collapsing missing parts.
func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}
