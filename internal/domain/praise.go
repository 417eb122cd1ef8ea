package domain

import (
	"fmt"
	"strings"
	"time"
)

// PraiseValue is one of the recognized organizational values a thanks note cites.
type PraiseValue string

// Praise values. Adding one means updating Noun and AllPraiseValues.
const (
	ValueServe    PraiseValue = "serve"
	ValueLead     PraiseValue = "lead"
	ValueInnovate PraiseValue = "innovate"
)

// AllPraiseValues lists the recognized values.
var AllPraiseValues = []PraiseValue{ValueServe, ValueLead, ValueInnovate}

// ParsePraiseValue matches case-insensitively.
func ParsePraiseValue(s string) (PraiseValue, error) {
	v := PraiseValue(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("unknown praise value %q", s)
	}
	return v, nil
}

// Valid reports whether v is recognized.
func (v PraiseValue) Valid() bool {
	switch v {
	case ValueServe, ValueLead, ValueInnovate:
		return true
	}
	return false
}

// Noun is used in notification titles: "thanked you for Leadership".
func (v PraiseValue) Noun() string {
	switch v {
	case ValueServe:
		return "Service"
	case ValueLead:
		return "Leadership"
	case ValueInnovate:
		return "Innovation"
	}
	return string(v)
}

// Praise is an immutable thanks note from a nominator account to a recipient profile.
type Praise struct {
	ID          string      `json:"id"`
	RecipientID string      `json:"recipient_id"`
	NominatorID string      `json:"nominator_id"`
	Value       PraiseValue `json:"value"`
	Reason      string      `json:"reason"`
	CreatedAt   time.Time   `json:"created_at"`

	// Populated by list queries.
	Recipient *Person  `json:"recipient,omitempty"`
	Nominator *Account `json:"nominator,omitempty"`
}
