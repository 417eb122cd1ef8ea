// Package search provides full-text people search using Bleve.
package search

import (
	"strings"

	"github.com/listenupapp/staff-directory/internal/domain"
)

// PersonDocument is the indexed form of a visible profile. Tag names and
// bio text are denormalized so a single query covers everything a colleague
// might remember about someone.
type PersonDocument struct {
	ID       string   `json:"id"`
	Stub     string   `json:"stub"`
	Name     string   `json:"name"`
	Title    string   `json:"title,omitempty"`
	Location string   `json:"location,omitempty"`
	Bio      string   `json:"bio,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	UpdatedAt int64 `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map keyed by mapping field names.
func (d *PersonDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"stub":       d.Stub,
		"name":       d.Name,
		"updated_at": d.UpdatedAt,
	}
	if d.Title != "" {
		m["title"] = d.Title
	}
	if d.Location != "" {
		m["location"] = d.Location
	}
	if d.Bio != "" {
		m["bio"] = d.Bio
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	return m
}

// PersonToDocument builds a document from a profile and its tag names.
func PersonToDocument(p *domain.Person, tagNames []string) *PersonDocument {
	bio := make([]string, 0, 5)
	for _, s := range []string{p.Bio.AboutMe, p.Bio.WhatIDo, p.Bio.CurrentProjects, p.Bio.StuffIveDone, p.Bio.ThingsImGoodAt} {
		if s = strings.TrimSpace(s); s != "" {
			bio = append(bio, s)
		}
	}

	return &PersonDocument{
		ID:        p.ID,
		Stub:      p.Stub,
		Name:      p.FullName(),
		Title:     p.Title,
		Location:  p.Contact.OfficeLocation,
		Bio:       strings.Join(bio, "\n\n"),
		Tags:      tagNames,
		UpdatedAt: p.UpdatedAt.UnixMilli(),
	}
}
