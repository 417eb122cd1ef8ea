package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerLookupRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "lookupPerson",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/lookup",
		Summary:     "Find a profile by email",
		Description: "Redirects to the profile owning email, matched without regard to case. Other query parameters are forwarded.",
		Tags:        []string{"People"},
	}, s.handleLookup)
}

// === DTOs ===

// LookupInput carries the email plus every other query parameter.
type LookupInput struct {
	Email string `query:"email" doc:"Email address"`

	query url.Values
}

// Resolve captures the raw query so unknown parameters can be forwarded.
func (i *LookupInput) Resolve(ctx huma.Context) []error {
	u := ctx.URL()
	i.query = u.Query()
	return nil
}

// RedirectOutput is a bodiless redirect.
type RedirectOutput struct {
	Status   int
	Location string `header:"Location"`
}

// StatusCode returns the redirect status.
func (o *RedirectOutput) StatusCode() int {
	return o.Status
}

// === Handlers ===

func (s *Server) handleLookup(ctx context.Context, input *LookupInput) (*RedirectOutput, error) {
	location, err := s.services.Lookup.Lookup(ctx, input.Email, input.query)
	if err != nil {
		return nil, err
	}
	return &RedirectOutput{Status: http.StatusFound, Location: apiLink(location)}, nil
}
