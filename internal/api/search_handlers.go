package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	domainerrors "github.com/listenupapp/staff-directory/internal/errors"
	"github.com/listenupapp/staff-directory/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchPeople",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/search",
		Summary:     "Search people",
		Description: "Full-text search over names, titles, bios and tags of visible profiles",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains the search query.
type SearchInput struct {
	Query  string `query:"q" doc:"Search text"`
	Limit  int    `query:"limit" validate:"gte=0,lte=100" doc:"Max hits (default 20, max 100)"`
	Offset int    `query:"offset" validate:"gte=0" doc:"Hits to skip"`
}

// SearchOutput wraps search results for Huma.
type SearchOutput struct {
	Body *search.SearchResult
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if s.services.Search == nil {
		return nil, domainerrors.NotFound("Search is not available.")
	}
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	params := search.DefaultSearchParams()
	params.Query = input.Query
	params.Limit = input.Limit
	params.Offset = input.Offset

	res, err := s.services.Search.Search(ctx, params)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "Search failed.")
	}
	return &SearchOutput{Body: res}, nil
}
