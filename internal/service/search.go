package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/listenupapp/staff-directory/internal/search"
	"github.com/listenupapp/staff-directory/internal/store"
)

// MaxSearchLimit caps the hits returned by one search.
const MaxSearchLimit = 100

// SearchService bridges the people index with the store.
type SearchService struct {
	index  *search.SearchIndex
	store  store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, st store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  st,
		logger: logger,
	}
}

// Search runs a full-text query over visible profiles.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	params.Query = strings.TrimSpace(params.Query)
	if params.Limit <= 0 {
		params.Limit = search.DefaultSearchParams().Limit
	}
	params.Limit = min(params.Limit, MaxSearchLimit)
	params.Offset = max(params.Offset, 0)
	return s.index.Search(ctx, params)
}

// DocumentCount returns the number of indexed profiles.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexAll rebuilds the index from every visible profile.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	s.logger.Info("starting full reindex")

	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	people, err := s.store.ListPeople(ctx, store.PeopleQuery{VisibleOnly: true})
	if err != nil {
		return fmt.Errorf("list people: %w", err)
	}

	docs := make([]*search.PersonDocument, 0, len(people))
	for _, p := range people {
		names, err := s.store.TagNamesForObject(ctx, p.ID)
		if err != nil {
			s.logger.Warn("failed to load tags for person",
				slog.String("person_id", p.ID),
				slog.String("error", err.Error()))
			names = nil
		}
		docs = append(docs, search.PersonToDocument(p, names))
	}

	if len(docs) > 0 {
		if err := s.index.IndexPeople(ctx, docs); err != nil {
			return fmt.Errorf("index people: %w", err)
		}
	}

	s.logger.Info("reindex complete", slog.Int("people", len(docs)))
	return nil
}
