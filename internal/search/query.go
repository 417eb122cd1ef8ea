package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a people search.
type SearchParams struct {
	Query     string
	Limit     int
	Offset    int
	Highlight bool
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{Limit: 20, Highlight: true}
}

// SearchResult holds matching people.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// SearchHit is a single matching person.
type SearchHit struct {
	ID         string            `json:"id"`
	Stub       string            `json:"stub"`
	Name       string            `json:"name"`
	Title      string            `json:"title,omitempty"`
	Score      float64           `json:"score"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search runs a query against the people index.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = DefaultSearchParams().Limit
	}

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params.Query), params.Limit, params.Offset, false)
	req.SortBy([]string{"-_score", "name"})
	req.Fields = []string{"id", "stub", "name", "title"}

	if params.Highlight {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("name")
		req.Highlight.AddField("title")
		req.Highlight.AddField("tags")
	}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(res.Hits)),
	}

	for _, hit := range res.Hits {
		h := SearchHit{ID: hit.ID, Score: hit.Score}
		if v, ok := hit.Fields["stub"].(string); ok {
			h.Stub = v
		}
		if v, ok := hit.Fields["name"].(string); ok {
			h.Name = v
		}
		if v, ok := hit.Fields["title"].(string); ok {
			h.Title = v
		}
		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string, len(hit.Fragments))
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					h.Highlights[field] = fragments[0]
				}
			}
		}
		result.Hits = append(result.Hits, h)
	}

	return result, nil
}

// buildSearchQuery matches names hardest, then tags and titles, then bio.
// An empty query matches everyone.
func buildSearchQuery(q string) query.Query {
	q = strings.TrimSpace(q)
	if q == "" {
		return bleve.NewMatchAllQuery()
	}

	nameMatch := bleve.NewMatchQuery(q)
	nameMatch.SetField("name")
	nameMatch.SetBoost(3.0)

	tagMatch := bleve.NewMatchQuery(q)
	tagMatch.SetField("tags")
	tagMatch.SetBoost(2.0)

	titleMatch := bleve.NewMatchQuery(q)
	titleMatch.SetField("title")
	titleMatch.SetBoost(1.5)

	locationMatch := bleve.NewMatchQuery(q)
	locationMatch.SetField("location")

	bioMatch := bleve.NewMatchQuery(q)
	bioMatch.SetField("bio")
	bioMatch.SetBoost(0.8)

	// Typo tolerance on names.
	fuzzy := bleve.NewFuzzyQuery(strings.ToLower(q))
	fuzzy.SetFuzziness(1)
	fuzzy.SetField("name")
	fuzzy.SetBoost(0.8)

	queries := []query.Query{nameMatch, tagMatch, titleMatch, locationMatch, bioMatch, fuzzy}

	// Autocomplete on partial names.
	if len(q) >= 2 {
		prefix := bleve.NewPrefixQuery(strings.ToLower(q))
		prefix.SetField("name")
		prefix.SetBoost(0.5)
		queries = append(queries, prefix)
	}

	return bleve.NewDisjunctionQuery(queries...)
}
