package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// SearchIndex wraps a Bleve index with people-specific operations.
// All methods are safe for concurrent use.
type SearchIndex struct {
	index    bleve.Index
	path     string
	inMemory bool
	logger   *slog.Logger
	mu       sync.RWMutex // guards index swaps during Rebuild
}

// Options configures the search index.
type Options struct {
	DataPath string // directory for index storage
	InMemory bool   // keep the index in memory only
	Logger   *slog.Logger
}

// mappingVersion is bumped whenever buildIndexMapping changes so stale
// on-disk indexes are rebuilt at startup.
const mappingVersion = "1"

// NewSearchIndex opens the index at DataPath, creating or rebuilding it as needed.
func NewSearchIndex(opts Options) (*SearchIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	if opts.InMemory {
		index, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create memory index: %w", err)
		}
		return &SearchIndex{index: index, inMemory: true, logger: logger}, nil
	}

	if err := os.MkdirAll(opts.DataPath, 0o755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	indexPath := filepath.Join(opts.DataPath, "people.bleve")
	versionPath := filepath.Join(opts.DataPath, "people.version")

	var index bleve.Index
	needsRebuild := false

	if _, statErr := os.Stat(indexPath); statErr == nil {
		existing, readErr := os.ReadFile(versionPath)
		if readErr != nil || string(existing) != mappingVersion {
			logger.Info("search index mapping version changed, will rebuild",
				slog.String("old_version", string(existing)),
				slog.String("new_version", mappingVersion))
			needsRebuild = true
		} else {
			var err error
			index, err = bleve.Open(indexPath)
			if err != nil {
				logger.Warn("failed to open existing index, will recreate",
					slog.String("path", indexPath),
					slog.String("error", err.Error()))
				needsRebuild = true
			}
		}
	}

	if needsRebuild {
		if err := os.RemoveAll(indexPath); err != nil {
			return nil, fmt.Errorf("remove old index: %w", err)
		}
		index = nil
	}

	if index == nil {
		var err error
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if err := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); err != nil {
			logger.Warn("failed to write search version file", slog.String("error", err.Error()))
		}
		logger.Info("created new search index", slog.String("path", indexPath))
	} else {
		logger.Info("opened existing search index", slog.String("path", indexPath))
	}

	return &SearchIndex{index: index, path: indexPath, logger: logger}, nil
}

// Close closes the index.
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexPerson adds or replaces a person document.
func (s *SearchIndex) IndexPerson(_ context.Context, doc *PersonDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Index(doc.ID, doc.ToMap())
}

// IndexPeople indexes documents in batches of 500.
func (s *SearchIndex) IndexPeople(_ context.Context, docs []*PersonDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	const batchSize = 500

	for i := 0; i < len(docs); i += batchSize {
		end := min(i+batchSize, len(docs))

		batch := s.index.NewBatch()
		for _, doc := range docs[i:end] {
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

// DeletePerson removes a person from the index. Unknown ids are ignored.
func (s *SearchIndex) DeletePerson(_ context.Context, personID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(personID)
}

// DocumentCount returns the number of indexed people.
func (s *SearchIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild drops every document and starts from an empty index.
// It blocks all other operations while it runs.
func (s *SearchIndex) Rebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}

	var (
		index bleve.Index
		err   error
	)
	if s.inMemory {
		index, err = bleve.NewMemOnly(buildIndexMapping())
	} else {
		if err := os.RemoveAll(s.path); err != nil {
			return fmt.Errorf("remove index: %w", err)
		}
		index, err = bleve.New(s.path, buildIndexMapping())
	}
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	s.index = index
	s.logger.Info("rebuilt search index", slog.String("path", s.path))
	return nil
}
