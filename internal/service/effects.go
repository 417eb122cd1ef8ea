package service

import (
	"context"
	"log/slog"

	"github.com/listenupapp/staff-directory/internal/cache"
	"github.com/listenupapp/staff-directory/internal/domain"
	"github.com/listenupapp/staff-directory/internal/search"
	"github.com/listenupapp/staff-directory/internal/store"
)

// profileEffects runs the post-commit work shared by every profile mutation.
// Failures are logged; the write already happened.
type profileEffects struct {
	store   store.Store
	cache   CacheInvalidator
	indexer PeopleIndexer
	logger  *slog.Logger
}

func newProfileEffects(s store.Store, c CacheInvalidator, idx PeopleIndexer, logger *slog.Logger) *profileEffects {
	if c == nil {
		c = cache.NewNoop()
	}
	if idx == nil {
		idx = NopIndexer{}
	}
	return &profileEffects{store: s, cache: c, indexer: idx, logger: logger}
}

// profileChanged expires the profile entry and the shared tag listings,
// then refreshes the search document.
func (e *profileEffects) profileChanged(ctx context.Context, p *domain.Person) {
	e.expireProfile(ctx, p.Stub)
	if err := e.cache.ExpireGroup(ctx, cache.GroupTags); err != nil {
		e.logger.Warn("failed to expire tag cache group", slog.String("error", err.Error()))
	}
	e.reindex(ctx, p)
}

func (e *profileEffects) expireProfile(ctx context.Context, stub string) {
	if err := e.cache.Delete(ctx, cache.PersonKey(stub)); err != nil {
		e.logger.Warn("failed to expire profile cache",
			slog.String("stub", stub),
			slog.String("error", err.Error()))
	}
}

func (e *profileEffects) reindex(ctx context.Context, p *domain.Person) {
	if !p.Visible() {
		if err := e.indexer.DeletePerson(ctx, p.ID); err != nil {
			e.logger.Warn("failed to drop person from search index",
				slog.String("person_id", p.ID),
				slog.String("error", err.Error()))
		}
		return
	}

	names, err := e.store.TagNamesForObject(ctx, p.ID)
	if err != nil {
		e.logger.Warn("failed to load tags for reindex",
			slog.String("person_id", p.ID),
			slog.String("error", err.Error()))
		return
	}
	if err := e.indexer.IndexPerson(ctx, search.PersonToDocument(p, names)); err != nil {
		e.logger.Warn("failed to reindex person",
			slog.String("person_id", p.ID),
			slog.String("error", err.Error()))
	}
}

// ProfileLink is the canonical profile location used in redirects and notifications.
func ProfileLink(stub string) string {
	return "/people/" + stub
}

// TagLink is the single-tag filter page location.
func TagLink(tagSlug string) string {
	return "/tags/" + tagSlug
}
