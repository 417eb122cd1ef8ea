package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/listenupapp/staff-directory/internal/cache"
	"github.com/listenupapp/staff-directory/internal/domain"
	domainerrors "github.com/listenupapp/staff-directory/internal/errors"
	"github.com/listenupapp/staff-directory/internal/slug"
	"github.com/listenupapp/staff-directory/internal/store"
)

// DefaultRelatedTagLimit caps the related tags on a filter page.
const DefaultRelatedTagLimit = 30

const msgNoActiveUsers = "There are no active users with this tag."

// TagFilterService intersects profiles by tag.
type TagFilterService struct {
	store        store.Store
	cache        cache.Cache
	metrics      MetricsRecorder
	relatedLimit int
	ttl          time.Duration
	logger       *slog.Logger
}

// NewTagFilterService creates a new tag filter service. A relatedLimit
// below zero falls back to DefaultRelatedTagLimit.
func NewTagFilterService(
	st store.Store,
	c cache.Cache,
	metrics MetricsRecorder,
	relatedLimit int,
	ttl time.Duration,
	logger *slog.Logger,
) *TagFilterService {
	if c == nil {
		c = cache.NewNoop()
	}
	if metrics == nil {
		metrics = NopRecorder{}
	}
	if relatedLimit < 0 {
		relatedLimit = DefaultRelatedTagLimit
	}
	return &TagFilterService{
		store:        st,
		cache:        c,
		metrics:      metrics,
		relatedLimit: relatedLimit,
		ttl:          ttl,
		logger:       logger,
	}
}

// SelectedTag is a resolved filter tag with the path that drops it.
type SelectedTag struct {
	domain.Tag
	// RemovePath is empty when removing the tag leaves no filter.
	RemovePath string `json:"remove_path"`
}

// TagFilterResult is a tag filter page.
type TagFilterResult struct {
	// NoFilter is set when nothing in the path resolved; callers should
	// send the viewer to the unfiltered listing.
	NoFilter    bool              `json:"no_filter"`
	Path        string            `json:"path"`
	Title       string            `json:"title"`
	Selected    []SelectedTag     `json:"selected"`
	SingleTag   *domain.Tag       `json:"single_tag,omitempty"`
	People      []*domain.Person  `json:"people"`
	RelatedTags []domain.TagCount `json:"related_tags"`
}

// FilterByTags returns the visible profiles carrying every tag in path
// along with the tags most used among them. Unknown slugs are ignored.
func (s *TagFilterService) FilterByTags(ctx context.Context, path string) (*TagFilterResult, error) {
	tags, err := s.resolveTags(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return &TagFilterResult{NoFilter: true}, nil
	}

	key := "tagfilter:" + canonicalKey(tags)
	data, err := cache.GetOrLoad(ctx, s.cache, s.logger, key, s.ttl, []string{cache.GroupTags},
		func(ctx context.Context) (*filterData, error) {
			return s.loadFilter(ctx, tags)
		})
	if err != nil {
		return nil, err
	}

	s.metrics.TagFilterServed(len(tags))
	return newFilterResult(tags, data.People, data.RelatedTags), nil
}

// filterData is the cached, order-independent part of a filter page.
type filterData struct {
	People      []*domain.Person  `json:"people"`
	RelatedTags []domain.TagCount `json:"related_tags"`
}

func (s *TagFilterService) loadFilter(ctx context.Context, tags []*domain.Tag) (*filterData, error) {
	ids, err := s.intersect(ctx, tags)
	if err != nil {
		return nil, err
	}

	people, err := s.store.ListPeople(ctx, store.PeopleQuery{IDs: ids, VisibleOnly: true})
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list tagged people")
	}

	related, err := relatedTags(ctx, s.store, people, tags, s.relatedLimit)
	if err != nil {
		return nil, err
	}

	return &filterData{People: people, RelatedTags: related}, nil
}

// ExportTagEmails returns the "; " joined emails of active accounts whose
// profile carries every tag in path. Hidden profiles are included. A path with
// no known tags exports nobody.
func (s *TagFilterService) ExportTagEmails(ctx context.Context, path string) (string, error) {
	tags, err := s.resolveTags(ctx, path)
	if err != nil {
		return "", err
	}
	if len(tags) == 0 {
		return msgNoActiveUsers, nil
	}

	ids, err := s.intersect(ctx, tags)
	if err != nil {
		return "", err
	}

	people, err := s.store.ListPeople(ctx, store.PeopleQuery{IDs: ids, ActiveOnly: true})
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "list tagged people")
	}
	return joinEmails(people), nil
}

// resolveTags maps path segments to stored tags, keeping path order.
func (s *TagFilterService) resolveTags(ctx context.Context, path string) ([]*domain.Tag, error) {
	return resolvePath(ctx, s.store, path)
}

func resolvePath(ctx context.Context, st store.Store, path string) ([]*domain.Tag, error) {
	slugs := slug.SplitPath(path)
	if len(slugs) == 0 {
		return nil, nil
	}

	found, err := st.GetTagsBySlugs(ctx, slugs)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "resolve tags")
	}

	bySlug := make(map[string]*domain.Tag, len(found))
	for _, t := range found {
		bySlug[t.Slug] = t
	}
	tags := make([]*domain.Tag, 0, len(found))
	for _, sl := range slugs {
		if t, ok := bySlug[sl]; ok {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func (s *TagFilterService) intersect(ctx context.Context, tags []*domain.Tag) ([]string, error) {
	return intersectTagged(ctx, s.store, tags)
}

// intersectTagged returns the IDs of objects tagged with every tag, in any
// category. The result is non-nil so it can restrict a PeopleQuery.
func intersectTagged(ctx context.Context, st store.Store, tags []*domain.Tag) ([]string, error) {
	var current map[string]struct{}
	for _, t := range tags {
		ids, err := st.ObjectIDsForTag(ctx, t.ID)
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "load tagged objects")
		}

		next := make(map[string]struct{}, len(ids))
		for _, objectID := range ids {
			if current == nil {
				next[objectID] = struct{}{}
				continue
			}
			if _, ok := current[objectID]; ok {
				next[objectID] = struct{}{}
			}
		}
		current = next
		if len(current) == 0 {
			break
		}
	}

	out := make([]string, 0, len(current))
	for objectID := range current {
		out = append(out, objectID)
	}
	slices.Sort(out)
	return out, nil
}

// relatedTags counts tags across people, drops the selected ones and caps
// the list at limit.
func relatedTags(ctx context.Context, st store.Store, people []*domain.Person, selected []*domain.Tag, limit int) ([]domain.TagCount, error) {
	ids := make([]string, len(people))
	for i, p := range people {
		ids[i] = p.ID
	}

	counts, err := st.TagCountsForObjects(ctx, ids, domain.AllCategories)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "count related tags")
	}

	related := slices.DeleteFunc(counts, func(tc domain.TagCount) bool {
		return slices.ContainsFunc(selected, func(t *domain.Tag) bool { return t.ID == tc.ID })
	})
	if len(related) > limit {
		related = related[:limit]
	}
	return related, nil
}

func newFilterResult(tags []*domain.Tag, people []*domain.Person, related []domain.TagCount) *TagFilterResult {
	slugs := make([]string, len(tags))
	names := make([]string, len(tags))
	for i, t := range tags {
		slugs[i] = t.Slug
		names[i] = t.Name
	}
	path := slug.JoinPath(slugs)

	selected := make([]SelectedTag, len(tags))
	for i, t := range tags {
		selected[i] = SelectedTag{Tag: *t, RemovePath: slug.RemoveFromPath(path, t.Slug)}
	}

	result := &TagFilterResult{
		Path:        path,
		Title:       strings.Join(names, " + "),
		Selected:    selected,
		People:      people,
		RelatedTags: related,
	}
	if len(tags) == 1 {
		single := *tags[0]
		result.SingleTag = &single
	}
	return result
}

// canonicalKey is the order-independent identity of a tag selection.
func canonicalKey(tags []*domain.Tag) string {
	slugs := make([]string, len(tags))
	for i, t := range tags {
		slugs[i] = t.Slug
	}
	slices.Sort(slugs)
	return slug.JoinPath(slugs)
}

func joinEmails(people []*domain.Person) string {
	emails := make([]string, 0, len(people))
	for _, p := range people {
		if p.Account != nil && p.Account.Email != "" {
			emails = append(emails, p.Account.Email)
		}
	}
	if len(emails) == 0 {
		return msgNoActiveUsers
	}
	return strings.Join(emails, "; ")
}
