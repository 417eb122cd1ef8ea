package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/listenupapp/staff-directory/internal/domain"
	domainerrors "github.com/listenupapp/staff-directory/internal/errors"
	"github.com/listenupapp/staff-directory/internal/id"
	"github.com/listenupapp/staff-directory/internal/notify"
	"github.com/listenupapp/staff-directory/internal/slug"
	"github.com/listenupapp/staff-directory/internal/store"
)

// TagService adds and removes tags on profiles.
type TagService struct {
	store    store.Store
	effects  *profileEffects
	notifier Notifier
	metrics  MetricsRecorder
	logger   *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(
	store store.Store,
	cache CacheInvalidator,
	indexer PeopleIndexer,
	notifier Notifier,
	metrics MetricsRecorder,
	logger *slog.Logger,
) *TagService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if metrics == nil {
		metrics = NopRecorder{}
	}
	return &TagService{
		store:    store,
		effects:  newProfileEffects(store, cache, indexer, logger),
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// AddTagInput is a request to tag a profile.
type AddTagInput struct {
	Stub     string
	Category string
	Tag      string
}

// AddTagResult describes the association after AddTag.
// Created is false when the profile already carried the tag.
type AddTagResult struct {
	Person  *domain.Person
	Tag     *domain.Tag
	Item    *domain.TaggedItem
	Created bool
}

// AddTag tags a profile. Adding a tag the profile already has in the
// category (ignoring case) returns the existing association with no side
// effects.
func (s *TagService) AddTag(ctx context.Context, actorID string, in AddTagInput) (*AddTagResult, error) {
	var (
		actor    *domain.Person
		profile  *domain.Person
		category domain.TagCategory
	)

	err := RunGuards(ctx,
		RequireAuthenticated(actorID),
		requireRegistered(s.store, actorID, &actor),
		requireNotBlank(in.Tag, msgBlankTag),
		requireCategory(in.Category, &category),
		requireProfile(s.store, in.Stub, &profile),
		requireTaggingAllowed(actorID, &profile),
	)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(in.Tag)

	item, tag, err := s.store.FindTaggedItemByTagName(ctx, profile.ID, category, text)
	if err == nil {
		return &AddTagResult{Person: profile, Tag: tag, Item: item, Created: false}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "check existing tag")
	}

	if slug.Make(text) == "" {
		return nil, domainerrors.Validation(msgTagUnsluggable)
	}

	tag, _, err = s.store.FindOrCreateTag(ctx, text)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "find or create tag")
	}

	itemID, err := id.Generate(id.PrefixTaggedItem)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate tagged item id")
	}

	item, created, err := s.store.AddTaggedItem(ctx, &domain.TaggedItem{
		ID:          itemID,
		TagID:       tag.ID,
		ObjectID:    profile.ID,
		ContentType: domain.ContentTypePerson,
		Category:    category,
		CreatorID:   actorID,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "add tag")
	}
	if !created {
		// Lost a race with an identical request.
		return &AddTagResult{Person: profile, Tag: tag, Item: item, Created: false}, nil
	}

	s.effects.profileChanged(ctx, profile)
	s.metrics.TagAdded(string(category))

	if !profile.OwnedBy(actorID) {
		s.notifier.Notify(ctx, notify.Notification{
			ActorID:     actorID,
			Verb:        notify.VerbTagged,
			SubjectID:   profile.ID,
			RecipientID: profile.AccountID,
			Title:       fmt.Sprintf("%s tagged you with %q", actor.FullName(), text),
			Link:        ProfileLink(profile.Stub),
		})
	}

	s.logger.Info("tag added to profile",
		slog.String("stub", profile.Stub),
		slog.String("tag_slug", tag.Slug),
		slog.String("category", string(category)),
		slog.String("actor_id", actorID))

	return &AddTagResult{Person: profile, Tag: tag, Item: item, Created: true}, nil
}

// QuickAdd tags the profile at stub with an existing tag from a single-tag
// filter page. An empty category files the tag under other-things.
func (s *TagService) QuickAdd(ctx context.Context, actorID, tagSlug, stub, category string) (*AddTagResult, error) {
	if err := RunGuards(ctx, RequireAuthenticated(actorID)); err != nil {
		return nil, err
	}

	tag, err := s.store.GetTagBySlug(ctx, strings.TrimSpace(tagSlug))
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound(msgTagNotFound)
	}
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "load tag")
	}

	if strings.TrimSpace(category) == "" {
		category = string(domain.CategoryOtherThings)
	}

	return s.AddTag(ctx, actorID, AddTagInput{Stub: stub, Category: category, Tag: tag.Name})
}

// RemoveTag deletes one association. Only the profile owner or the
// association's creator may remove it. Nothing happens unless every part
// of (profile, tag, category) resolves.
func (s *TagService) RemoveTag(ctx context.Context, actorID, stub, tagSlug, rawCategory string) error {
	var (
		actor    *domain.Account
		profile  *domain.Person
		category domain.TagCategory
		tag      *domain.Tag
		item     *domain.TaggedItem
	)

	err := RunGuards(ctx,
		RequireAuthenticated(actorID),
		requireAccount(s.store, actorID, &actor),
		requireProfile(s.store, stub, &profile),
		func(context.Context) error {
			c, err := domain.ParseTagCategory(strings.TrimSpace(rawCategory))
			if err != nil {
				return domainerrors.NotFound(msgTagNotOnProfile)
			}
			category = c
			return nil
		},
		func(ctx context.Context) error {
			t, err := s.store.GetTagBySlug(ctx, tagSlug)
			if errors.Is(err, store.ErrNotFound) {
				return domainerrors.NotFound(msgTagNotFound)
			}
			if err != nil {
				return domainerrors.Wrap(err, domainerrors.CodeInternal, "load tag")
			}
			tag = t
			return nil
		},
		func(ctx context.Context) error {
			ti, err := s.store.GetTaggedItem(ctx, profile.ID, tag.ID, category)
			if errors.Is(err, store.ErrNotFound) {
				return domainerrors.NotFound(msgTagNotOnProfile)
			}
			if err != nil {
				return domainerrors.Wrap(err, domainerrors.CodeInternal, "load tagged item")
			}
			item = ti
			return nil
		},
		func(context.Context) error {
			if !profile.OwnedBy(actorID) && !item.CreatedBy(actorID) {
				return domainerrors.Forbidden(msgRemoveForbidden)
			}
			return nil
		},
	)
	if err != nil {
		return err
	}

	if err := s.store.DeleteTaggedItem(ctx, item.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound(msgTagNotOnProfile)
		}
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "remove tag")
	}

	s.effects.profileChanged(ctx, profile)
	s.metrics.TagRemoved(string(category))

	if !profile.OwnedBy(actorID) {
		s.notifier.Notify(ctx, notify.Notification{
			ActorID:     actorID,
			Verb:        notify.VerbUntagged,
			SubjectID:   profile.ID,
			RecipientID: profile.AccountID,
			Title:       fmt.Sprintf("%s removed the %q tag from your profile", actor.FullName(), tag.Name),
			Link:        ProfileLink(profile.Stub),
		})
	}

	s.logger.Info("tag removed from profile",
		slog.String("stub", profile.Stub),
		slog.String("tag_slug", tag.Slug),
		slog.String("category", string(category)),
		slog.String("actor_id", actorID))

	return nil
}

// ProfileTag is a tag on a profile in one category as seen by a viewer.
type ProfileTag struct {
	domain.Tag
	Category domain.TagCategory `json:"category"`
	Count    int                `json:"count"`
	// Taggers joins the display names of creators that still resolve.
	Taggers    string   `json:"taggers"`
	CreatorIDs []string `json:"creator_ids,omitempty"`
	CanRemove  bool     `json:"can_remove"`
}

// CategoryTags groups a profile's tags under one category.
type CategoryTags struct {
	Category domain.TagCategory `json:"category"`
	Label    string             `json:"label"`
	Tags     []ProfileTag       `json:"tags"`
}

// TagsForProfile returns the tags on person in category with CanRemove
// computed for viewerID.
func (s *TagService) TagsForProfile(ctx context.Context, viewerID string, person *domain.Person, category domain.TagCategory) ([]ProfileTag, error) {
	tags, err := loadProfileTags(ctx, s.store, person.ID, category)
	if err != nil {
		return nil, err
	}
	return applyViewer(tags, person, viewerID), nil
}

// CategoryTagsForProfile returns one category of the visible profile at stub,
// refreshed after an add or remove.
func (s *TagService) CategoryTagsForProfile(ctx context.Context, viewerID, stub, rawCategory string) (*CategoryTags, error) {
	var (
		profile  *domain.Person
		category domain.TagCategory
	)

	err := RunGuards(ctx,
		requireProfile(s.store, stub, &profile),
		func(context.Context) error {
			if !profile.Visible() {
				return domainerrors.NotFound(msgPersonNotFound)
			}
			return nil
		},
		requireCategory(rawCategory, &category),
	)
	if err != nil {
		return nil, err
	}

	tags, err := s.TagsForProfile(ctx, viewerID, profile, category)
	if err != nil {
		return nil, err
	}
	return &CategoryTags{Category: category, Label: category.Label(), Tags: tags}, nil
}

// loadProfileTags aggregates the viewer-independent part of a category's tags.
func loadProfileTags(ctx context.Context, s store.Store, personID string, category domain.TagCategory) ([]ProfileTag, error) {
	rows, err := s.ProfileTagRows(ctx, personID, category)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "load profile tags")
	}

	byTag := make(map[string]*ProfileTag)
	names := make(map[string][]string)
	var order []string

	for _, row := range rows {
		pt, ok := byTag[row.Tag.ID]
		if !ok {
			pt = &ProfileTag{Tag: row.Tag, Category: category}
			byTag[row.Tag.ID] = pt
			order = append(order, row.Tag.ID)
		}
		pt.Count++
		if row.CreatorPresent {
			pt.CreatorIDs = append(pt.CreatorIDs, row.Item.CreatorID)
			names[row.Tag.ID] = append(names[row.Tag.ID], row.CreatorName)
		}
	}

	out := make([]ProfileTag, 0, len(order))
	for _, tagID := range order {
		pt := byTag[tagID]
		pt.Taggers = strings.Join(names[tagID], ", ")
		out = append(out, *pt)
	}

	slices.SortStableFunc(out, func(a, b ProfileTag) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.Slug, b.Slug)
	})
	return out, nil
}

// applyViewer returns a copy of tags with CanRemove set for viewerID.
func applyViewer(tags []ProfileTag, person *domain.Person, viewerID string) []ProfileTag {
	owner := person.OwnedBy(viewerID)
	out := make([]ProfileTag, len(tags))
	for i, t := range tags {
		t.CanRemove = owner || (viewerID != "" && slices.Contains(t.CreatorIDs, viewerID))
		out[i] = t
	}
	return out
}
