package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/listenupapp/staff-directory/internal/cache"
	"github.com/listenupapp/staff-directory/internal/color"
	"github.com/listenupapp/staff-directory/internal/domain"
	domainerrors "github.com/listenupapp/staff-directory/internal/errors"
	"github.com/listenupapp/staff-directory/internal/store"
)

const overviewKey = "overview"

// DirectoryOptions tunes the browse pages.
type DirectoryOptions struct {
	RelatedTagLimit    int
	PopularTagMinCount int
	RecentProfileLimit int
	RecentThanksLimit  int
	CacheTTL           time.Duration
}

// DefaultDirectoryOptions returns the stock browse settings.
func DefaultDirectoryOptions() DirectoryOptions {
	return DirectoryOptions{
		RelatedTagLimit:    DefaultRelatedTagLimit,
		PopularTagMinCount: 20,
		RecentProfileLimit: 20,
		RecentThanksLimit:  50,
		CacheTTL:           10 * time.Minute,
	}
}

// DirectoryService serves the read-only browse pages.
type DirectoryService struct {
	store  store.Store
	cache  cache.Cache
	opts   DirectoryOptions
	logger *slog.Logger
}

// NewDirectoryService creates a new directory service.
func NewDirectoryService(st store.Store, c cache.Cache, opts DirectoryOptions, logger *slog.Logger) *DirectoryService {
	if c == nil {
		c = cache.NewNoop()
	}
	return &DirectoryService{store: st, cache: c, opts: opts, logger: logger}
}

// Overview is the landing page of the directory.
type Overview struct {
	RecentPeople []*domain.Person   `json:"recent_people"`
	Divisions    []*domain.OrgGroup `json:"divisions"`
	Offices      []*domain.OrgGroup `json:"offices"`
	PopularTags  []domain.TagCount  `json:"popular_tags"`
}

// Overview lists recently updated profiles, the org tree and popular tags.
func (s *DirectoryService) Overview(ctx context.Context) (*Overview, error) {
	return cache.GetOrLoad(ctx, s.cache, s.logger, overviewKey, s.opts.CacheTTL, []string{cache.GroupTags},
		s.loadOverview)
}

func (s *DirectoryService) loadOverview(ctx context.Context) (*Overview, error) {
	people, err := s.store.ListPeople(ctx, store.PeopleQuery{
		VisibleOnly: true,
		RecentFirst: true,
		Limit:       s.opts.RecentProfileLimit,
	})
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list recent people")
	}

	groups, err := s.store.ListOrgGroups(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list org groups")
	}

	popular, err := s.store.PopularTags(ctx, s.opts.PopularTagMinCount)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list popular tags")
	}

	ov := &Overview{
		RecentPeople: people,
		Divisions:    []*domain.OrgGroup{},
		Offices:      []*domain.OrgGroup{},
		PopularTags:  popular,
	}
	for _, g := range groups {
		if g.IsDivision() {
			ov.Divisions = append(ov.Divisions, g)
		} else {
			ov.Offices = append(ov.Offices, g)
		}
	}
	return ov, nil
}

// ProfileView is a profile page as seen by one viewer.
type ProfileView struct {
	Person         *domain.Person   `json:"person"`
	AvatarColor    string           `json:"avatar_color"`
	IsOwner        bool             `json:"is_owner"`
	TaggingAllowed bool             `json:"tagging_allowed"`
	Categories     []CategoryTags   `json:"categories"`
	RecentThanks   []*domain.Praise `json:"recent_thanks"`
	DraftThanks    string           `json:"draft_thanks,omitempty"`
}

// profileData is the cached, viewer-independent part of a profile page.
type profileData struct {
	Person     *domain.Person   `json:"person"`
	Categories []CategoryTags   `json:"categories"`
	Thanks     []*domain.Praise `json:"thanks"`
}

// ViewProfile returns the profile at stub. Hidden profiles and inactive
// accounts are not found. draftThanks is echoed back for the thanks form.
func (s *DirectoryService) ViewProfile(ctx context.Context, viewerID, stub, draftThanks string) (*ProfileView, error) {
	data, err := cache.GetOrLoad(ctx, s.cache, s.logger, cache.PersonKey(stub), s.opts.CacheTTL, nil,
		func(ctx context.Context) (*profileData, error) {
			return s.loadProfile(ctx, stub)
		})
	if err != nil {
		return nil, err
	}

	p := data.Person
	view := &ProfileView{
		Person:         p,
		AvatarColor:    color.ForPerson(p.ID),
		IsOwner:        p.OwnedBy(viewerID),
		TaggingAllowed: p.TaggableBy(viewerID),
		Categories:     make([]CategoryTags, len(data.Categories)),
		RecentThanks:   data.Thanks,
		DraftThanks:    draftThanks,
	}
	for i, ct := range data.Categories {
		view.Categories[i] = CategoryTags{
			Category: ct.Category,
			Label:    ct.Label,
			Tags:     applyViewer(ct.Tags, p, viewerID),
		}
	}
	return view, nil
}

func (s *DirectoryService) loadProfile(ctx context.Context, stub string) (*profileData, error) {
	p, err := s.store.GetPersonByStub(ctx, stub)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound(msgPersonNotFound)
	}
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "load profile")
	}
	if !p.Visible() {
		return nil, domainerrors.NotFound(msgPersonNotFound)
	}

	data := &profileData{Person: p, Categories: make([]CategoryTags, 0, len(domain.AllCategories))}
	for _, c := range domain.AllCategories {
		tags, err := loadProfileTags(ctx, s.store, p.ID, c)
		if err != nil {
			return nil, err
		}
		data.Categories = append(data.Categories, CategoryTags{Category: c, Label: c.Label(), Tags: tags})
	}

	data.Thanks, err = s.store.ListPraiseForRecipient(ctx, p.ID, s.opts.RecentThanksLimit)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "load thanks")
	}
	return data, nil
}

// OrgGroupView is an org group page, optionally narrowed by tags.
type OrgGroupView struct {
	Group       *domain.OrgGroup  `json:"group"`
	Path        string            `json:"path,omitempty"`
	Selected    []SelectedTag     `json:"selected"`
	People      []*domain.Person  `json:"people"`
	RelatedTags []domain.TagCount `json:"related_tags"`
}

// ViewOrgGroup lists the visible members of the group titled title. A
// division includes the members of its child groups. tagPath narrows the
// members to those carrying every resolved tag.
func (s *DirectoryService) ViewOrgGroup(ctx context.Context, title, tagPath string) (*OrgGroupView, error) {
	group, groupIDs, err := s.resolveGroup(ctx, title)
	if err != nil {
		return nil, err
	}

	tags, err := resolvePath(ctx, s.store, tagPath)
	if err != nil {
		return nil, err
	}

	q := store.PeopleQuery{OrgGroupIDs: groupIDs, VisibleOnly: true}
	if len(tags) > 0 {
		if q.IDs, err = intersectTagged(ctx, s.store, tags); err != nil {
			return nil, err
		}
	}

	people, err := s.store.ListPeople(ctx, q)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list group members")
	}

	related, err := relatedTags(ctx, s.store, people, tags, s.opts.RelatedTagLimit)
	if err != nil {
		return nil, err
	}

	view := &OrgGroupView{Group: group, Selected: []SelectedTag{}, People: people, RelatedTags: related}
	if len(tags) > 0 {
		filter := newFilterResult(tags, people, related)
		view.Path = filter.Path
		view.Selected = filter.Selected
	}
	return view, nil
}

// GroupEmails returns the "; " joined emails of the group's active members,
// hidden profiles included.
func (s *DirectoryService) GroupEmails(ctx context.Context, title string) (string, error) {
	_, groupIDs, err := s.resolveGroup(ctx, title)
	if err != nil {
		return "", err
	}

	people, err := s.store.ListPeople(ctx, store.PeopleQuery{OrgGroupIDs: groupIDs, ActiveOnly: true})
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "list group members")
	}
	return joinEmails(people), nil
}

// resolveGroup loads the group and the IDs whose members belong to it.
func (s *DirectoryService) resolveGroup(ctx context.Context, title string) (*domain.OrgGroup, []string, error) {
	group, err := s.store.GetOrgGroupByTitle(ctx, title)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, domainerrors.NotFound(msgGroupNotFound)
	}
	if err != nil {
		return nil, nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "load org group")
	}

	ids := []string{group.ID}
	if group.IsDivision() {
		children, err := s.store.ListChildGroupIDs(ctx, group.ID)
		if err != nil {
			return nil, nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list child groups")
		}
		ids = append(ids, children...)
	}
	return group, ids, nil
}
