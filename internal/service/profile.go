package service

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/listenupapp/staff-directory/internal/domain"
	domainerrors "github.com/listenupapp/staff-directory/internal/errors"
	"github.com/listenupapp/staff-directory/internal/markdown"
	"github.com/listenupapp/staff-directory/internal/store"
)

// MaxTitleLength is the maximum number of characters allowed in a job title.
const MaxTitleLength = 120

// ProfileService lets owners edit their own profile.
type ProfileService struct {
	store   store.Store
	effects *profileEffects
	logger  *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(st store.Store, cache CacheInvalidator, indexer PeopleIndexer, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:   st,
		effects: newProfileEffects(st, cache, indexer, logger),
		logger:  logger,
	}
}

// UpdateProfileInput holds optional changes. Nil fields are left alone.
// Bio fields accept HTML, which is stored as Markdown.
type UpdateProfileInput struct {
	Title        *string
	HideProfile  *bool
	AllowTagging *bool

	OfficePhone    *string
	MobilePhone    *string
	OfficeLocation *string
	RoomNumber     *string

	AboutMe         *string
	WhatIDo         *string
	CurrentProjects *string
	StuffIveDone    *string
	ThingsImGoodAt  *string
}

// UpdateProfile applies in to the profile at stub. Only the owner may edit.
func (s *ProfileService) UpdateProfile(ctx context.Context, actorID, stub string, in UpdateProfileInput) (*domain.Person, error) {
	var profile *domain.Person

	err := RunGuards(ctx,
		RequireAuthenticated(actorID),
		requireProfile(s.store, stub, &profile),
		func(context.Context) error {
			if !profile.OwnedBy(actorID) {
				return domainerrors.Forbidden(msgEditForbidden)
			}
			return nil
		},
		func(context.Context) error {
			if in.Title != nil && utf8.RuneCountInString(strings.TrimSpace(*in.Title)) > MaxTitleLength {
				return domainerrors.Validationf("Title must be %d characters or fewer.", MaxTitleLength)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	setText(&profile.Title, in.Title)
	setFlag(&profile.HideProfile, in.HideProfile)
	setFlag(&profile.AllowTagging, in.AllowTagging)

	setText(&profile.Contact.OfficePhone, in.OfficePhone)
	setText(&profile.Contact.MobilePhone, in.MobilePhone)
	setText(&profile.Contact.OfficeLocation, in.OfficeLocation)
	setText(&profile.Contact.RoomNumber, in.RoomNumber)

	setMarkdown(&profile.Bio.AboutMe, in.AboutMe)
	setMarkdown(&profile.Bio.WhatIDo, in.WhatIDo)
	setMarkdown(&profile.Bio.CurrentProjects, in.CurrentProjects)
	setMarkdown(&profile.Bio.StuffIveDone, in.StuffIveDone)
	setMarkdown(&profile.Bio.ThingsImGoodAt, in.ThingsImGoodAt)

	profile.Touch()
	if err := s.store.UpdatePerson(ctx, profile); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "update profile")
	}

	s.effects.profileChanged(ctx, profile)

	s.logger.Info("profile updated", slog.String("stub", profile.Stub))
	return profile, nil
}

func setText(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setFlag(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setMarkdown(dst *string, v *string) {
	if v != nil {
		*dst = markdown.FromHTML(*v)
	}
}
