package service

import (
	"context"
	"testing"

	"github.com/listenupapp/staff-directory/internal/cache"
	domainerrors "github.com/listenupapp/staff-directory/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := f.person(t, "ada", "lovelace")

	updated, err := f.profiles.UpdateProfile(ctx, ada.AccountID, ada.Stub, UpdateProfileInput{
		Title:        ptr("  Analyst "),
		AllowTagging: ptr(false),
		AboutMe:      ptr("<p>I write <strong>programs</strong></p>"),
		WhatIDo:      ptr("Plain text"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Analyst", updated.Title)
	assert.False(t, updated.AllowTagging)
	assert.Equal(t, "I write **programs**", updated.Bio.AboutMe)
	assert.Equal(t, "Plain text", updated.Bio.WhatIDo)

	stored, err := f.store.GetPersonByStub(ctx, ada.Stub)
	require.NoError(t, err)
	assert.Equal(t, "Analyst", stored.Title)
	assert.Equal(t, "I write **programs**", stored.Bio.AboutMe)

	assert.Contains(t, f.invalid.deleted, cache.PersonKey(ada.Stub))
	assert.Contains(t, f.indexer.indexed, ada.ID)
}

func TestUpdateProfile_HidingDropsFromIndex(t *testing.T) {
	f := newFixture(t)
	ada := f.person(t, "ada", "lovelace")

	_, err := f.profiles.UpdateProfile(context.Background(), ada.AccountID, ada.Stub, UpdateProfileInput{
		HideProfile: ptr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{ada.ID}, f.indexer.deleted)
}

func TestUpdateProfile_Guards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := f.person(t, "ada", "lovelace")
	alan := f.person(t, "alan", "turing")

	_, err := f.profiles.UpdateProfile(ctx, alan.AccountID, ada.Stub, UpdateProfileInput{Title: ptr("x")})
	assertDomainError(t, err, domainerrors.CodeForbidden, msgEditForbidden)

	_, err = f.profiles.UpdateProfile(ctx, "", ada.Stub, UpdateProfileInput{})
	assertDomainError(t, err, domainerrors.CodeUnauthorized, "")

	long := make([]rune, MaxTitleLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = f.profiles.UpdateProfile(ctx, ada.AccountID, ada.Stub, UpdateProfileInput{Title: ptr(string(long))})
	assertDomainError(t, err, domainerrors.CodeValidation, "")

	assert.Zero(t, f.invalid.calls())
}
