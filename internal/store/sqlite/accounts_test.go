package sqlite

import (
	"context"
	"testing"

	"github.com/listenupapp/staff-directory/internal/domain"
	"github.com/listenupapp/staff-directory/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccounts_EmailIsCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateAccount(ctx, &domain.Account{ID: "acct-1", Email: "Test1@Example.com", FirstName: "Test", LastName: "One", IsActive: true}))

	got, err := s.GetAccountByEmail(ctx, "test1@example.com")
	require.NoError(t, err)
	assert.Equal(t, "acct-1", got.ID)

	err = s.CreateAccount(ctx, &domain.Account{ID: "acct-2", Email: "TEST1@example.COM"})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestAccounts_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetAccount(ctx, "acct-missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.DeleteAccount(ctx, "acct-missing"), store.ErrNotFound)
}

func TestDeleteAccount_KeepsTagsButDropsCreator(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := createPerson(t, s, "ada", "lovelace")
	tagger := createPerson(t, s, "charles", "babbage")
	tag := tagPerson(t, s, owner, "Engines", domain.CategoryExpertise, tagger.AccountID)

	require.NoError(t, s.DeleteAccount(ctx, tagger.AccountID))

	item, err := s.GetTaggedItem(ctx, owner.ID, tag.ID, domain.CategoryExpertise)
	require.NoError(t, err)
	assert.Empty(t, item.CreatorID)

	_, err = s.GetPersonByStub(ctx, tagger.Stub)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
