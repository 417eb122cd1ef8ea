package service

import (
	"context"
	"testing"

	"github.com/listenupapp/staff-directory/internal/domain"
	domainerrors "github.com/listenupapp/staff-directory/internal/errors"
	"github.com/listenupapp/staff-directory/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	eng := f.group(t, "Engineering", "")
	f.group(t, "Platform", eng.ID)
	f.group(t, "Research", "")

	ada := f.person(t, "ada", "lovelace")
	alan := f.person(t, "alan", "turing")
	f.person(t, "linus", "torvalds", hidden)

	f.tag(t, ada.AccountID, ada, domain.CategoryExpertise, "Math")
	f.tag(t, alan.AccountID, alan, domain.CategoryExpertise, "Math")
	f.tag(t, alan.AccountID, alan, domain.CategoryExpertise, "Crypto")

	ov, err := f.directory.Overview(ctx)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"ada-lovelace", "alan-turing"}, stubsOf(ov.RecentPeople))
	require.Len(t, ov.Divisions, 2)
	assert.Equal(t, "Engineering", ov.Divisions[0].Title)
	require.Len(t, ov.Offices, 1)
	assert.Equal(t, "Platform", ov.Offices[0].Title)
	assert.Equal(t, "Engineering", ov.Offices[0].ParentTitle)

	require.Len(t, ov.PopularTags, 1)
	assert.Equal(t, "math", ov.PopularTags[0].Slug)
	assert.Equal(t, 2, ov.PopularTags[0].Count)
}

func TestViewProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := f.person(t, "ada", "lovelace", noTagging)
	alan := f.person(t, "alan", "turing")

	f.tag(t, ada.AccountID, ada, domain.CategoryProjects, "Engines")
	_, err := f.praise.SubmitPraise(ctx, alan.AccountID, SubmitPraiseInput{Stub: ada.Stub, Value: "innovate", Reason: "Notes"})
	require.NoError(t, err)

	view, err := f.directory.ViewProfile(ctx, alan.AccountID, ada.Stub, "Thanks for the notes")
	require.NoError(t, err)

	assert.Equal(t, ada.ID, view.Person.ID)
	assert.False(t, view.IsOwner)
	assert.False(t, view.TaggingAllowed)
	assert.Equal(t, "Thanks for the notes", view.DraftThanks)
	require.Len(t, view.RecentThanks, 1)
	assert.Equal(t, domain.ValueInnovate, view.RecentThanks[0].Value)

	require.Len(t, view.Categories, 3)
	assert.Equal(t, domain.CategoryExpertise, view.Categories[0].Category)
	assert.Equal(t, "Projects", view.Categories[1].Label)
	require.Len(t, view.Categories[1].Tags, 1)
	assert.False(t, view.Categories[1].Tags[0].CanRemove)

	own, err := f.directory.ViewProfile(ctx, ada.AccountID, ada.Stub, "")
	require.NoError(t, err)
	assert.True(t, own.IsOwner)
	assert.True(t, own.TaggingAllowed)
	assert.True(t, own.Categories[1].Tags[0].CanRemove)
}

func TestViewProfile_CachedPerViewer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := f.person(t, "ada", "lovelace")
	alan := f.person(t, "alan", "turing")
	f.tag(t, alan.AccountID, ada, domain.CategoryExpertise, "Math")

	cached := NewDirectoryService(f.store, f.cache, DefaultDirectoryOptions(), logger.Discard())

	asAlan, err := cached.ViewProfile(ctx, alan.AccountID, ada.Stub, "")
	require.NoError(t, err)
	asStranger, err := cached.ViewProfile(ctx, "", ada.Stub, "")
	require.NoError(t, err)

	assert.True(t, asAlan.Categories[0].Tags[0].CanRemove)
	assert.False(t, asStranger.Categories[0].Tags[0].CanRemove)
}

func TestViewProfile_NotFound(t *testing.T) {
	f := newFixture(t)
	hiddenPerson := f.person(t, "linus", "torvalds", hidden)
	inactive := f.inactivePerson(t, "ken", "thompson")

	for _, stub := range []string{"nobody", hiddenPerson.Stub, inactive.Stub} {
		_, err := f.directory.ViewProfile(context.Background(), "", stub, "")
		assertDomainError(t, err, domainerrors.CodeNotFound, "Person not found.")
	}
}

func TestViewOrgGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	eng := f.group(t, "Engineering", "")
	platform := f.group(t, "Platform", eng.ID)
	research := f.group(t, "Research", "")

	ada := f.person(t, "ada", "lovelace", inGroup(eng))
	alan := f.person(t, "alan", "turing", inGroup(platform))
	f.person(t, "grace", "hopper", inGroup(research))
	f.person(t, "linus", "torvalds", inGroup(platform), hidden)

	f.tag(t, ada.AccountID, ada, domain.CategoryExpertise, "Go")
	f.tag(t, alan.AccountID, alan, domain.CategoryExpertise, "Go")
	f.tag(t, alan.AccountID, alan, domain.CategoryExpertise, "Math")

	division, err := f.directory.ViewOrgGroup(ctx, "Engineering", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"ada-lovelace", "alan-turing"}, stubsOf(division.People))
	assert.Empty(t, division.Selected)

	office, err := f.directory.ViewOrgGroup(ctx, "Platform", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"alan-turing"}, stubsOf(office.People))

	filtered, err := f.directory.ViewOrgGroup(ctx, "Engineering", "math")
	require.NoError(t, err)
	assert.Equal(t, []string{"alan-turing"}, stubsOf(filtered.People))
	assert.Equal(t, "math", filtered.Path)
	require.Len(t, filtered.RelatedTags, 1)
	assert.Equal(t, "go", filtered.RelatedTags[0].Slug)

	_, err = f.directory.ViewOrgGroup(ctx, "Marketing", "")
	assertDomainError(t, err, domainerrors.CodeNotFound, "Group not found.")
}

func TestGroupEmails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	eng := f.group(t, "Engineering", "")
	f.group(t, "Empty", "")
	f.person(t, "alan", "turing", inGroup(eng))
	f.person(t, "linus", "torvalds", inGroup(eng), hidden)
	f.inactivePerson(t, "ken", "thompson", inGroup(eng))

	got, err := f.directory.GroupEmails(ctx, "Engineering")
	require.NoError(t, err)
	assert.Equal(t, "linus.torvalds@example.com; alan.turing@example.com", got)

	got, err = f.directory.GroupEmails(ctx, "Empty")
	require.NoError(t, err)
	assert.Equal(t, msgNoActiveUsers, got)
}
