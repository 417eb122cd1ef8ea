package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/staff-directory/internal/domain"
	"github.com/listenupapp/staff-directory/internal/id"
)

func TestGetDirectoryCheckpoint_Empty(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetDirectoryCheckpoint(context.Background())

	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestGetDirectoryCheckpoint_LatestChangeWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	profileTime := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	ada := createPerson(t, s, "ada", "lovelace", func(p *domain.Person) { p.UpdatedAt = profileTime })
	alan := createPerson(t, s, "alan", "turing", func(p *domain.Person) { p.UpdatedAt = profileTime })

	got, err := s.GetDirectoryCheckpoint(ctx)
	require.NoError(t, err)
	assert.True(t, profileTime.Equal(got), "got %v", got)

	thanksTime := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	require.NoError(t, s.CreatePraise(ctx, &domain.Praise{
		ID:          id.MustGenerate(id.PrefixPraise),
		RecipientID: ada.ID,
		NominatorID: alan.AccountID,
		Value:       domain.ValueLead,
		Reason:      "Ran the offsite.",
		CreatedAt:   thanksTime,
	}))

	got, err = s.GetDirectoryCheckpoint(ctx)
	require.NoError(t, err)
	assert.True(t, thanksTime.Equal(got), "got %v", got)
}
