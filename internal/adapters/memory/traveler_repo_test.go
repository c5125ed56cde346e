package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/tourguide/internal/core/domain"
)

func TestTravelerRepo_AddGetList(t *testing.T) {
	ctx := context.Background()
	repo := NewTravelerRepo()

	jon := domain.NewTraveler(uuid.New(), "jon", "000", "jon@tourGuide.com")
	jon2 := domain.NewTraveler(uuid.New(), "jon2", "000", "jon2@tourGuide.com")
	require.NoError(t, repo.Add(ctx, jon2))
	require.NoError(t, repo.Add(ctx, jon))

	got, err := repo.GetByUserName(ctx, "jon")
	require.NoError(t, err)
	assert.Same(t, jon, got)

	got, err = repo.GetByID(ctx, jon2.ID)
	require.NoError(t, err)
	assert.Same(t, jon2, got)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "jon", all[0].UserName)
}

func TestTravelerRepo_AddKeepsExisting(t *testing.T) {
	ctx := context.Background()
	repo := NewTravelerRepo()
	first := domain.NewTraveler(uuid.New(), "jon", "000", "")
	require.NoError(t, repo.Add(ctx, first))
	require.NoError(t, repo.Add(ctx, domain.NewTraveler(uuid.New(), "jon", "111", "")))

	got, err := repo.GetByUserName(ctx, "jon")
	require.NoError(t, err)
	assert.Same(t, first, got)
	assert.Equal(t, 1, repo.Len())
}

func TestTravelerRepo_NotFound(t *testing.T) {
	repo := NewTravelerRepo()
	_, err := repo.GetByUserName(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrTravelerNotFound)
	_, err = repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrTravelerNotFound)
}

func TestSeedInternalTravelers(t *testing.T) {
	repo := NewTravelerRepo()
	require.NoError(t, SeedInternalTravelers(context.Background(), repo, 10))
	assert.Equal(t, 10, repo.Len())

	tr, err := repo.GetByUserName(context.Background(), "internalUser3")
	require.NoError(t, err)
	assert.Equal(t, "000", tr.Phone)
	assert.Equal(t, "internalUser3@tourGuide.com", tr.Email)

	history := tr.VisitedLocations()
	require.Len(t, history, historyDepth)
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].TimeVisited.Before(history[i-1].TimeVisited))
	}
	for _, vl := range history {
		assert.Equal(t, tr.ID, vl.UserID)
	}
}
