package trippricer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/tourguide/internal/core/domain"
)

func TestPricer_GetPrice(t *testing.T) {
	deals, err := New().GetPrice(context.Background(), "key", uuid.New(), domain.DefaultPreferences(), 0)
	require.NoError(t, err)
	require.Len(t, deals, DealCount)

	names := map[string]bool{}
	for _, d := range deals {
		assert.False(t, names[d.Provider], "duplicate provider %s", d.Provider)
		names[d.Provider] = true
		assert.True(t, d.Price.GreaterThanOrEqual(decimal.NewFromInt(100)), "price %s", d.Price)
		assert.True(t, d.Price.LessThan(decimal.NewFromInt(1000)), "price %s", d.Price)
		assert.NotEqual(t, uuid.Nil, d.TripID)
	}
}

func TestPricer_RewardPointsDiscount(t *testing.T) {
	deals, err := New().GetPrice(context.Background(), "key", uuid.New(), domain.DefaultPreferences(), 1_000_000)
	require.NoError(t, err)
	for _, d := range deals {
		assert.True(t, d.Price.IsZero())
	}
}

func TestPricer_RequiresAPIKey(t *testing.T) {
	_, err := New().GetPrice(context.Background(), "", uuid.New(), domain.DefaultPreferences(), 0)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
