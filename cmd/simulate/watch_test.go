package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/tourguide/internal/core/domain"
)

// --- Mock subscriber ---

type mockSubscriber struct {
	rewardFn   func(ctx context.Context, userID uuid.UUID, r domain.Reward) error
	locationFn func(ctx context.Context, vl domain.VisitedLocation) error
}

func (m *mockSubscriber) SubscribeRewardGranted(ctx context.Context, handler func(ctx context.Context, userID uuid.UUID, r domain.Reward) error) error {
	m.rewardFn = handler
	return nil
}

func (m *mockSubscriber) SubscribeLocationTracked(ctx context.Context, handler func(ctx context.Context, vl domain.VisitedLocation) error) error {
	m.locationFn = handler
	return nil
}

func TestPrintEvents_RewardsOnly(t *testing.T) {
	var buf bytes.Buffer
	sub := &mockSubscriber{}
	require.NoError(t, printEvents(context.Background(), sub, &buf, false))

	require.NotNil(t, sub.rewardFn)
	assert.Nil(t, sub.locationFn)

	user := uuid.New()
	require.NoError(t, sub.rewardFn(context.Background(), user, domain.Reward{
		Attraction: domain.Attraction{Name: "Disneyland"},
		Points:     250,
	}))
	assert.Equal(t, "reward   user="+user.String()+` attraction="Disneyland" points=250`+"\n", buf.String())
}

func TestPrintEvents_WithLocations(t *testing.T) {
	var buf bytes.Buffer
	sub := &mockSubscriber{}
	require.NoError(t, printEvents(context.Background(), sub, &buf, true))
	require.NotNil(t, sub.locationFn)

	user := uuid.New()
	require.NoError(t, sub.locationFn(context.Background(), domain.VisitedLocation{
		UserID:   user,
		Location: domain.GeoPoint{Lat: 1.5, Lon: -2.25},
	}))
	assert.Contains(t, buf.String(), "lat=1.50000 lon=-2.25000")
}
