package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/tourguide/internal/core/domain"
	"github.com/samirrijal/tourguide/internal/core/usecases"
)

func TestProximityPolicy(t *testing.T) {
	p := usecases.NewProximityPolicy(0, 0)
	s := p.Snapshot()
	assert.Equal(t, usecases.DefaultRewardRadius, s.RewardRadius)
	assert.Equal(t, usecases.DefaultListingRadius, s.ListingRadius)

	p.SetRewardRadius(25)
	p.SetListingRadius(-1)
	assert.Equal(t, 25.0, p.Snapshot().RewardRadius)
	assert.Equal(t, usecases.DefaultListingRadius, p.Snapshot().ListingRadius)
	assert.Equal(t, usecases.DefaultRewardRadius, s.RewardRadius, "snapshots are immutable")

	p.ResetRewardRadius()
	assert.Equal(t, usecases.DefaultRewardRadius, p.Snapshot().RewardRadius)
}

func TestProximitySettings_WithinListing(t *testing.T) {
	s := usecases.ProximitySettings{RewardRadius: 10, ListingRadius: 200}
	a := attraction("A", 0, 0)
	assert.True(t, s.WithinListing(domain.GeoPoint{Lat: 1, Lon: 1}, a))
	assert.False(t, s.WithinReward(domain.GeoPoint{Lat: 1, Lon: 1}, a))
	assert.False(t, s.WithinListing(domain.GeoPoint{Lat: 10, Lon: 10}, a))
}

func TestCatalogService_ReadThrough(t *testing.T) {
	source := &mockCatalog{attractions: []domain.Attraction{attraction("A", 1, 2)}}
	cache := newMockCache()
	svc := usecases.NewCatalogService(source, cache, time.Minute)

	first, err := svc.ListAttractions(context.Background())
	require.NoError(t, err)
	second, err := svc.ListAttractions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, source.calls.Load())

	require.NoError(t, svc.Invalidate(context.Background()))
	_, err = svc.ListAttractions(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, source.calls.Load())
}

func TestCatalogService_CacheFailureFallsBack(t *testing.T) {
	source := &mockCatalog{attractions: []domain.Attraction{attraction("A", 1, 2)}}
	cache := newMockCache()
	cache.err = errors.New("valkey down")
	svc := usecases.NewCatalogService(source, cache, time.Minute)

	got, err := svc.ListAttractions(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCatalogService_NilCache(t *testing.T) {
	source := &mockCatalog{attractions: []domain.Attraction{attraction("A", 1, 2)}}
	svc := usecases.NewCatalogService(source, nil, 0)

	got, err := svc.ListAttractions(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NoError(t, svc.Invalidate(context.Background()))
}

func TestRateLimitedScorer(t *testing.T) {
	inner := &mockScorer{}
	assert.Same(t, inner, usecases.NewRateLimitedScorer(inner, 0, 0), "zero rate disables limiting")

	limited := usecases.NewRateLimitedScorer(inner, 1, 1)
	points, err := limited.AttractionRewardPoints(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 100, points)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = limited.AttractionRewardPoints(ctx, uuid.New(), uuid.New())
	require.Error(t, err)
	assert.EqualValues(t, 1, inner.calls.Load())
}

func TestTracker_RunOnce(t *testing.T) {
	disney := attraction("Disneyland", 33.817595, -117.922008)
	f := newTourGuide(t, []domain.Attraction{disney}, fixedGPS(disney.Location), nil)
	for _, name := range []string{"a", "b"} {
		require.NoError(t, f.svc.AddTraveler(context.Background(), travelerAt(name)))
	}

	tracker := usecases.NewTracker(f.svc, time.Hour, 4)
	res, err := tracker.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Granted)
	assert.EqualValues(t, 2, f.gps.calls.Load())
	all, _ := f.repo.List(context.Background())
	for _, tr := range all {
		assert.Len(t, tr.VisitedLocations(), 1)
		assert.True(t, tr.Rewards().Contains(disney.ID))
	}
}

func TestTracker_StartStop(t *testing.T) {
	f := newTourGuide(t, nil, fixedGPS(domain.GeoPoint{}), nil)
	require.NoError(t, f.svc.AddTraveler(context.Background(), travelerAt("a")))

	tracker := usecases.NewTracker(f.svc, 10*time.Millisecond, 1)
	tracker.Start(context.Background())
	tracker.Start(context.Background())

	require.Eventually(t, func() bool { return f.gps.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	tracker.Stop()

	n := f.gps.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, f.gps.calls.Load(), "no cycles after Stop")
	tracker.Stop()
}
