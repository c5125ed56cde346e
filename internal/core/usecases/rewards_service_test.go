package usecases_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/tourguide/internal/core/domain"
	"github.com/samirrijal/tourguide/internal/core/usecases"
)

func newRewards(catalog *mockCatalog, scorer *mockScorer, opts ...usecases.RewardsOption) *usecases.RewardsService {
	return usecases.NewRewardsService(catalog, scorer, usecases.NewProximityPolicy(0, 0), opts...)
}

func TestRewardsService_FarAttractionNotRewarded(t *testing.T) {
	origin := attraction("Origin", 0, 0)
	catalog := &mockCatalog{attractions: []domain.Attraction{origin}}
	scorer := &mockScorer{}
	svc := newRewards(catalog, scorer)

	tr := travelerAt("far", domain.GeoPoint{Lat: 10, Lon: 10})
	granted, err := svc.CalculateRewards(context.Background(), tr)

	require.NoError(t, err)
	assert.Equal(t, 0, granted)
	assert.Equal(t, 0, tr.Rewards().Len())
	assert.EqualValues(t, 0, scorer.calls.Load(), "scorer must not be called for pairs outside the radius")
}

func TestRewardsService_WidenedRadiusRewardsFarAttraction(t *testing.T) {
	origin := attraction("Origin", 0, 0)
	catalog := &mockCatalog{attractions: []domain.Attraction{origin}}
	scorer := &mockScorer{}
	svc := newRewards(catalog, scorer)
	svc.Policy().SetRewardRadius(1000)

	tr := travelerAt("far", domain.GeoPoint{Lat: 10, Lon: 10})
	granted, err := svc.CalculateRewards(context.Background(), tr)

	require.NoError(t, err)
	assert.Equal(t, 1, granted)
	rewards := tr.Rewards().List()
	require.Len(t, rewards, 1)
	assert.Equal(t, origin.ID, rewards[0].Attraction.ID)
	assert.Equal(t, 100, rewards[0].Points)
}

func TestRewardsService_Idempotent(t *testing.T) {
	a := attraction("Disneyland", 33.817595, -117.922008)
	b := attraction("Jackson Hole", 43.582767, -110.821999)
	catalog := &mockCatalog{attractions: []domain.Attraction{a, b}}
	scorer := &mockScorer{}
	svc := newRewards(catalog, scorer)

	tr := travelerAt("jon", a.Location, b.Location)

	granted, err := svc.CalculateRewards(context.Background(), tr)
	require.NoError(t, err)
	assert.Equal(t, 2, granted)
	first := tr.Rewards().List()

	granted, err = svc.CalculateRewards(context.Background(), tr)
	require.NoError(t, err)
	assert.Equal(t, 0, granted)
	assert.Equal(t, first, tr.Rewards().List())
	assert.EqualValues(t, 2, scorer.calls.Load(), "already rewarded attractions must not be scored again")
}

func TestRewardsService_OneRewardPerAttractionFirstLocationWins(t *testing.T) {
	a := attraction("Disneyland", 33.817595, -117.922008)
	catalog := &mockCatalog{attractions: []domain.Attraction{a}}
	scorer := &mockScorer{}
	svc := newRewards(catalog, scorer)

	near := []domain.GeoPoint{
		{Lat: 33.8176, Lon: -117.9220},
		{Lat: 33.8170, Lon: -117.9210},
		{Lat: 33.8180, Lon: -117.9230},
	}
	tr := travelerAt("jon", near...)

	granted, err := svc.CalculateRewards(context.Background(), tr)
	require.NoError(t, err)
	assert.Equal(t, 1, granted)
	assert.EqualValues(t, 1, scorer.calls.Load())

	rewards := tr.Rewards().List()
	require.Len(t, rewards, 1)
	assert.Equal(t, near[0], rewards[0].VisitedLocation.Location)
}

func TestRewardsService_BoundaryIsInclusive(t *testing.T) {
	a := attraction("Edge", 0, 0)
	loc := domain.GeoPoint{Lat: 0.1, Lon: 0.1}
	catalog := &mockCatalog{attractions: []domain.Attraction{a}}
	svc := newRewards(catalog, &mockScorer{})
	svc.Policy().SetRewardRadius(usecases.Distance(loc, a.Location))

	tr := travelerAt("edge", loc)
	granted, err := svc.CalculateRewards(context.Background(), tr)

	require.NoError(t, err)
	assert.Equal(t, 1, granted)
}

func TestRewardsService_JustOutsideRadiusNotRewarded(t *testing.T) {
	a := attraction("Edge", 0, 0)
	loc := domain.GeoPoint{Lat: 0.1, Lon: 0.1}
	scorer := &mockScorer{}
	svc := newRewards(&mockCatalog{attractions: []domain.Attraction{a}}, scorer)
	svc.Policy().SetRewardRadius(math.Nextafter(usecases.Distance(loc, a.Location), 0))

	tr := travelerAt("edge", loc)
	granted, err := svc.CalculateRewards(context.Background(), tr)

	require.NoError(t, err)
	assert.Equal(t, 0, granted)
	assert.Equal(t, 0, tr.Rewards().Len())
	assert.EqualValues(t, 0, scorer.calls.Load())
}

func TestRewardsService_OriginTravelerRewardedForOriginOnly(t *testing.T) {
	origin := attraction("Origin", 0, 0)
	far := attraction("Far", 10, 10)
	scorer := &mockScorer{pointsFn: func(ctx context.Context, attractionID, userID uuid.UUID) (int, error) {
		return 321, nil
	}}
	svc := usecases.NewRewardsService(&mockCatalog{attractions: []domain.Attraction{origin, far}}, scorer,
		usecases.NewProximityPolicy(10, 0))

	tr := travelerAt("origin", domain.GeoPoint{Lat: 0, Lon: 0})
	granted, err := svc.CalculateRewards(context.Background(), tr)

	require.NoError(t, err)
	assert.Equal(t, 1, granted)
	rewards := tr.Rewards().List()
	require.Len(t, rewards, 1)
	assert.Equal(t, origin.ID, rewards[0].Attraction.ID)
	assert.Equal(t, 321, rewards[0].Points)
	assert.False(t, tr.Rewards().Contains(far.ID))
	assert.EqualValues(t, 1, scorer.calls.Load())
}

func TestRewardsService_NilTraveler(t *testing.T) {
	svc := newRewards(&mockCatalog{}, &mockScorer{})
	_, err := svc.CalculateRewards(context.Background(), nil)
	require.Error(t, err)
}

func TestRewardsService_EmptyHistoryOrCatalog(t *testing.T) {
	a := attraction("Disneyland", 33.817595, -117.922008)
	scorer := &mockScorer{}

	granted, err := newRewards(&mockCatalog{attractions: []domain.Attraction{a}}, scorer).
		CalculateRewards(context.Background(), travelerAt("empty"))
	require.NoError(t, err)
	assert.Equal(t, 0, granted)

	granted, err = newRewards(&mockCatalog{}, scorer).
		CalculateRewards(context.Background(), travelerAt("nocatalog", a.Location))
	require.NoError(t, err)
	assert.Equal(t, 0, granted)
	assert.EqualValues(t, 0, scorer.calls.Load())
}

func TestRewardsService_NaNLocationNeverQualifies(t *testing.T) {
	a := attraction("Disneyland", 33.817595, -117.922008)
	scorer := &mockScorer{}
	svc := newRewards(&mockCatalog{attractions: []domain.Attraction{a}}, scorer)
	svc.Policy().SetRewardRadius(1e9)

	nan := domain.GeoPoint{Lat: nanValue(), Lon: 0}
	granted, err := svc.CalculateRewards(context.Background(), travelerAt("nan", nan))

	require.NoError(t, err)
	assert.Equal(t, 0, granted)
	assert.EqualValues(t, 0, scorer.calls.Load())
}

func TestRewardsService_ProviderFailureSkipsOnlyThatAttraction(t *testing.T) {
	a := attraction("A", 10, 10)
	b := attraction("B", 20, 20)
	broken := true
	scorer := &mockScorer{
		pointsFn: func(ctx context.Context, attractionID, userID uuid.UUID) (int, error) {
			if attractionID == a.ID && broken {
				return 0, errors.New("connection refused")
			}
			return 42, nil
		},
	}
	svc := newRewards(&mockCatalog{attractions: []domain.Attraction{a, b}}, scorer)
	tr := travelerAt("jon", a.Location, b.Location)

	granted, err := svc.CalculateRewards(context.Background(), tr)
	require.ErrorIs(t, err, usecases.ErrProviderUnavailable)
	assert.Equal(t, 1, granted)
	assert.False(t, tr.Rewards().Contains(a.ID))
	assert.True(t, tr.Rewards().Contains(b.ID))

	broken = false
	granted, err = svc.CalculateRewards(context.Background(), tr)
	require.NoError(t, err)
	assert.Equal(t, 1, granted)
	assert.True(t, tr.Rewards().Contains(a.ID))
}

func TestRewardsService_ScoreTimeout(t *testing.T) {
	a := attraction("Slow", 0, 0)
	scorer := &mockScorer{
		pointsFn: func(ctx context.Context, attractionID, userID uuid.UUID) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		},
	}
	svc := newRewards(&mockCatalog{attractions: []domain.Attraction{a}}, scorer,
		usecases.WithScoreTimeout(20*time.Millisecond))

	tr := travelerAt("jon", a.Location)
	_, err := svc.CalculateRewards(context.Background(), tr)

	require.ErrorIs(t, err, usecases.ErrProviderUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, tr.Rewards().Len())
}

func TestRewardsService_CatalogError(t *testing.T) {
	catalog := &mockCatalog{listFn: func(ctx context.Context) ([]domain.Attraction, error) {
		return nil, errors.New("db down")
	}}
	svc := newRewards(catalog, &mockScorer{})

	_, err := svc.CalculateRewards(context.Background(), travelerAt("jon", domain.GeoPoint{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestRewardsService_ConcurrentCallsSameTraveler(t *testing.T) {
	var attractions []domain.Attraction
	var locs []domain.GeoPoint
	for i := 0; i < 10; i++ {
		a := attraction("A", float64(i), float64(i))
		attractions = append(attractions, a)
		locs = append(locs, a.Location)
	}
	scorer := &mockScorer{
		pointsFn: func(ctx context.Context, attractionID, userID uuid.UUID) (int, error) {
			time.Sleep(time.Millisecond)
			return 10, nil
		},
	}
	svc := newRewards(&mockCatalog{attractions: attractions}, scorer)
	tr := travelerAt("jon", locs...)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.CalculateRewards(context.Background(), tr)
		}()
	}
	wg.Wait()

	assert.Equal(t, len(attractions), tr.Rewards().Len())
	assert.EqualValues(t, len(attractions), scorer.calls.Load())
	assert.Equal(t, 100, tr.Rewards().TotalPoints())
}

func TestRewardsService_PublishesGrantedRewards(t *testing.T) {
	a := attraction("A", 1, 1)
	pub := &mockPublisher{err: errors.New("broker down")}
	svc := newRewards(&mockCatalog{attractions: []domain.Attraction{a}}, &mockScorer{}, usecases.WithPublisher(pub))

	granted, err := svc.CalculateRewards(context.Background(), travelerAt("jon", a.Location))

	require.NoError(t, err, "publish failures must not fail the calculation")
	assert.Equal(t, 1, granted)
	require.Len(t, pub.rewards, 1)
	assert.Equal(t, a.ID, pub.rewards[0].Attraction.ID)
}
