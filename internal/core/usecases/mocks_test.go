package usecases_test

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/tourguide/internal/core/domain"
)

// --- Mock AttractionCatalog ---

type mockCatalog struct {
	attractions []domain.Attraction
	listFn      func(ctx context.Context) ([]domain.Attraction, error)
	calls       atomic.Int32
}

func (m *mockCatalog) ListAttractions(ctx context.Context) ([]domain.Attraction, error) {
	m.calls.Add(1)
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return m.attractions, nil
}

// --- Mock RewardScorer ---

type mockScorer struct {
	pointsFn func(ctx context.Context, attractionID, userID uuid.UUID) (int, error)
	calls    atomic.Int32
}

func (m *mockScorer) AttractionRewardPoints(ctx context.Context, attractionID, userID uuid.UUID) (int, error) {
	m.calls.Add(1)
	if m.pointsFn != nil {
		return m.pointsFn(ctx, attractionID, userID)
	}
	return 100, nil
}

// --- Mock TravelerRepository ---

type mockTravelerRepo struct {
	mu        sync.Mutex
	travelers []*domain.Traveler
}

func (m *mockTravelerRepo) Add(ctx context.Context, t *domain.Traveler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.travelers = append(m.travelers, t)
	return nil
}

func (m *mockTravelerRepo) GetByUserName(ctx context.Context, userName string) (*domain.Traveler, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.travelers {
		if t.UserName == userName {
			return t, nil
		}
	}
	return nil, domain.ErrTravelerNotFound
}

func (m *mockTravelerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Traveler, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.travelers {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domain.ErrTravelerNotFound
}

func (m *mockTravelerRepo) List(ctx context.Context) ([]*domain.Traveler, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Traveler(nil), m.travelers...), nil
}

// --- Mock LocationProvider ---

type mockGPS struct {
	locationFn func(ctx context.Context, userID uuid.UUID) (domain.VisitedLocation, error)
	calls      atomic.Int32
}

func (m *mockGPS) GetUserLocation(ctx context.Context, userID uuid.UUID) (domain.VisitedLocation, error) {
	m.calls.Add(1)
	return m.locationFn(ctx, userID)
}

// --- Mock TripPricer ---

type mockPricer struct {
	priceFn func(ctx context.Context, apiKey string, userID uuid.UUID, prefs domain.Preferences, points int) ([]domain.TripDeal, error)
}

func (m *mockPricer) GetPrice(ctx context.Context, apiKey string, userID uuid.UUID, prefs domain.Preferences, points int) ([]domain.TripDeal, error) {
	return m.priceFn(ctx, apiKey, userID, prefs, points)
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu        sync.Mutex
	rewards   []domain.Reward
	locations []domain.VisitedLocation
	err       error
}

func (m *mockPublisher) PublishRewardGranted(ctx context.Context, userID uuid.UUID, r domain.Reward) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rewards = append(m.rewards, r)
	return m.err
}

func (m *mockPublisher) PublishLocationTracked(ctx context.Context, vl domain.VisitedLocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations = append(m.locations, vl)
	return m.err
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func newMockCache() *mockCache { return &mockCache{data: make(map[string][]byte)} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.data[key]
	if !ok {
		return nil, context.DeadlineExceeded
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- helpers ---

func attraction(name string, lat, lon float64) domain.Attraction {
	return domain.Attraction{ID: uuid.New(), Name: name, City: "Anaheim", State: "CA", Location: domain.GeoPoint{Lat: lat, Lon: lon}}
}

func travelerAt(name string, points ...domain.GeoPoint) *domain.Traveler {
	t := domain.NewTraveler(uuid.New(), name, "000", name+"@tourGuide.com")
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, p := range points {
		t.AddVisitedLocation(domain.VisitedLocation{UserID: t.ID, Location: p, TimeVisited: base.Add(time.Duration(i) * time.Minute)})
	}
	return t
}

func nanValue() float64 { return math.NaN() }
