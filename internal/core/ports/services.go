package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/samirrijal/tourguide/internal/core/domain"
)

// RewardScorer returns the points an attraction is worth for a traveler.
// Implementations may be slow and may fail.
type RewardScorer interface {
	AttractionRewardPoints(ctx context.Context, attractionID, userID uuid.UUID) (int, error)
}

// LocationProvider reports a traveler's current position.
type LocationProvider interface {
	GetUserLocation(ctx context.Context, userID uuid.UUID) (domain.VisitedLocation, error)
}

// TripPricer quotes trip deals for a traveler.
type TripPricer interface {
	GetPrice(ctx context.Context, apiKey string, userID uuid.UUID, prefs domain.Preferences, rewardPoints int) ([]domain.TripDeal, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishRewardGranted(ctx context.Context, userID uuid.UUID, r domain.Reward) error
	PublishLocationTracked(ctx context.Context, vl domain.VisitedLocation) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeRewardGranted(ctx context.Context, handler func(ctx context.Context, userID uuid.UUID, r domain.Reward) error) error
	SubscribeLocationTracked(ctx context.Context, handler func(ctx context.Context, vl domain.VisitedLocation) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
