package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/samirrijal/tourguide/internal/core/domain"
)

// TravelerRepository stores registered travelers.
type TravelerRepository interface {
	Add(ctx context.Context, t *domain.Traveler) error
	GetByUserName(ctx context.Context, userName string) (*domain.Traveler, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Traveler, error)
	List(ctx context.Context) ([]*domain.Traveler, error)
}

// AttractionCatalog lists the known attractions.
type AttractionCatalog interface {
	// ListAttractions returns every attraction. Order is not significant.
	ListAttractions(ctx context.Context) ([]domain.Attraction, error)
}
