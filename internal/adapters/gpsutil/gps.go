// Package gpsutil simulates the GPS provider and ships the static
// attraction catalog.
package gpsutil

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/tourguide/internal/core/domain"
)

// Web Mercator latitude bounds.
const maxLatitude = 85.05112878

// Provider returns random positions after an optional simulated latency.
// It implements both ports.LocationProvider and ports.AttractionCatalog.
type Provider struct {
	latency time.Duration
	now     func() time.Time
}

// New creates a Provider. latency is the maximum simulated lookup delay.
func New(latency time.Duration) *Provider {
	return &Provider{latency: latency, now: time.Now}
}

// GetUserLocation returns a random location for userID stamped with the
// current time.
func (p *Provider) GetUserLocation(ctx context.Context, userID uuid.UUID) (domain.VisitedLocation, error) {
	if err := p.wait(ctx); err != nil {
		return domain.VisitedLocation{}, err
	}
	return domain.VisitedLocation{
		UserID:      userID,
		Location:    RandomPoint(),
		TimeVisited: p.now().UTC(),
	}, nil
}

// ListAttractions returns the static catalog.
func (p *Provider) ListAttractions(ctx context.Context) ([]domain.Attraction, error) {
	return Attractions(), nil
}

func (p *Provider) wait(ctx context.Context) error {
	if p.latency <= 0 {
		return ctx.Err()
	}
	d := time.Duration(rand.Int64N(int64(p.latency) + 1))
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RandomPoint returns a uniformly random coordinate within Web Mercator bounds.
func RandomPoint() domain.GeoPoint {
	return domain.GeoPoint{
		Lat: -maxLatitude + rand.Float64()*2*maxLatitude,
		Lon: -180 + rand.Float64()*360,
	}
}
