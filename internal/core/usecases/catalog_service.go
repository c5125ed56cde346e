package usecases

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/samirrijal/tourguide/internal/core/domain"
	"github.com/samirrijal/tourguide/internal/core/ports"
	"github.com/samirrijal/tourguide/internal/pkg/metrics"
)

const catalogCacheKey = "attractions:all"

// CatalogService is a read-through cache in front of an attraction catalog.
// Cache errors are ignored and the source is used instead.
type CatalogService struct {
	source ports.AttractionCatalog
	cache  ports.CacheService
	ttl    time.Duration
}

// NewCatalogService creates a new CatalogService. cache may be nil.
func NewCatalogService(source ports.AttractionCatalog, cache ports.CacheService, ttl time.Duration) *CatalogService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CatalogService{source: source, cache: cache, ttl: ttl}
}

// ListAttractions returns the catalog, from cache when possible.
func (s *CatalogService) ListAttractions(ctx context.Context) ([]domain.Attraction, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, catalogCacheKey); err == nil {
			var attractions []domain.Attraction
			if err := json.Unmarshal(data, &attractions); err == nil {
				metrics.CacheHits.WithLabelValues("attractions").Inc()
				return attractions, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("attractions").Inc()
	}

	attractions, err := s.source.ListAttractions(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(attractions); err == nil {
			if err := s.cache.Set(ctx, catalogCacheKey, data, int(s.ttl.Seconds())); err != nil {
				slog.Debug("cache attractions failed", "error", err)
			}
		}
	}

	return attractions, nil
}

// Invalidate drops the cached catalog.
func (s *CatalogService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, catalogCacheKey)
}
