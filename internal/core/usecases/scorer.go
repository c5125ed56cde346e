package usecases

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/samirrijal/tourguide/internal/core/ports"
)

// RateLimitedScorer caps the call rate to a score provider. Callers wait for
// a token; a cancelled context fails the call without reaching the provider.
type RateLimitedScorer struct {
	next    ports.RewardScorer
	limiter *rate.Limiter
}

// NewRateLimitedScorer wraps next with a token bucket of perSecond and burst.
// A non-positive rate returns next unchanged.
func NewRateLimitedScorer(next ports.RewardScorer, perSecond float64, burst int) ports.RewardScorer {
	if perSecond <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimitedScorer{next: next, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (s *RateLimitedScorer) AttractionRewardPoints(ctx context.Context, attractionID, userID uuid.UUID) (int, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit: %w", err)
	}
	return s.next.AttractionRewardPoints(ctx, attractionID, userID)
}
