package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/tourguide/internal/core/domain"
	"github.com/samirrijal/tourguide/internal/core/ports"
	"github.com/samirrijal/tourguide/internal/pkg/metrics"
	"github.com/samirrijal/tourguide/internal/pkg/telemetry"
)

// DefaultScoreTimeout bounds a single score lookup.
const DefaultScoreTimeout = 5 * time.Second

// RewardsService grants attraction rewards from a traveler's visited locations.
//
// Work for one traveler is serialized; different travelers proceed in
// parallel and share nothing mutable.
type RewardsService struct {
	catalog      ports.AttractionCatalog
	scorer       ports.RewardScorer
	publisher    ports.EventPublisher
	policy       *ProximityPolicy
	scoreTimeout time.Duration
	locks        *keyedMutex
	tracer       trace.Tracer
}

// RewardsOption configures a RewardsService.
type RewardsOption func(*RewardsService)

// WithPublisher publishes every granted reward. Publish failures are logged only.
func WithPublisher(p ports.EventPublisher) RewardsOption {
	return func(s *RewardsService) { s.publisher = p }
}

// WithScoreTimeout overrides DefaultScoreTimeout.
func WithScoreTimeout(d time.Duration) RewardsOption {
	return func(s *RewardsService) {
		if d > 0 {
			s.scoreTimeout = d
		}
	}
}

// NewRewardsService creates a new RewardsService.
func NewRewardsService(catalog ports.AttractionCatalog, scorer ports.RewardScorer, policy *ProximityPolicy, opts ...RewardsOption) *RewardsService {
	if policy == nil {
		policy = NewProximityPolicy(DefaultRewardRadius, DefaultListingRadius)
	}
	s := &RewardsService{
		catalog:      catalog,
		scorer:       scorer,
		policy:       policy,
		scoreTimeout: DefaultScoreTimeout,
		locks:        newKeyedMutex(),
		tracer:       telemetry.Tracer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the proximity policy the service reads from.
func (s *RewardsService) Policy() *ProximityPolicy { return s.policy }

// CalculateRewards runs the engine for t with the current proximity settings.
func (s *RewardsService) CalculateRewards(ctx context.Context, t *domain.Traveler) (int, error) {
	return s.CalculateRewardsWith(ctx, t, s.policy.Snapshot())
}

// CalculateRewardsWith appends a reward for every attraction that some visited
// location of t is within settings.RewardRadius of and that t has not been
// rewarded for yet. It returns the number of rewards granted.
//
// Attractions are scanned in catalog order and, for each, the history is
// scanned in chronological order; the first qualifying location wins. A failed
// score lookup leaves that attraction unrewarded and does not stop the others;
// all such failures are joined into the returned error.
func (s *RewardsService) CalculateRewardsWith(ctx context.Context, t *domain.Traveler, settings ProximitySettings) (int, error) {
	if t == nil {
		return 0, errors.New("nil traveler")
	}
	ctx, span := s.tracer.Start(ctx, telemetry.SpanCalculateRewards,
		trace.WithAttributes(attribute.String(telemetry.AttrTravelerID, t.ID.String())))
	defer span.End()

	unlock := s.locks.Lock(t.ID)
	defer unlock()

	start := time.Now()
	defer func() { metrics.RewardCalculationDuration.Observe(time.Since(start).Seconds()) }()

	history := t.VisitedLocations()
	attractions, err := s.catalog.ListAttractions(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list attractions")
		return 0, fmt.Errorf("list attractions: %w", err)
	}
	span.SetAttributes(attribute.Int(telemetry.AttrAttractions, len(attractions)))

	ledger := t.Rewards()
	var (
		granted int
		errs    []error
	)
	for _, attr := range attractions {
		if ledger.Contains(attr.ID) {
			continue
		}
		for _, vl := range history {
			if !settings.WithinReward(vl.Location, attr) {
				continue
			}

			points, err := s.score(ctx, attr.ID, t.ID)
			if err != nil {
				metrics.ScoreProviderErrors.Inc()
				slog.Warn("reward score lookup failed",
					"traveler", t.ID, "attraction", attr.Name, "error", err)
				errs = append(errs, err)
				break
			}

			reward := domain.Reward{VisitedLocation: vl, Attraction: attr, Points: points}
			if err := ledger.Append(reward); err != nil {
				if !errors.Is(err, domain.ErrRewardExists) {
					errs = append(errs, fmt.Errorf("append reward: %w", err))
				}
				break
			}
			granted++
			metrics.RewardsGranted.Inc()
			s.publish(ctx, t.ID, reward)
			break
		}
	}

	span.SetAttributes(attribute.Int(telemetry.AttrRewardsGranted, granted))
	if len(errs) > 0 {
		err := errors.Join(errs...)
		span.RecordError(err)
		span.SetStatus(codes.Error, "score lookups failed")
		return granted, err
	}
	return granted, nil
}

// RewardPoints looks up the points an attraction is worth for a traveler
// without granting anything.
func (s *RewardsService) RewardPoints(ctx context.Context, attractionID, userID uuid.UUID) (int, error) {
	return s.score(ctx, attractionID, userID)
}

func (s *RewardsService) score(ctx context.Context, attractionID, userID uuid.UUID) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.scoreTimeout)
	defer cancel()

	points, err := s.scorer.AttractionRewardPoints(ctx, attractionID, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: attraction %s: %w", ErrProviderUnavailable, attractionID, err)
	}
	return points, nil
}

func (s *RewardsService) publish(ctx context.Context, userID uuid.UUID, r domain.Reward) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRewardGranted(ctx, userID, r); err != nil {
		slog.Warn("publish reward event failed", "traveler", userID, "attraction", r.Attraction.Name, "error", err)
	}
}
