package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/tourguide/internal/core/domain"
	"github.com/samirrijal/tourguide/internal/core/ports"
	"github.com/samirrijal/tourguide/internal/pkg/metrics"
	"github.com/samirrijal/tourguide/internal/pkg/telemetry"
)

// NearbyLimit is the number of attractions returned by GetNearbyAttractions.
const NearbyLimit = 5

// TourGuideService is the traveler-facing facade: location tracking, nearby
// attractions, rewards and trip deals.
type TourGuideService struct {
	travelers ports.TravelerRepository
	gps       ports.LocationProvider
	catalog   ports.AttractionCatalog
	pricer    ports.TripPricer
	rewards   *RewardsService
	scheduler *BatchScheduler
	publisher ports.EventPublisher
	apiKey    string
	tracer    trace.Tracer
}

// TourGuideDeps groups the collaborators of a TourGuideService.
type TourGuideDeps struct {
	Travelers ports.TravelerRepository
	GPS       ports.LocationProvider
	Catalog   ports.AttractionCatalog
	Pricer    ports.TripPricer
	Rewards   *RewardsService
	Scheduler *BatchScheduler
	Publisher ports.EventPublisher // optional
	APIKey    string
}

// NewTourGuideService creates a new TourGuideService.
func NewTourGuideService(d TourGuideDeps) *TourGuideService {
	return &TourGuideService{
		travelers: d.Travelers,
		gps:       d.GPS,
		catalog:   d.Catalog,
		pricer:    d.Pricer,
		rewards:   d.Rewards,
		scheduler: d.Scheduler,
		publisher: d.Publisher,
		apiKey:    d.APIKey,
		tracer:    telemetry.Tracer(),
	}
}

// GetTraveler looks a traveler up by user name.
func (s *TourGuideService) GetTraveler(ctx context.Context, userName string) (*domain.Traveler, error) {
	return s.travelers.GetByUserName(ctx, userName)
}

// ListTravelers returns every registered traveler.
func (s *TourGuideService) ListTravelers(ctx context.Context) ([]*domain.Traveler, error) {
	return s.travelers.List(ctx)
}

// AddTraveler registers a traveler. Existing user names are left untouched.
func (s *TourGuideService) AddTraveler(ctx context.Context, t *domain.Traveler) error {
	return s.travelers.Add(ctx, t)
}

// GetRewards returns the traveler's granted rewards in grant order.
func (s *TourGuideService) GetRewards(ctx context.Context, userName string) ([]domain.Reward, error) {
	t, err := s.travelers.GetByUserName(ctx, userName)
	if err != nil {
		return nil, err
	}
	return t.Rewards().List(), nil
}

// GetUserLocation returns the last visited location, tracking the traveler
// first if it has none yet.
func (s *TourGuideService) GetUserLocation(ctx context.Context, t *domain.Traveler) (domain.VisitedLocation, error) {
	if vl, ok := t.LastVisitedLocation(); ok {
		return vl, nil
	}
	return s.TrackUserLocation(ctx, t)
}

// TrackUserLocation records the traveler's current GPS position and then
// computes rewards for it. A reward failure is logged and does not fail the
// tracking itself.
func (s *TourGuideService) TrackUserLocation(ctx context.Context, t *domain.Traveler) (domain.VisitedLocation, error) {
	vl, err := s.RecordLocation(ctx, t)
	if err != nil {
		return domain.VisitedLocation{}, err
	}

	if _, err := s.scheduler.ComputeRewards(ctx, t); err != nil {
		slog.Warn("rewards after tracking failed", "traveler", t.UserName, "error", err)
	}
	return vl, nil
}

// RecordLocation fetches and stores the traveler's GPS position without
// computing rewards.
func (s *TourGuideService) RecordLocation(ctx context.Context, t *domain.Traveler) (domain.VisitedLocation, error) {
	ctx, span := s.tracer.Start(ctx, telemetry.SpanTrackLocation,
		trace.WithAttributes(attribute.String(telemetry.AttrTravelerID, t.ID.String())))
	defer span.End()

	vl, err := s.gps.GetUserLocation(ctx, t.ID)
	if err != nil {
		span.RecordError(err)
		return domain.VisitedLocation{}, fmt.Errorf("gps location for %s: %w", t.UserName, err)
	}
	t.AddVisitedLocation(vl)
	metrics.LocationsTracked.Inc()

	if s.publisher != nil {
		if err := s.publisher.PublishLocationTracked(ctx, vl); err != nil {
			slog.Warn("publish location event failed", "traveler", t.UserName, "error", err)
		}
	}
	return vl, nil
}

// GetNearbyAttractions returns the NearbyLimit closest attractions to vl,
// nearest first, with the points each is worth to the traveler. Attractions
// whose distance is not finite are left out.
func (s *TourGuideService) GetNearbyAttractions(ctx context.Context, t *domain.Traveler, vl domain.VisitedLocation) ([]domain.NearbyAttraction, error) {
	ctx, span := s.tracer.Start(ctx, telemetry.SpanNearby)
	defer span.End()

	attractions, err := s.catalog.ListAttractions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attractions: %w", err)
	}

	type ranked struct {
		attr     domain.Attraction
		distance float64
	}
	all := make([]ranked, 0, len(attractions))
	for _, a := range attractions {
		d := Distance(vl.Location, a.Location)
		if math.IsInf(d, 0) || math.IsNaN(d) {
			continue
		}
		all = append(all, ranked{attr: a, distance: d})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].distance < all[j].distance })
	if len(all) > NearbyLimit {
		all = all[:NearbyLimit]
	}

	settings := s.rewards.Policy().Snapshot()
	out := make([]domain.NearbyAttraction, 0, len(all))
	for _, r := range all {
		points, err := s.rewards.RewardPoints(ctx, r.attr.ID, t.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.NearbyAttraction{
			AttractionName:     r.attr.Name,
			AttractionLocation: r.attr.Location,
			UserLocation:       vl.Location,
			Distance:           r.distance,
			RewardPoints:       points,
			WithinRange:        settings.WithinListing(vl.Location, r.attr),
		})
	}
	return out, nil
}

// GetTripDeals prices trips for the traveler's preferences and accumulated
// reward points, and stores the result on the traveler.
func (s *TourGuideService) GetTripDeals(ctx context.Context, t *domain.Traveler) ([]domain.TripDeal, error) {
	points := t.Rewards().TotalPoints()
	deals, err := s.pricer.GetPrice(ctx, s.apiKey, t.ID, t.Preferences(), points)
	if err != nil {
		return nil, fmt.Errorf("trip pricer: %w", err)
	}
	t.SetTripDeals(deals)
	return deals, nil
}

// RecalculateAll runs one reward batch over every registered traveler and
// waits for it.
func (s *TourGuideService) RecalculateAll(ctx context.Context) (BatchResult, error) {
	travelers, err := s.travelers.List(ctx)
	if err != nil {
		return BatchResult{}, fmt.Errorf("list travelers: %w", err)
	}
	batch, err := s.scheduler.ComputeRewardsForAll(ctx, travelers)
	if err != nil {
		return BatchResult{}, err
	}
	return batch.WaitContext(ctx)
}

// TravelerByID looks a traveler up by ID.
func (s *TourGuideService) TravelerByID(ctx context.Context, id uuid.UUID) (*domain.Traveler, error) {
	return s.travelers.GetByID(ctx, id)
}

// Policy returns the proximity policy shared by the engine and the scheduler.
func (s *TourGuideService) Policy() *ProximityPolicy {
	return s.rewards.Policy()
}
