// Package bootstrap wires the tour guide services from configuration.
// Every binary builds on it so the api, the sweep worker and the simulator
// run the same engine.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/tourguide/internal/adapters/gpsutil"
	"github.com/samirrijal/tourguide/internal/adapters/memory"
	natsadapter "github.com/samirrijal/tourguide/internal/adapters/nats"
	"github.com/samirrijal/tourguide/internal/adapters/postgres"
	"github.com/samirrijal/tourguide/internal/adapters/rewardcentral"
	"github.com/samirrijal/tourguide/internal/adapters/trippricer"
	"github.com/samirrijal/tourguide/internal/adapters/valkey"
	"github.com/samirrijal/tourguide/internal/core/ports"
	"github.com/samirrijal/tourguide/internal/core/usecases"
	"github.com/samirrijal/tourguide/internal/pkg/config"
)

// Options tunes which infrastructure is connected.
type Options struct {
	// Offline skips NATS and Valkey. The catalog still honours
	// catalog.source.
	Offline bool
}

// Services holds the wired components of one process.
type Services struct {
	Config    *config.Config
	Travelers *memory.TravelerRepo
	Catalog   ports.AttractionCatalog
	Policy    *usecases.ProximityPolicy
	Rewards   *usecases.RewardsService
	Scheduler *usecases.BatchScheduler
	TourGuide *usecases.TourGuideService
	Tracker   *usecases.Tracker

	// Optional infrastructure; nil when unavailable or disabled.
	Publisher *natsadapter.Publisher
	Cache     *valkey.Cache
	DB        *postgres.DB
}

// New builds and starts the services. The scheduler is running when New
// returns; callers must call Shutdown.
func New(ctx context.Context, cfg *config.Config, opts Options) (*Services, error) {
	s := &Services{Config: cfg}

	if !opts.Offline {
		if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
			slog.Warn("nats unavailable, reward events disabled", "error", err)
		} else {
			s.Publisher = pub
		}

		if cache, err := valkey.New(cfg.Valkey.Addr, "tourguide"); err != nil {
			slog.Warn("valkey unavailable, catalog cache disabled", "error", err)
		} else {
			s.Cache = cache
		}
	}

	gps := gpsutil.New(cfg.Simulation.GPSLatency)

	var catalog ports.AttractionCatalog = gps
	if cfg.Catalog.Source == "postgres" {
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			s.closeInfra()
			return nil, fmt.Errorf("database: %w", err)
		}
		s.DB = db
		catalog = postgres.NewAttractionRepo(db)
	}
	if s.Cache != nil {
		catalog = usecases.NewCatalogService(catalog, s.Cache, cfg.Catalog.CacheTTL)
	}
	s.Catalog = catalog

	var scorer ports.RewardScorer = rewardcentral.New(cfg.Simulation.RewardLatency)
	scorer = usecases.NewRateLimitedScorer(scorer, cfg.Rewards.ScoreRateLimit, cfg.Rewards.ScoreBurst)

	s.Policy = usecases.NewProximityPolicy(cfg.Rewards.ProximityBuffer, cfg.Rewards.AttractionProximityRange)

	rewardOpts := []usecases.RewardsOption{usecases.WithScoreTimeout(cfg.Rewards.ScoreTimeout)}
	var publisher ports.EventPublisher
	if s.Publisher != nil {
		publisher = s.Publisher
		rewardOpts = append(rewardOpts, usecases.WithPublisher(publisher))
	}
	s.Rewards = usecases.NewRewardsService(catalog, scorer, s.Policy, rewardOpts...)

	s.Scheduler = usecases.NewBatchScheduler(s.Rewards, s.Policy, cfg.Rewards.WorkerPoolSize)
	if err := s.Scheduler.Start(); err != nil {
		s.closeInfra()
		return nil, fmt.Errorf("start scheduler: %w", err)
	}

	s.Travelers = memory.NewTravelerRepo()
	s.TourGuide = usecases.NewTourGuideService(usecases.TourGuideDeps{
		Travelers: s.Travelers,
		GPS:       gps,
		Catalog:   catalog,
		Pricer:    trippricer.New(),
		Rewards:   s.Rewards,
		Scheduler: s.Scheduler,
		Publisher: publisher,
		APIKey:    cfg.Simulation.TripPricerAPIKey,
	})
	s.Tracker = usecases.NewTracker(s.TourGuide, cfg.Tracker.Interval, cfg.Rewards.WorkerPoolSize)

	if cfg.Simulation.TestMode {
		if err := memory.SeedInternalTravelers(ctx, s.Travelers, cfg.Simulation.InternalUserCount); err != nil {
			_ = s.Shutdown(ctx)
			return nil, fmt.Errorf("seed travelers: %w", err)
		}
		slog.Info("test mode: internal travelers seeded", "count", s.Travelers.Len())
	}

	return s, nil
}

// Shutdown stops the tracker, drains the scheduler within ctx and closes
// the infrastructure connections.
func (s *Services) Shutdown(ctx context.Context) error {
	s.Tracker.Stop()
	err := s.Scheduler.Shutdown(ctx)
	s.closeInfra()
	if err != nil {
		return fmt.Errorf("scheduler shutdown: %w", err)
	}
	return nil
}

func (s *Services) closeInfra() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	if s.Cache != nil {
		s.Cache.Close()
	}
	if s.DB != nil {
		s.DB.Close()
	}
}
