package usecases

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/tourguide/internal/pkg/metrics"
)

// Tracker periodically records every traveler's location and then runs one
// reward batch over all of them.
type Tracker struct {
	svc         *TourGuideService
	interval    time.Duration
	concurrency int

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTracker creates a tracker. concurrency bounds parallel GPS lookups.
func NewTracker(svc *TourGuideService, interval time.Duration, concurrency int) *Tracker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if concurrency <= 0 {
		concurrency = DefaultPoolSize
	}
	return &Tracker{svc: svc, interval: interval, concurrency: concurrency}
}

// Start launches the tracking loop. The first cycle runs immediately.
func (t *Tracker) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})

	go func() {
		defer close(t.done)
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			t.cycle(ctx)
			select {
			case <-ctx.Done():
				slog.Info("tracker stopped")
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop ends the loop and waits for the current cycle to finish.
func (t *Tracker) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel = nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// RunOnce performs a single tracking cycle synchronously.
func (t *Tracker) RunOnce(ctx context.Context) (BatchResult, error) {
	start := time.Now()
	travelers, err := t.svc.ListTravelers(ctx)
	if err != nil {
		return BatchResult{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)
	for _, tr := range travelers {
		g.Go(func() error {
			if _, err := t.svc.RecordLocation(gctx, tr); err != nil {
				slog.Warn("track location failed", "traveler", tr.UserName, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	batch, err := t.svc.scheduler.ComputeRewardsForAll(ctx, travelers)
	if err != nil {
		return BatchResult{}, err
	}
	res, err := batch.WaitContext(ctx)
	if err != nil {
		return BatchResult{}, err
	}

	slog.Info("tracking cycle complete",
		"travelers", len(travelers),
		"reward_failures", len(res.Failures),
		"duration", time.Since(start),
	)
	return res, nil
}

func (t *Tracker) cycle(ctx context.Context) {
	if _, err := t.RunOnce(ctx); err != nil {
		if ctx.Err() == nil {
			slog.Error("tracking cycle failed", "error", err)
		}
		metrics.TrackerCycles.WithLabelValues("error").Inc()
		return
	}
	metrics.TrackerCycles.WithLabelValues("ok").Inc()
}
