package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/samirrijal/tourguide/internal/core/domain"
	"github.com/samirrijal/tourguide/internal/pkg/metrics"
	"github.com/samirrijal/tourguide/internal/pkg/telemetry"
)

// DefaultPoolSize is the worker pool capacity used when none is configured.
const DefaultPoolSize = 65

// RewardCalculator computes rewards for one traveler under fixed settings.
type RewardCalculator interface {
	CalculateRewardsWith(ctx context.Context, t *domain.Traveler, settings ProximitySettings) (int, error)
}

// BatchScheduler fans reward calculations out over a bounded worker pool.
//
// The pool is shared by every batch: at most capacity traveler tasks run at
// once across the whole scheduler. Submissions are rejected before Start and
// after Shutdown.
type BatchScheduler struct {
	engine   RewardCalculator
	policy   *ProximityPolicy
	capacity int
	sem      *semaphore.Weighted
	tracer   trace.Tracer

	mu       sync.Mutex
	started  bool
	closed   bool
	inflight sync.WaitGroup

	// cancelled when a Shutdown deadline expires; stops queued tasks
	abort       context.Context
	cancelAbort context.CancelFunc
}

// NewBatchScheduler creates a scheduler with the given pool capacity.
// Non-positive capacity falls back to DefaultPoolSize.
func NewBatchScheduler(engine RewardCalculator, policy *ProximityPolicy, capacity int) *BatchScheduler {
	if capacity <= 0 {
		capacity = DefaultPoolSize
	}
	if policy == nil {
		policy = NewProximityPolicy(DefaultRewardRadius, DefaultListingRadius)
	}
	abort, cancel := context.WithCancel(context.Background())
	return &BatchScheduler{
		engine:      engine,
		policy:      policy,
		capacity:    capacity,
		sem:         semaphore.NewWeighted(int64(capacity)),
		tracer:      telemetry.Tracer(),
		abort:       abort,
		cancelAbort: cancel,
	}
}

// Capacity returns the maximum number of concurrently running tasks.
func (s *BatchScheduler) Capacity() int { return s.capacity }

// Start opens the scheduler for submissions. Calling Start twice is a no-op.
func (s *BatchScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSchedulerClosed
	}
	s.started = true
	return nil
}

// Shutdown stops accepting work and waits for accepted work to finish.
// If ctx expires first, tasks that have not started yet are abandoned and
// reported as failures, and ctx.Err() is returned.
func (s *BatchScheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancelAbort()
		return nil
	case <-ctx.Done():
		s.cancelAbort()
		<-done
		return ctx.Err()
	}
}

func (s *BatchScheduler) admit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.closed:
		return ErrSchedulerClosed
	case !s.started:
		return ErrSchedulerNotStarted
	}
	s.inflight.Add(1)
	return nil
}

// ComputeRewards runs one traveler's calculation on the shared pool and
// waits for it.
func (s *BatchScheduler) ComputeRewards(ctx context.Context, t *domain.Traveler) (int, error) {
	if t == nil {
		return 0, errors.New("nil traveler")
	}
	if err := s.admit(); err != nil {
		return 0, err
	}
	defer s.inflight.Done()

	settings := s.policy.Snapshot()
	if err := s.acquire(ctx); err != nil {
		return 0, err
	}
	defer s.sem.Release(1)

	granted, err := s.run(context.WithoutCancel(ctx), t, settings)
	if err != nil {
		return granted, &TravelerError{TravelerID: t.ID, Err: err}
	}
	return granted, nil
}

// ComputeRewardsForAll submits one task per traveler and returns immediately.
// The proximity settings in effect at submission apply to the whole batch.
//
// Cancelling ctx stops tasks that have not started; they are reported as
// failures. Tasks already running complete.
func (s *BatchScheduler) ComputeRewardsForAll(ctx context.Context, travelers []*domain.Traveler) (*Batch, error) {
	if err := s.admit(); err != nil {
		return nil, err
	}

	settings := s.policy.Snapshot()
	b := newBatch(len(travelers))

	ctx, span := s.tracer.Start(ctx, telemetry.SpanRewardBatch,
		trace.WithAttributes(attribute.Int(telemetry.AttrTravelerCount, len(travelers))))

	go func() {
		defer s.inflight.Done()
		defer span.End()

		taskCtx := context.WithoutCancel(ctx)
		var g errgroup.Group
		for _, t := range travelers {
			if t == nil {
				b.fail(uuid.Nil, errors.New("nil traveler"))
				continue
			}
			if err := s.acquire(ctx); err != nil {
				b.fail(t.ID, err)
				continue
			}
			g.Go(func() error {
				defer s.sem.Release(1)
				granted, err := s.run(taskCtx, t, settings)
				if err != nil {
					b.fail(t.ID, err)
					return nil
				}
				b.succeed(granted)
				return nil
			})
		}
		_ = g.Wait()

		res := b.finish()
		metrics.BatchDuration.Observe(res.Duration.Seconds())
		metrics.BatchTravelers.WithLabelValues("success").Add(float64(res.Succeeded))
		metrics.BatchTravelers.WithLabelValues("failure").Add(float64(len(res.Failures)))
		span.SetAttributes(attribute.Int(telemetry.AttrRewardsGranted, res.Granted))
		slog.Info("reward batch finished",
			"travelers", res.Total,
			"succeeded", res.Succeeded,
			"failed", len(res.Failures),
			"rewards_granted", res.Granted,
			"duration", res.Duration,
		)
	}()

	return b, nil
}

// acquire takes a worker slot, giving up when ctx is done or the
// scheduler is aborted.
func (s *BatchScheduler) acquire(ctx context.Context) error {
	if s.abort.Err() != nil {
		return ErrSchedulerClosed
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.abort, cancel)
	defer stop()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		if s.abort.Err() != nil {
			return ErrSchedulerClosed
		}
		return fmt.Errorf("waiting for worker: %w", err)
	}
	return nil
}

func (s *BatchScheduler) run(ctx context.Context, t *domain.Traveler, settings ProximitySettings) (granted int, err error) {
	metrics.SchedulerInflight.Inc()
	defer metrics.SchedulerInflight.Dec()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("reward task panicked", "traveler", t.ID, "panic", r)
			err = fmt.Errorf("reward task panicked: %v", r)
		}
	}()
	return s.engine.CalculateRewardsWith(ctx, t, settings)
}

// BatchResult summarizes a finished batch.
type BatchResult struct {
	Total     int
	Succeeded int
	Granted   int
	Failures  []*TravelerError
	Duration  time.Duration
}

// Err joins every per-traveler failure, or returns nil.
func (r BatchResult) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Batch is the completion handle of ComputeRewardsForAll.
type Batch struct {
	done    chan struct{}
	started time.Time

	mu     sync.Mutex
	result BatchResult
}

func newBatch(total int) *Batch {
	return &Batch{
		done:    make(chan struct{}),
		started: time.Now(),
		result:  BatchResult{Total: total},
	}
}

func (b *Batch) fail(id uuid.UUID, err error) {
	b.mu.Lock()
	b.result.Failures = append(b.result.Failures, &TravelerError{TravelerID: id, Err: err})
	b.mu.Unlock()
}

func (b *Batch) succeed(granted int) {
	b.mu.Lock()
	b.result.Succeeded++
	b.result.Granted += granted
	b.mu.Unlock()
}

func (b *Batch) finish() BatchResult {
	b.mu.Lock()
	b.result.Duration = time.Since(b.started)
	res := b.result
	b.mu.Unlock()
	close(b.done)
	return res
}

// Done is closed once every task of the batch has finished.
func (b *Batch) Done() <-chan struct{} { return b.done }

// Wait blocks until the batch has finished and returns its result.
func (b *Batch) Wait() BatchResult {
	<-b.done
	b.mu.Lock()
	defer b.mu.Unlock()
	res := b.result
	res.Failures = append([]*TravelerError(nil), b.result.Failures...)
	return res
}

// WaitContext is Wait bounded by ctx.
func (b *Batch) WaitContext(ctx context.Context) (BatchResult, error) {
	select {
	case <-b.done:
		return b.Wait(), nil
	case <-ctx.Done():
		return BatchResult{}, ctx.Err()
	}
}
