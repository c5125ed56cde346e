package workflows

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/tourguide/internal/core/usecases"
)

// SweepRewardsActivity is the registered name of SweepActivities.SweepRewards.
const SweepRewardsActivity = "SweepRewards"

// RewardSweeper runs one reward batch over every registered traveler.
// *usecases.TourGuideService satisfies it.
type RewardSweeper interface {
	RecalculateAll(ctx context.Context) (usecases.BatchResult, error)
}

// SweepActivities holds the activity implementations for the sweep workflow.
type SweepActivities struct {
	Sweeper RewardSweeper
}

// SweepRewards recalculates rewards for all travelers. Per-traveler failures
// are reported in the summary; only a batch that could not run fails the
// activity. A closed scheduler is not retried.
func (a *SweepActivities) SweepRewards(ctx context.Context) (SweepSummary, error) {
	logger := activity.GetLogger(ctx)

	res, err := a.Sweeper.RecalculateAll(ctx)
	if err != nil {
		if errors.Is(err, usecases.ErrSchedulerClosed) || errors.Is(err, usecases.ErrSchedulerNotStarted) {
			return SweepSummary{}, temporal.NewNonRetryableApplicationError(err.Error(), "SchedulerUnavailable", err)
		}
		return SweepSummary{}, fmt.Errorf("recalculate rewards: %w", err)
	}

	summary := SweepSummary{
		Total:     res.Total,
		Succeeded: res.Succeeded,
		Failed:    len(res.Failures),
		Granted:   res.Granted,
		Duration:  res.Duration,
	}
	for _, f := range res.Failures {
		summary.FailedTravelers = append(summary.FailedTravelers, f.TravelerID.String())
	}
	if summary.Failed > 0 {
		logger.Warn("sweep finished with failures", "failed", summary.Failed, "error", res.Err())
	}
	return summary, nil
}
