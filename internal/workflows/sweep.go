package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// SweepInput is the input for the reward sweep workflow.
type SweepInput struct {
	// Interval between sweeps. Zero runs a single sweep; otherwise the
	// workflow sleeps and continues as new after each sweep.
	Interval time.Duration
}

// SweepSummary is the outcome of one sweep.
type SweepSummary struct {
	Total           int
	Succeeded       int
	Failed          int
	Granted         int
	Duration        time.Duration
	FailedTravelers []string
}

// RewardSweepWorkflow periodically recalculates rewards for every traveler,
// so a traveler missed by a failed provider call is picked up again later.
func RewardSweepWorkflow(ctx workflow.Context, input SweepInput) (SweepSummary, error) {
	logger := workflow.GetLogger(ctx)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    10 * time.Second,
			BackoffCoefficient: 2,
			MaximumAttempts:    3,
		},
	})

	var summary SweepSummary
	if err := workflow.ExecuteActivity(ctx, SweepRewardsActivity).Get(ctx, &summary); err != nil {
		logger.Error("reward sweep failed", "error", err)
		return SweepSummary{}, err
	}
	logger.Info("reward sweep finished",
		"total", summary.Total, "failed", summary.Failed, "granted", summary.Granted)

	if input.Interval <= 0 {
		return summary, nil
	}
	if err := workflow.Sleep(ctx, input.Interval); err != nil {
		return summary, err
	}
	return summary, workflow.NewContinueAsNewError(ctx, RewardSweepWorkflow, input)
}
