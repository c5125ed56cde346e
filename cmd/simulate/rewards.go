package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/samirrijal/tourguide/internal/core/domain"
)

var rewardsCmd = &cobra.Command{
	Use:   "rewards",
	Short: "Place every traveler at an attraction and compute all rewards",
	Long: `Adds a visit to the first catalog attraction to every traveler, runs one
reward batch over all of them and checks that each traveler earned a reward.`,
	Example: `  simulate rewards --users 100000 --pool-size 65 --max-duration 20m`,
	RunE:    runRewards,
}

func init() {
	rootCmd.AddCommand(rewardsCmd)
}

func runRewards(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := startServices(ctx, cmd)
	if err != nil {
		return err
	}
	defer stopServices(svc)

	attractions, err := svc.Catalog.ListAttractions(ctx)
	if err != nil {
		return fmt.Errorf("list attractions: %w", err)
	}
	if len(attractions) == 0 {
		return fmt.Errorf("attraction catalog is empty")
	}
	target := attractions[0]

	travelers, err := svc.TourGuide.ListTravelers(ctx)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, t := range travelers {
		t.AddVisitedLocation(domain.VisitedLocation{UserID: t.ID, Location: target.Location, TimeVisited: now})
	}

	start := time.Now()
	res, err := svc.TourGuide.RecalculateAll(ctx)
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("recalculate: %w", err)
	}

	missing := 0
	for _, t := range travelers {
		if t.Rewards().Len() == 0 {
			missing++
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "travelers:   %d\n", len(travelers))
	fmt.Fprintf(out, "attraction:  %s\n", target.Name)
	fmt.Fprintf(out, "pool size:   %d\n", svc.Scheduler.Capacity())
	fmt.Fprintf(out, "batch:       %d succeeded, %d failed, %d granted\n", res.Succeeded, len(res.Failures), res.Granted)
	fmt.Fprintf(out, "elapsed:     %s\n", elapsed.Round(time.Millisecond))

	if missing > 0 {
		return fmt.Errorf("%d travelers without a reward", missing)
	}
	return checkDuration(cmd, elapsed)
}
