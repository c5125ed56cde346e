package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var trackCmd = &cobra.Command{
	Use:     "track",
	Short:   "Track every traveler's location once and reward the new positions",
	Example: `  simulate track --users 100000 --gps-latency 100ms --max-duration 15m`,
	RunE:    runTrack,
}

func init() {
	rootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := startServices(ctx, cmd)
	if err != nil {
		return err
	}
	defer stopServices(svc)

	start := time.Now()
	res, err := svc.Tracker.RunOnce(ctx)
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("tracking: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "travelers:   %d\n", svc.Travelers.Len())
	fmt.Fprintf(out, "pool size:   %d\n", svc.Scheduler.Capacity())
	fmt.Fprintf(out, "rewarded:    %d succeeded, %d failed, %d granted\n", res.Succeeded, len(res.Failures), res.Granted)
	fmt.Fprintf(out, "elapsed:     %s\n", elapsed.Round(time.Millisecond))

	return checkDuration(cmd, elapsed)
}
