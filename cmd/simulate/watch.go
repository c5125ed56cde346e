package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	natsadapter "github.com/samirrijal/tourguide/internal/adapters/nats"
	"github.com/samirrijal/tourguide/internal/core/domain"
	"github.com/samirrijal/tourguide/internal/core/ports"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print reward and location events from the event bus",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Bool("locations", false, "also print location events")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		return err
	}
	defer sub.Close()

	locations, _ := cmd.Flags().GetBool("locations")
	out := cmd.OutOrStdout()
	if err := printEvents(ctx, sub, out, locations); err != nil {
		return err
	}

	fmt.Fprintf(out, "watching %s (ctrl-c to stop)\n", cfg.NATS.URL)
	<-ctx.Done()
	return nil
}

// printEvents subscribes handlers that write one line per event to out.
func printEvents(ctx context.Context, sub ports.EventSubscriber, out io.Writer, locations bool) error {
	err := sub.SubscribeRewardGranted(ctx, func(_ context.Context, userID uuid.UUID, r domain.Reward) error {
		_, err := fmt.Fprintf(out, "reward   user=%s attraction=%q points=%d\n", userID, r.Attraction.Name, r.Points)
		return err
	})
	if err != nil || !locations {
		return err
	}

	return sub.SubscribeLocationTracked(ctx, func(_ context.Context, vl domain.VisitedLocation) error {
		_, err := fmt.Fprintf(out, "location user=%s lat=%.5f lon=%.5f\n", vl.UserID, vl.Location.Lat, vl.Location.Lon)
		return err
	})
}
