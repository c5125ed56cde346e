package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/samirrijal/tourguide/internal/bootstrap"
	"github.com/samirrijal/tourguide/internal/pkg/config"
	"github.com/samirrijal/tourguide/internal/pkg/logging"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "simulate",
	Short: "High-volume runs of the tour guide reward engine",
	Long: `Runs the tracking and reward pipelines against generated internal
travelers and reports how long they take. GPS and reward providers are the
in-process simulators; set --gps-latency and --reward-latency to mimic slow
upstreams.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load("tourguide-simulate")
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)
		return nil
	},
}

func init() {
	rootCmd.SilenceUsage = true

	f := rootCmd.PersistentFlags()
	f.Int("users", 100, "number of internal travelers to generate")
	f.Int("pool-size", 0, "reward worker pool size (0 = config)")
	f.Duration("gps-latency", 0, "simulated GPS provider latency")
	f.Duration("reward-latency", 0, "simulated reward provider latency")
	f.Duration("max-duration", 0, "fail when the run takes longer (0 = no limit)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// startServices applies the command flags to the config and wires an
// offline service seeded with the requested travelers.
func startServices(ctx context.Context, cmd *cobra.Command) (*bootstrap.Services, error) {
	f := cmd.Flags()
	users, _ := f.GetInt("users")
	pool, _ := f.GetInt("pool-size")
	gpsLatency, _ := f.GetDuration("gps-latency")
	rewardLatency, _ := f.GetDuration("reward-latency")

	cfg.Simulation.TestMode = true
	cfg.Simulation.InternalUserCount = users
	cfg.Simulation.GPSLatency = gpsLatency
	cfg.Simulation.RewardLatency = rewardLatency
	if pool > 0 {
		cfg.Rewards.WorkerPoolSize = pool
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return bootstrap.New(ctx, cfg, bootstrap.Options{Offline: true})
}

func stopServices(svc *bootstrap.Services) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := svc.Shutdown(ctx); err != nil {
		slog.Error("shutdown", "error", err)
	}
}

// checkDuration enforces --max-duration.
func checkDuration(cmd *cobra.Command, elapsed time.Duration) error {
	limit, _ := cmd.Flags().GetDuration("max-duration")
	if limit > 0 && elapsed > limit {
		return fmt.Errorf("run took %s, limit is %s", elapsed.Round(time.Millisecond), limit)
	}
	return nil
}
