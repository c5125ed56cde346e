package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/tourguide/internal/bootstrap"
	"github.com/samirrijal/tourguide/internal/pkg/config"
	"github.com/samirrijal/tourguide/internal/pkg/logging"
	"github.com/samirrijal/tourguide/internal/workflows"
)

const sweepWorkflowID = "tourguide-reward-sweep"

func main() {
	cfg, err := config.Load("tourguide-rewarder")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()
	svc, err := bootstrap.New(ctx, cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := svc.Shutdown(shutdownCtx); err != nil {
			slog.Error("reward workers did not drain", "error", err)
		}
	}()

	c, err := client.Dial(client.Options{
		HostPort: cfg.Temporal.HostPort,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize: 1,
	})
	w.RegisterWorkflow(workflows.RewardSweepWorkflow)
	w.RegisterActivity(&workflows.SweepActivities{Sweeper: svc.TourGuide})

	// One long-running sweep per deployment; an already running one is kept.
	_, err = c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        sweepWorkflowID,
		TaskQueue: cfg.Temporal.TaskQueue,
	}, workflows.RewardSweepWorkflow, workflows.SweepInput{Interval: cfg.Temporal.SweepInterval})
	if err != nil {
		slog.Warn("sweep workflow not started", "error", err)
	}

	slog.Info("rewarder worker started", "task_queue", cfg.Temporal.TaskQueue,
		"sweep_interval", cfg.Temporal.SweepInterval.String())
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
