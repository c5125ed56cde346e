package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/tourguide/internal/adapters/http"
	"github.com/samirrijal/tourguide/internal/bootstrap"
	"github.com/samirrijal/tourguide/internal/pkg/config"
	"github.com/samirrijal/tourguide/internal/pkg/logging"
	"github.com/samirrijal/tourguide/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("tourguide-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	svc, err := bootstrap.New(ctx, cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	if svc.DB != nil {
		go svc.DB.ReportPoolMetrics(ctx, 15*time.Second)
	}

	if cfg.Tracker.Enabled {
		svc.Tracker.Start(ctx)
		slog.Info("tracker started", "interval", cfg.Tracker.Interval.String())
	}

	deps := &http.Dependencies{
		TourGuide: svc.TourGuide,
		DB:        svc.DB,
		Cache:     svc.Cache,
	}
	if svc.Publisher != nil {
		deps.NATS = svc.Publisher.Conn()
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024,
		AppName:      "TourGuide API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr,
			"pool_size", svc.Scheduler.Capacity(), "travelers", svc.Travelers.Len())
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
	if err := svc.Shutdown(shutdownCtx); err != nil {
		slog.Error("reward workers did not drain", "error", err)
	}

	slog.Info("server stopped")
}
