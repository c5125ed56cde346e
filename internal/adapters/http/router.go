package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/tourguide/internal/pkg/metrics"
)

const (
	requestTimeout = 15 * time.Second
	// Recalculation walks every traveler through the pool and may take
	// much longer than a single lookup.
	batchTimeout = 20 * time.Minute
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited",
				"too many requests, please try again later")
		},
		Next: func(c *fiber.Ctx) bool {
			return quietPaths[c.Path()]
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Get("/", HomeHandler())

	// Health & readiness, no timeout
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	v1.Get("/travelers", timeout.NewWithContext(ListTravelersHandler(deps), requestTimeout))
	v1.Get("/travelers/:userName/location", timeout.NewWithContext(GetLocationHandler(deps), requestTimeout))
	v1.Post("/travelers/:userName/location", timeout.NewWithContext(TrackLocationHandler(deps), requestTimeout))
	v1.Get("/travelers/:userName/nearby-attractions", timeout.NewWithContext(NearbyAttractionsHandler(deps), requestTimeout))
	v1.Get("/travelers/:userName/rewards", timeout.NewWithContext(RewardsHandler(deps), requestTimeout))
	v1.Get("/travelers/:userName/trip-deals", timeout.NewWithContext(TripDealsHandler(deps), requestTimeout))
	v1.Post("/rewards/recalculate", timeout.NewWithContext(RecalculateRewardsHandler(deps), batchTimeout))
	v1.Get("/rewards/proximity", GetProximityHandler(deps))
	v1.Put("/rewards/proximity", UpdateProximityHandler(deps))
	v1.Delete("/rewards/proximity", ResetProximityHandler(deps))

	app.Post("/graphql", timeout.NewWithContext(GraphQLHandler(deps), requestTimeout))

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps)))
}
