package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tourguide",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tourguide",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tourguide",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Reward engine metrics
	RewardsGranted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tourguide",
		Subsystem: "rewards",
		Name:      "granted_total",
		Help:      "Total rewards appended to traveler ledgers",
	})

	ScoreProviderErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tourguide",
		Subsystem: "rewards",
		Name:      "score_provider_errors_total",
		Help:      "Total failed or timed out score lookups",
	})

	RewardCalculationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tourguide",
		Subsystem: "rewards",
		Name:      "calculation_duration_seconds",
		Help:      "Duration of one traveler's reward calculation",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	BatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tourguide",
		Subsystem: "scheduler",
		Name:      "batch_duration_seconds",
		Help:      "Duration of a reward batch from submission to completion",
		Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300, 1200},
	})

	BatchTravelers = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tourguide",
		Subsystem: "scheduler",
		Name:      "batch_travelers_total",
		Help:      "Travelers processed by reward batches",
	}, []string{"outcome"})

	SchedulerInflight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tourguide",
		Subsystem: "scheduler",
		Name:      "inflight_tasks",
		Help:      "Reward tasks currently holding a worker slot",
	})

	TrackerCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tourguide",
		Subsystem: "tracker",
		Name:      "cycles_total",
		Help:      "Completed location tracking cycles",
	}, []string{"status"})

	LocationsTracked = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tourguide",
		Subsystem: "tracker",
		Name:      "locations_tracked_total",
		Help:      "Total visited locations recorded from the GPS provider",
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tourguide",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tourguide",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tourguide",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tourguide",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tourguide",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tourguide",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		// route pattern keeps user names out of the label set
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}

// PoolStat is the subset of pgxpool.Stat read by UpdateDBPoolMetrics.
type PoolStat interface {
	AcquiredConns() int32
	IdleConns() int32
	TotalConns() int32
}

// UpdateDBPoolMetrics copies pgx pool stats into the db gauges.
func UpdateDBPoolMetrics(s PoolStat) {
	DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
	DBPoolConnsIdle.Set(float64(s.IdleConns()))
	DBPoolConnsOpen.Set(float64(s.TotalConns()))
}
