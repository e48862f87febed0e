package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics holds all Prometheus collectors for the verification engine.
var Metrics = struct {
	SubmissionsTotal   *prometheus.CounterVec
	SettlementsTotal   *prometheus.CounterVec
	PointsCreditedTotal prometheus.Counter
	RequestDuration    *prometheus.HistogramVec
	DBPoolActive       prometheus.GaugeFunc
	DBPoolIdle         prometheus.GaugeFunc
	RequestsInFlight   prometheus.Gauge
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	HeatmapBuildDuration prometheus.Histogram
}{}

// InitMetrics registers all Prometheus metrics. Call once at startup.
func InitMetrics(pool *pgxpool.Pool) {
	Metrics.SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "untrash_submissions_total",
			Help: "Total submissions received, by kind (report, collection, area).",
		},
		[]string{"kind"},
	)

	Metrics.SettlementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "untrash_settlements_total",
			Help: "Total moderation decisions, by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	Metrics.PointsCreditedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "untrash_points_credited_total",
			Help: "Total points credited to user ledgers.",
		},
	)

	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "untrash_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "untrash_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	Metrics.CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "untrash_cache_hits_total",
			Help: "Total Redis cache hits.",
		},
	)

	Metrics.CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "untrash_cache_misses_total",
			Help: "Total Redis cache misses.",
		},
	)

	Metrics.HeatmapBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "untrash_heatmap_build_duration_seconds",
			Help:    "Duration of heatmap snapshot rebuilds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// DB pool gauges — read live stats from pgxpool
	if pool != nil {
		Metrics.DBPoolActive = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "untrash_db_connection_pool_active",
				Help: "Number of active database connections.",
			},
			func() float64 {
				return float64(pool.Stat().AcquiredConns())
			},
		)

		Metrics.DBPoolIdle = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "untrash_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			},
			func() float64 {
				return float64(pool.Stat().IdleConns())
			},
		)

		prometheus.MustRegister(Metrics.DBPoolActive)
		prometheus.MustRegister(Metrics.DBPoolIdle)
	}

	prometheus.MustRegister(
		Metrics.SubmissionsTotal,
		Metrics.SettlementsTotal,
		Metrics.PointsCreditedTotal,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.CacheHits,
		Metrics.CacheMisses,
		Metrics.HeatmapBuildDuration,
	)
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next() — Fiber
		// returns slices backed by the fasthttp buffer which can be reused
		// or overwritten by handlers (especially fasthttpadaptor).
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// sanitizeEndpoint normalizes paths to avoid cardinality explosion.
func sanitizeEndpoint(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/trash/"):
		if strings.HasSuffix(path, "/collect") {
			return "/api/trash/:reportId/collect"
		}
		return "/api/trash/:reportId"
	case strings.HasPrefix(path, "/api/areas/"):
		return "/api/areas/:areaId"
	case strings.HasPrefix(path, "/api/users/"):
		return "/api/users/:userId"
	case strings.HasPrefix(path, "/api/groups/"):
		return "/api/groups/:groupId"
	case strings.HasPrefix(path, "/api/admin/collections/"):
		return "/api/admin/collections/:reportId"
	case strings.HasPrefix(path, "/api/admin/areas/"):
		return "/api/admin/areas/:areaId"
	case strings.HasPrefix(path, "/api/admin/trash/"):
		return "/api/admin/trash/:reportId"
	case strings.HasPrefix(path, "/api/admin/users/"):
		return "/api/admin/users/:userId"
	default:
		return path
	}
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
