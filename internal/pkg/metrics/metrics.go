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
		Namespace: "waypost",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "waypost",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Planner metrics
	PlanRequests = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "waypost",
		Subsystem: "planner",
		Name:      "requests_total",
		Help:      "Total stop-planning requests",
	})

	PlanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "waypost",
		Subsystem: "planner",
		Name:      "duration_seconds",
		Help:      "End-to-end stop-planning latency",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	SourceFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "waypost",
		Subsystem: "planner",
		Name:      "source_fetch_duration_seconds",
		Help:      "Per-source candidate fetch latency",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"source"})

	SourceFetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "waypost",
		Subsystem: "planner",
		Name:      "source_fetch_errors_total",
		Help:      "Total recoverable stop-source failures",
	}, []string{"source"})

	StopsReturned = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "waypost",
		Subsystem: "planner",
		Name:      "stops_returned_total",
		Help:      "Total stops returned to callers, by provenance",
	}, []string{"provenance"})

	DedupDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "waypost",
		Subsystem: "planner",
		Name:      "dedup_dropped_total",
		Help:      "Total provider-origin candidates dropped as coordinate duplicates",
	})

	// Places provider metrics
	PlacesLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "waypost",
		Subsystem: "places",
		Name:      "lookups_total",
		Help:      "Total live places provider lookups",
	}, []string{"outcome"})

	// Cache metrics
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "waypost",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "waypost",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "waypost",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "waypost",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "waypost",
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
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// poolStat matches the pgxpool.Stat accessors we care about, so this
// package stays free of a pgx import.
type poolStat interface {
	AcquiredConns() int32
	IdleConns() int32
	TotalConns() int32
}

// UpdateDBPoolMetrics refreshes pool gauges from pgx pool stats.
func UpdateDBPoolMetrics(stat interface{}) {
	if s, ok := stat.(poolStat); ok {
		DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
		DBPoolConnsIdle.Set(float64(s.IdleConns()))
		DBPoolConnsOpen.Set(float64(s.TotalConns()))
	}
}
