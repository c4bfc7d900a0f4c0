package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const namespace = "mapcluster"

// Cache tiers
const (
	TierL1 = "l1"
	TierL2 = "l2"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Cluster metrics
	ClusterCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "clusters",
		Name:      "cache_hits_total",
		Help:      "Cluster cache hits by tier",
	}, []string{"tier"})

	ClusterCacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "clusters",
		Name:      "cache_misses_total",
		Help:      "Cluster cache misses by tier",
	}, []string{"tier"})

	ClusterCoalescedRequests = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "clusters",
		Name:      "coalesced_requests_total",
		Help:      "Requests that shared an in-flight cluster computation",
	})

	ClusterInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "clusters",
		Name:      "invalidations_total",
		Help:      "Cluster cache invalidations by scope and origin",
	}, []string{"scope", "origin"})

	AggregationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "clusters",
		Name:      "aggregation_duration_seconds",
		Help:      "Duration of aggregator calls",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"bounded", "result"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsInUse = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "pool_conns_in_use",
		Help:      "Connections currently in use",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
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

		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()
		status := strconv.Itoa(c.Response().StatusCode())

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

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

// ObserveAggregation records an aggregator call.
func ObserveAggregation(bounded bool, err error, elapsed time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	AggregationDuration.WithLabelValues(strconv.FormatBool(bounded), result).Observe(elapsed.Seconds())
}

// UpdateDBPoolMetrics updates database pool gauges from database/sql stats.
func UpdateDBPoolMetrics(stats sql.DBStats) {
	DBPoolConnsOpen.Set(float64(stats.OpenConnections))
	DBPoolConnsInUse.Set(float64(stats.InUse))
	DBPoolConnsIdle.Set(float64(stats.Idle))
}
