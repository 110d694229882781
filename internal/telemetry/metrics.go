// Package telemetry owns the Prometheus collectors exported on /metrics.
package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"megawe/internal/database"
)

var (
	once     sync.Once
	poolOnce sync.Once

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "megawe_http_requests_total",
		Help: "HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "megawe_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "megawe_cache_lookups_total",
		Help: "Listing cache lookups by endpoint and result",
	}, []string{"endpoint", "result"})
	CacheInvalidations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "megawe_cache_invalidated_keys_total",
		Help: "Keys dropped by the jobs-updated webhook",
	})
	PageRenders = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "megawe_page_renders_total",
		Help: "Server-rendered pages by kind and status",
	}, []string{"kind", "status"})
)

func register() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequests,
			HTTPDuration,
			CacheLookups,
			CacheInvalidations,
			PageRenders,
		)
	})
}

// Handler exposes the default registry.
func Handler() http.Handler {
	register()
	return promhttp.Handler()
}

// ObserveCache records a cache hit or miss for endpoint.
func ObserveCache(endpoint string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(endpoint, result).Inc()
}

// RegisterPool exports occupancy of the database pool. Only the first pool
// registered is reported.
func RegisterPool(p database.StatsReporter) {
	if p == nil {
		return
	}
	poolOnce.Do(func() {
		gauge := func(name, help string, read func(database.PoolStats) int32) prometheus.Collector {
			return prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help}, func() float64 {
				return float64(read(p.Stats()))
			})
		}
		prometheus.MustRegister(
			gauge("megawe_db_pool_total_conns", "Open database connections", func(s database.PoolStats) int32 { return s.Total }),
			gauge("megawe_db_pool_idle_conns", "Idle database connections", func(s database.PoolStats) int32 { return s.Idle }),
			gauge("megawe_db_pool_acquired_conns", "Database connections in use", func(s database.PoolStats) int32 { return s.Acquired }),
			gauge("megawe_db_pool_max_conns", "Database pool capacity", func(s database.PoolStats) int32 { return s.Max }),
		)
	})
}
