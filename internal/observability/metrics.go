package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	remoteRequestsTotal   *prometheus.CounterVec
	remoteLatencySeconds  *prometheus.HistogramVec
	proxyRequestsTotal    *prometheus.CounterVec
	gardenAutosavesTotal  *prometheus.CounterVec
	optimisticRollbacks   *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the sync engine.
func RegisterMetrics() {
	registerOnce.Do(func() {
		remoteRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edge_remote_requests_total",
			Help: "Total number of remote RPC calls issued.",
		}, []string{"method", "resource", "outcome"})

		remoteLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "edge_remote_latency_seconds",
			Help:    "Latency distribution for remote RPC calls.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"method", "resource"})

		proxyRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edge_proxy_requests_total",
			Help: "Total number of requests forwarded to the backend deployment.",
		}, []string{"status"})

		gardenAutosavesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edge_garden_autosaves_total",
			Help: "Total number of garden autosave flushes.",
		}, []string{"outcome"})

		optimisticRollbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edge_optimistic_rollbacks_total",
			Help: "Total number of optimistic mutations rolled back after a failed call.",
		}, []string{"operation"})

		prometheus.MustRegister(
			remoteRequestsTotal,
			remoteLatencySeconds,
			proxyRequestsTotal,
			gardenAutosavesTotal,
			optimisticRollbacks,
		)
	})
}

// RemoteRequests exposes the counter for remote RPC calls.
func RemoteRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return remoteRequestsTotal
}

// RemoteLatency exposes the latency histogram for remote RPC calls.
func RemoteLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return remoteLatencySeconds
}

// ProxyRequests exposes the counter for forwarded proxy requests.
func ProxyRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return proxyRequestsTotal
}

// GardenAutosaves exposes the counter for garden autosave flushes.
func GardenAutosaves() *prometheus.CounterVec {
	RegisterMetrics()
	return gardenAutosavesTotal
}

// OptimisticRollbacks exposes the counter for rolled-back mutations.
func OptimisticRollbacks() *prometheus.CounterVec {
	RegisterMetrics()
	return optimisticRollbacks
}
