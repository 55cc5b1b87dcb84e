// Package metrics provides Prometheus collectors for the timekeep server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the server exports.  A fresh instance owns a
// fresh registry, so tests can construct one per test without collisions.
type Metrics struct {
	registry *prometheus.Registry

	PunchesRecorded  prometheus.Counter
	SessionQueries   prometheus.Counter
	SessionQuerySecs prometheus.Histogram
	RegistryFailures prometheus.Counter
	HeartbeatsSeen   prometheus.Counter

	HTTPRequests *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PunchesRecorded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "timekeep",
			Name:      "punches_recorded_total",
			Help:      "Punch events accepted and written to the store.",
		}),
		SessionQueries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "timekeep",
			Name:      "session_queries_total",
			Help:      "Session aggregation requests served.",
		}),
		SessionQuerySecs: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "timekeep",
			Name:      "session_query_duration_seconds",
			Help:      "End-to-end latency of session aggregation, store round-trip included.",
			Buckets:   prometheus.DefBuckets,
		}),
		RegistryFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "timekeep",
			Name:      "registry_failures_total",
			Help:      "Device registry gateway calls that failed or timed out.",
		}),
		HeartbeatsSeen: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "timekeep",
			Name:      "heartbeats_total",
			Help:      "Device heartbeats received.",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timekeep",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
