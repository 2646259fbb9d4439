package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	reloads  prometheus.Counter
}

// newMetrics registers on a private registry so that several servers can
// live in one process.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "schemareg_http_requests_total",
				Help: "Total number of catalog requests",
			},
			[]string{"route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "schemareg_http_request_duration_seconds",
				Help:    "Duration of catalog requests in seconds",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"route"},
		),
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schemareg_registry_reloads_total",
			Help: "Number of times the served registry was replaced",
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.reloads,
		collectors.NewGoCollector(),
	)
	return m
}
