/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package telemetry holds Prometheus collectors and OpenTelemetry tracing for
// the programming service.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// APIRequestsTotal counts HTTP requests by method, endpoint and status.
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pins_api_requests_total",
		Help: "Total HTTP API requests.",
	}, []string{"method", "endpoint", "status"})

	// APIRequestDuration observes HTTP request latency.
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pins_api_request_duration_seconds",
		Help:    "HTTP API request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	// APIActiveConnections gauges in-flight HTTP requests.
	APIActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pins_api_active_connections",
		Help: "Number of in-flight HTTP API requests.",
	})

	// AllocationRunsTotal counts allocation engine invocations by outcome.
	AllocationRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pins_allocation_runs_total",
		Help: "Total allocation engine runs.",
	}, []string{"outcome"})

	// AllocationErrorsTotal counts allocation failures by reason.
	AllocationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pins_allocation_errors_total",
		Help: "Allocation engine failures by reason.",
	}, []string{"reason"})

	// AllocationDuration observes how long a full allocation run takes.
	AllocationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pins_allocation_duration_seconds",
		Help:    "Allocation engine run duration in seconds.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	})

	// AllocationEventsTotal counts calendar events produced by the engine.
	AllocationEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pins_allocation_events_total",
		Help: "Calendar events generated by allocation runs.",
	})
)

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
