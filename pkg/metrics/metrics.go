// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "listaai",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "listaai",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "listaai",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// GatewayRequests counts calls to the payment gateway by operation and outcome.
	GatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "listaai",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Payment gateway calls.",
		},
		[]string{"operation", "outcome"}, // "create" | "get"; "ok" | "error"
	)

	PaymentStatus = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "listaai",
			Subsystem: "payments",
			Name:      "status_total",
			Help:      "Payment statuses observed on verification.",
		},
		[]string{"status"},
	)

	CheckoutTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "listaai",
			Subsystem: "checkout",
			Name:      "transitions_total",
			Help:      "Checkout state transitions.",
		},
		[]string{"kind", "to"},
	)

	IdempotencyHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "listaai",
			Subsystem: "idempotency",
			Name:      "hits_total",
			Help:      "Charges answered from the idempotency store.",
		},
		[]string{"driver"}, // "redis" | "memory"
	)
)

var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	Registry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		GatewayRequests,
		PaymentStatus,
		CheckoutTransitions,
		IdempotencyHits,
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
