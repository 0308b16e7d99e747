// Package metrics holds the Prometheus collectors of the dispatch engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dispatch"

// Command outcomes used as the "outcome" label.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

type Metrics struct {
	HTTPInFlight        prometheus.Gauge
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	CommandsTotal *prometheus.CounterVec

	OutboxRelayedTotal prometheus.Counter
	OutboxFailedTotal  prometheus.Counter

	MarketplaceOpenSlots  *prometheus.GaugeVec
	MarketplaceOpenOrders prometheus.Gauge

	WebsocketClients prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests processed.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),

		CommandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "commands",
			Name:      "handled_total",
			Help:      "Commands handled, by command and outcome.",
		}, []string{"command", "outcome"}),

		OutboxRelayedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "relayed_total",
			Help:      "Events delivered to the broker and marked published.",
		}),
		OutboxFailedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "failed_runs_total",
			Help:      "Relay runs that stopped on an error.",
		}),

		MarketplaceOpenSlots: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "marketplace",
			Name:      "open_slots",
			Help:      "Unfilled marketplace units by asset type.",
		}, []string{"asset_type"}),
		MarketplaceOpenOrders: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "marketplace",
			Name:      "open_orders",
			Help:      "Orders with at least one open marketplace slot.",
		}),

		WebsocketClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "clients",
			Help:      "Connected websocket clients.",
		}),
	}
}
