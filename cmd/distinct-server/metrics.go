package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the server. A private
// registry keeps the scrape surface limited to what the server registers
// explicitly plus the standard Go runtime collectors.
type Metrics struct {
	registry *prometheus.Registry

	ConnectionsTotal  prometheus.Counter
	ConnectionsActive prometheus.Gauge
	CommandsTotal     *prometheus.CounterVec
	ItemsInserted     prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "distinct",
			Name:      "connections_total",
			Help:      "Total client connections accepted.",
		}),
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "distinct",
			Name:      "connections_active",
			Help:      "Client connections currently open.",
		}),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "distinct",
			Name:      "commands_total",
			Help:      "Commands dispatched, by command name.",
		}, []string{"command"}),
		ItemsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "distinct",
			Name:      "items_inserted_total",
			Help:      "Items inserted across all sketches.",
		}),
	}

	m.registry.MustRegister(
		m.ConnectionsTotal,
		m.ConnectionsActive,
		m.CommandsTotal,
		m.ItemsInserted,
	)

	return m
}
