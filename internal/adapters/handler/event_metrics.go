package handler

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	WebSocketConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of change-event listeners",
		},
	)

	WebSocketUpgradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_upgrades_total",
			Help: "Total number of change-event listener upgrade attempts",
		},
		[]string{"status"},
	)
)

// RegisterEventMetrics registers the change-event listener metrics
func RegisterEventMetrics(reg prometheus.Registerer) {
	reg.MustRegister(WebSocketConnections)
	reg.MustRegister(WebSocketUpgradesTotal)
}
