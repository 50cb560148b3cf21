package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricListeners = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_listeners",
		Help: "Currently connected live listeners",
	})

	metricDroppedSends = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_dropped_sends_total",
		Help: "Broadcast deliveries dropped because a listener write failed",
	})
)
