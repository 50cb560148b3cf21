package narrator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricFallbacks = promauto.NewCounter(prometheus.CounterOpts{
	Name: "narrator_fallbacks_total",
	Help: "Narrations served with deterministic fallback text",
})
