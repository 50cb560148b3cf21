package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_requests_total",
		Help: "Total generation requests sent to the model",
	})

	metricErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_errors_total",
		Help: "Total generation requests that failed at the transport/model boundary",
	})

	metricEmptyResponses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_empty_responses_total",
		Help: "Total turns with no text (blocked or blank candidates)",
	})

	metricToolCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_tool_calls_total",
		Help: "Total tool calls surfaced by the model",
	})

	metricLatencyMS = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gateway_latency_ms",
		Help:    "Latency of a single GenerateContent round trip",
		Buckets: prometheus.ExponentialBuckets(50, 1.6, 10),
	})
)
