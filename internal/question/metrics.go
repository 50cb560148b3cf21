package question

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricNavigations = promauto.NewCounter(prometheus.CounterOpts{
	Name: "question_navigations_total",
	Help: "Questions that routed the presentation to another slide",
})
