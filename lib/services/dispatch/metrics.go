package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var dispatchedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "dispatch_jobs_enqueued_total",
		Help: "Total job messages enqueued by the fan-out dispatcher",
	},
)
