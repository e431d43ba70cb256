package processing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var workerCount = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "queue_worker_count",
		Help: "Current number of active workers per queue topic",
	},
	[]string{"queue_name"},
)

var queueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "queue_depth",
		Help: "Current queue depth (number of messages)",
	},
	[]string{"queue_name"},
)
