package profile

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var updateStatus = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "profile_update_status",
		Help: "Profile update jobs by outcome",
	},
	[]string{"status"},
)

var updateDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "profile_update_duration_seconds",
		Help:    "End-to-end job duration including the settling delay",
		Buckets: []float64{10, 15, 20, 25, 30, 45, 60, 90, 120},
	},
	[]string{"status"},
)
