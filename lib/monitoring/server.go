// Package monitoring exposes the process's Prometheus metrics.
// Individual packages register their own collectors; this only serves them.
package monitoring

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"profileupdater/lib/utils/logging"
)

var logger = logging.NewLogger("MONITORING")

// ServeMetrics starts the /metrics endpoint on the given port. A blank port
// means metrics export is disabled for this app.
func ServeMetrics(port string) {
	if port == "" {
		return
	}

	metricsPort, err := strconv.Atoi(port)
	if err != nil {
		logger.Warn("INVALID_METRICS_PORT", err, map[string]any{
			logging.PORT: port,
		})
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		addr := fmt.Sprintf(":%d", metricsPort)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Fatal("PROMETHEUS_SERVER_ERROR", err, nil)
		}
	}()

	logger.Info("METRICS_SERVER_STARTED", map[string]any{
		logging.PORT: metricsPort,
	})
}
