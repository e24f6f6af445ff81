// Package metrics serves the Prometheus metrics recorded by pagelist. The
// metrics themselves are defined next to the code that records them
// (pkg/loader) to avoid import cycles.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves the default registry in the Prometheus text format. The
// metrics are registered there through promauto by the packages that
// record them.
func Handler() http.Handler {
	return promhttp.Handler()
}

// NewMux returns a mux with /metrics and /health.
func NewMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return mux
}

// Metrics Documentation
//
// Load Metrics (pkg/loader):
//   - pagelist_loads_total{outcome} (Counter): Loads by outcome (ok, error)
//   - pagelist_load_duration_seconds (Histogram): Load duration
//   - pagelist_load_errors_total{class} (Counter): Errors by class (status, network, decode, canceled)
//   - pagelist_items_loaded (Gauge): Items returned by the last successful load
//
// Example Prometheus Queries:
//
//   # Load Error Rate
//   rate(pagelist_load_errors_total[5m])
//
//   # P95 Load Latency
//   histogram_quantile(0.95, rate(pagelist_load_duration_seconds_bucket[5m]))
