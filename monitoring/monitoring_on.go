//go:build monitoring

package monitoring

import (
	"net/http"
	"sync"

	"github.com/priikone/crypto/cryptocfg"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var started sync.Once

// ExportPrometheusMetrics launches the Prometheus exporter for gatherer on
// the configured address. Only the first call has any effect.
func ExportPrometheusMetrics(gatherer prometheus.Gatherer,
	cfg cryptocfg.Prometheus) error {

	started.Do(func() {
		log.Infof("Prometheus exporter started on %v/metrics",
			cfg.Listen)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(
			gatherer, promhttp.HandlerOpts{},
		))
		go func() {
			err := http.ListenAndServe(cfg.Listen, mux)
			if err != nil {
				log.Errorf("Prometheus exporter stopped: %v",
					err)
			}
		}()
	})

	return nil
}
