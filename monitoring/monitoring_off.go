//go:build !monitoring

package monitoring

import (
	"fmt"

	"github.com/priikone/crypto/cryptocfg"
	"github.com/prometheus/client_golang/prometheus"
)

// ExportPrometheusMetrics is required for the binary to compile so that
// Prometheus metric exporting can be hidden behind a build tag.
func ExportPrometheusMetrics(_ prometheus.Gatherer,
	_ cryptocfg.Prometheus) error {

	return fmt.Errorf("ciphertool must be built with the monitoring " +
		"tag to enable exporting Prometheus metrics")
}
