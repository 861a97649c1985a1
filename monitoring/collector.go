package monitoring

import (
	"github.com/priikone/crypto/cipher"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "crypto"
	subsystem = "cipher"
)

// Collector exports the usage counters of a cipher registry.
type Collector struct {
	reg *cipher.Registry

	registered *prometheus.Desc
	allocated  *prometheus.Desc
	live       *prometheus.Desc
	bytes      *prometheus.Desc
	failures   *prometheus.Desc
}

// A compile time check to ensure Collector implements the
// prometheus.Collector interface.
var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a collector reading from reg.
func NewCollector(reg *cipher.Registry) *Collector {
	name := func(n string) string {
		return prometheus.BuildFQName(namespace, subsystem, n)
	}

	return &Collector{
		reg: reg,
		registered: prometheus.NewDesc(
			name("registered"),
			"Number of registered cipher descriptors.",
			nil, nil,
		),
		allocated: prometheus.NewDesc(
			name("instances_allocated_total"),
			"Number of cipher instances created.",
			nil, nil,
		),
		live: prometheus.NewDesc(
			name("instances_live"),
			"Number of cipher instances not yet freed.",
			nil, nil,
		),
		bytes: prometheus.NewDesc(
			name("bytes_total"),
			"Number of bytes processed.",
			[]string{"direction"}, nil,
		),
		failures: prometheus.NewDesc(
			name("failures_total"),
			"Number of rejected key, iv, encrypt and decrypt "+
				"calls.",
			nil, nil,
		),
	}
}

// Describe sends the descriptors of every metric the collector exports.
//
// NOTE: This is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.registered
	ch <- c.allocated
	ch <- c.live
	ch <- c.bytes
	ch <- c.failures
}

// Collect reads the registry counters once and sends them as metrics.
//
// NOTE: This is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.reg.Stats()

	log.Tracef("Collecting cipher stats: %+v", s)

	ch <- prometheus.MustNewConstMetric(
		c.registered, prometheus.GaugeValue, float64(s.Registered),
	)
	ch <- prometheus.MustNewConstMetric(
		c.allocated, prometheus.CounterValue, float64(s.Allocated),
	)
	ch <- prometheus.MustNewConstMetric(
		c.live, prometheus.GaugeValue, float64(s.Live()),
	)
	ch <- prometheus.MustNewConstMetric(
		c.bytes, prometheus.CounterValue, float64(s.BytesEncrypted),
		"encrypt",
	)
	ch <- prometheus.MustNewConstMetric(
		c.bytes, prometheus.CounterValue, float64(s.BytesDecrypted),
		"decrypt",
	)
	ch <- prometheus.MustNewConstMetric(
		c.failures, prometheus.CounterValue, float64(s.Failures),
	)
}
