package main

import (
	"github.com/jessevdk/go-flags"
	"github.com/priikone/crypto/monitoring"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"
)

type metricsCommand struct {
	app *app

	Runtime bool `long:"runtime" description:"Include Go runtime and process metrics"`
	Serve   bool `long:"serve" description:"Serve the metrics on prometheus.listen until interrupted instead of printing them"`
}

func newMetricsCommand(a *app) *metricsCommand {
	return &metricsCommand{app: a}
}

func (x *metricsCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"metrics",
		"Print or serve the cipher metrics",
		"Write the cipher registry metrics in the Prometheus text "+
			"format, or serve them over HTTP with --serve",
		x,
	)
	return err
}

func (x *metricsCommand) Execute(_ []string) error {
	if err := x.app.setup(); err != nil {
		return err
	}

	if x.Runtime {
		err := x.app.metrics.Register(collectors.NewGoCollector())
		if err != nil {
			return err
		}
		err = x.app.metrics.Register(collectors.NewProcessCollector(
			collectors.ProcessCollectorOpts{},
		))
		if err != nil {
			return err
		}
	}

	if x.Serve {
		err := monitoring.ExportPrometheusMetrics(
			x.app.metrics, *x.app.cfg.Prometheus,
		)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		log.Infof("Serving metrics on %v, interrupt to stop",
			x.app.cfg.Prometheus.Listen)
		<-ctx.Done()

		return nil
	}

	families, err := x.app.metrics.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		_, err := expfmt.MetricFamilyToText(x.app.stdout, mf)
		if err != nil {
			return err
		}
	}

	return nil
}
