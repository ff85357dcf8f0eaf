// Package telemetry exposes the household meter and appliance outputs as
// Prometheus metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hemsim/hemsim/sim"
)

// Source is what the collector reads on scrape. *sim.Simulator and the
// real-time runner implement it.
type Source interface {
	Meter() *sim.Meter
	Models() []sim.Model
}

// Collector reads the meter and every model's exported value on scrape.
type Collector struct {
	source Source

	consumption *prometheus.Desc
	production  *prometheus.Desc
	consumedWh  *prometheus.Desc
	producedWh  *prometheus.Desc
	output      *prometheus.Desc
}

// NewCollector creates a collector over source.
func NewCollector(source Source) *Collector {
	return &Collector{
		source: source,
		consumption: prometheus.NewDesc("hemsim_meter_consumption_amperes",
			"Current drawn by all consumers, in amperes.", nil, nil),
		production: prometheus.NewDesc("hemsim_meter_production_watts",
			"Power produced by all producers, in watts.", nil, nil),
		consumedWh: prometheus.NewDesc("hemsim_meter_consumed_watt_hours",
			"Energy consumed since the start of the run, as of the last meter sample.", nil, nil),
		producedWh: prometheus.NewDesc("hemsim_meter_produced_watt_hours",
			"Energy produced since the start of the run, as of the last meter sample.", nil, nil),
		output: prometheus.NewDesc("hemsim_model_output",
			"Exported value of a model: amperes for consumers, watts otherwise.", []string{"model", "kind"}, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.consumption
	ch <- c.production
	ch <- c.consumedWh
	ch <- c.producedWh
	ch <- c.output
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	meter := c.source.Meter()
	snap := meter.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.consumption, prometheus.GaugeValue, meter.CurrentConsumption())
	ch <- prometheus.MustNewConstMetric(c.production, prometheus.GaugeValue, meter.CurrentProduction())
	ch <- prometheus.MustNewConstMetric(c.consumedWh, prometheus.CounterValue, snap.ConsumedWh)
	ch <- prometheus.MustNewConstMetric(c.producedWh, prometheus.CounterValue, snap.ProducedWh)
	for _, m := range c.source.Models() {
		ch <- prometheus.MustNewConstMetric(c.output, prometheus.GaugeValue, m.Read().Value, m.ID(), m.Domain())
	}
}
