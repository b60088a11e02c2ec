// Package metrics exports run totals in the Prometheus text exposition
// format, for pickup by a node exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sikraken/runreport/internal/result"
)

// NewRegistry returns a registry holding the gauges for one report.
func NewRegistry(rep *result.AggregateReport) (*prometheus.Registry, error) {
	labels := prometheus.Labels{
		"category": rep.Metadata.Category,
		"run_id":   rep.RunID,
	}
	gauges := []struct {
		name, help string
		value      float64
	}{
		{"runreport_benchmarks_total", "Benchmarks listed in the run manifest.", float64(rep.BenchmarkCount)},
		{"runreport_benchmarks_reported", "Benchmarks with an artifact directory.", float64(len(rep.Rows))},
		{"runreport_tests_generated_total", "Tests generated across all benchmarks.", float64(rep.TotalTestCount)},
		{"runreport_total_score", "Sum of the applicable coverage percentages divided by 100.", rep.TotalScore},
		{"runreport_flagged_benchmarks", "Benchmarks for which no tests were generated.", float64(rep.Flagged())},
	}

	reg := prometheus.NewRegistry()
	for _, g := range gauges {
		gauge := prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        g.name,
			Help:        g.help,
			ConstLabels: labels,
		})
		gauge.Set(g.value)
		if err := reg.Register(gauge); err != nil {
			return nil, fmt.Errorf("registering %s: %w", g.name, err)
		}
	}
	return reg, nil
}

// WriteTextfile writes the report gauges to path.
func WriteTextfile(path string, rep *result.AggregateReport) error {
	reg, err := NewRegistry(rep)
	if err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
