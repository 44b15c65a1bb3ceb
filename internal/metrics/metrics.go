// Package metrics exports run statistics in Prometheus text format, for
// node_exporter's textfile collector or any other scraper of .prom files.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/aul2madb/internal/archive"
)

const namespace = "aul2madb"

// Registry builds a private registry holding one gauge per run statistic.
func Registry(stats archive.Stats, format string) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	gauge := func(name, help string, v int) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        name,
			Help:        help,
			ConstLabels: prometheus.Labels{"format": format},
		})
		g.Set(float64(v))
		reg.MustRegister(g)
	}

	gauge("files_parsed", "Trace files parsed.", stats.FilesParsed)
	gauge("files_skipped", "Trace files that disappeared before they could be parsed.", stats.FilesSkipped)
	gauge("raw_entries", "Raw entries found in parsed trace files.", stats.RawEntries)
	gauge("entries_resolved", "Entries written to the output.", stats.Resolved)
	gauge("entries_deferred", "Entries deferred until reconciliation.", stats.Deferred)
	gauge("entries_recovered", "Deferred entries resolved during reconciliation.", stats.Recovered)
	gauge("entries_dropped", "Deferred entries that could not be resolved.", stats.Dropped)
	gauge("batches_written", "Batches handed to the output.", stats.Batches)
	gauge("oversize_records", "Oversize records held at the end of the run.", stats.Oversize)

	return reg
}

// WriteTextfile writes the statistics to path.
func WriteTextfile(path string, stats archive.Stats, format string) error {
	if err := prometheus.WriteToTextfile(path, Registry(stats, format)); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
