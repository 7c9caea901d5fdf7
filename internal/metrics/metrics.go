// Package metrics keeps per-run row counters and writes them in the node-exporter
// textfile format, which is how a batch job that exits immediately exposes metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"pcprep/internal"
)

type Metrics struct {
	registry *prometheus.Registry

	RowsRead     *prometheus.CounterVec
	RowsAccepted *prometheus.CounterVec
	RowsRejected *prometheus.CounterVec
	LastDuration *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pcprep_rows_read_total",
			Help: "Data rows read below the located header",
		}, []string{"variant"}),
		RowsAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pcprep_rows_accepted_total",
			Help: "Rows written to the output file",
		}, []string{"variant"}),
		RowsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pcprep_rows_rejected_total",
			Help: "Rows skipped, by reason",
		}, []string{"variant", "reason"}),
		LastDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pcprep_last_run_duration_seconds",
			Help: "Wall time of the most recent run",
		}, []string{"variant"}),
	}
	m.registry.MustRegister(m.RowsRead, m.RowsAccepted, m.RowsRejected, m.LastDuration)
	return m
}

func (m *Metrics) Observe(variant string, stats internal.RunStats, elapsed time.Duration) {
	m.RowsRead.WithLabelValues(variant).Add(float64(stats.Read))
	m.RowsAccepted.WithLabelValues(variant).Add(float64(stats.Accepted))
	for reason, n := range stats.Rejected {
		m.RowsRejected.WithLabelValues(variant, string(reason)).Add(float64(n))
	}
	m.LastDuration.WithLabelValues(variant).Set(elapsed.Seconds())
}

// WriteTextfile replaces path atomically with the current metric values.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
