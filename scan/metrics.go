package scan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the scan engine's Prometheus instrumentation. A nil
// *Metrics is valid everywhere it is used (Scanner checks before every
// call), so instrumentation is opt-in.
type Metrics struct {
	splitsEvaluated prometheus.Counter
	splitsPruned    prometheus.Counter
	rowsScanned     prometheus.Counter
	rowsEmitted     prometheus.Counter
	splitDuration   prometheus.Histogram
}

// NewMetrics registers the scan engine's metrics against reg and returns
// the handle used to record them.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		splitsEvaluated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "vtx",
			Subsystem: "scan",
			Name:      "splits_evaluated_total",
			Help:      "Total number of row-range splits evaluated by the scan engine.",
		}),
		splitsPruned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "vtx",
			Subsystem: "scan",
			Name:      "splits_pruned_total",
			Help:      "Total number of splits skipped entirely via zone-map pruning.",
		}),
		rowsScanned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "vtx",
			Subsystem: "scan",
			Name:      "rows_scanned_total",
			Help:      "Total number of rows read from splits that were not pruned.",
		}),
		rowsEmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "vtx",
			Subsystem: "scan",
			Name:      "rows_emitted_total",
			Help:      "Total number of rows surviving filter evaluation and emitted downstream.",
		}),
		splitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vtx",
			Subsystem: "scan",
			Name:      "split_duration_seconds",
			Help:      "Wall-clock time spent evaluating one split: prune, filter, and project.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
