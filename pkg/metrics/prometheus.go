package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes pipeline counters and gauges via Prometheus.
type Recorder struct {
	pairsFetched    *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	recordsAppended prometheus.Counter
	tradeCandidates prometheus.Gauge
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder scoped to reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		pairsFetched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arb_pairs_fetched_total",
				Help: "Total number of per-pair OHLC fetches by outcome",
			},
			[]string{"outcome"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arb_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		recordsAppended: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "arb_records_appended_total",
				Help: "Discrepancy records appended to the historical store",
			},
		),
		tradeCandidates: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "arb_trade_candidates",
				Help: "Trade candidates found by the most recent run",
			},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arb_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch records a per-pair fetch outcome ("success", "failure").
func (r *Recorder) RecordFetch(outcome string) {
	r.pairsFetched.WithLabelValues(outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordAppended records newly persisted discrepancy records.
func (r *Recorder) RecordAppended(n int) {
	r.recordsAppended.Add(float64(n))
}

// RecordCandidates records the candidate count of the latest run.
func (r *Recorder) RecordCandidates(n int) {
	r.tradeCandidates.Set(float64(n))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
