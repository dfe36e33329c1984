// Package metrics exposes Prometheus counters for analysis runs. Batch runs export
// them to a node_exporter textfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mizan"

// Metrics holds the collectors of one registry. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	analyses        *prometheus.CounterVec
	analysisSeconds prometheus.Histogram
	violations      *prometheus.CounterVec
	reconciliations *prometheus.CounterVec
	scores          *prometheus.HistogramVec
	missingSignals  *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Analyses run, by outcome.",
		}, []string{"outcome"}),
		analysisSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent on one client/period analysis.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1},
		}),
		violations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "violations_total",
			Help:      "Balance violations found, by kind and severity.",
		}, []string{"kind", "severity"}),
		reconciliations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "results_total",
			Help:      "Reconciliation results, by check and status.",
		}, []string{"check", "status"}),
		scores: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "score",
			Help:      "Risk scores, by domain.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}, []string{"domain"}),
		missingSignals: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "missing_signals_total",
			Help:      "Signals with no data at scoring time, by domain.",
		}, []string{"domain"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Report cache lookups, by result.",
		}, []string{"result"}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordAnalysis counts one analysis and its duration.
func (m *Metrics) RecordAnalysis(d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	m.analyses.WithLabelValues(outcome).Inc()
	m.analysisSeconds.Observe(d.Seconds())
}

// RecordViolation counts one balance violation.
func (m *Metrics) RecordViolation(kind, severity string) {
	if m == nil {
		return
	}
	m.violations.WithLabelValues(kind, severity).Inc()
}

// RecordReconciliation counts one reconciliation result.
func (m *Metrics) RecordReconciliation(check, status string) {
	if m == nil {
		return
	}
	m.reconciliations.WithLabelValues(check, status).Inc()
}

// RecordScore observes a domain score and its missing signals.
func (m *Metrics) RecordScore(domain string, score, missing int) {
	if m == nil {
		return
	}
	m.scores.WithLabelValues(domain).Observe(float64(score))
	m.missingSignals.WithLabelValues(domain).Add(float64(missing))
}

// RecordCacheLookup counts a cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// WriteTextfile writes every metric in the text exposition format, atomically
// replacing path.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
