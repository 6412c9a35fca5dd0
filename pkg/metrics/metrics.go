// Package metrics exposes Prometheus collectors for report building.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MetricsNamespace = "suite_reporter"
)

// Metrics holds the collectors of one reporter.
type Metrics struct {
	eventsTotal       *prometheus.CounterVec
	testsTotal        *prometheus.CounterVec
	openScopes        prometheus.Gauge
	propagationsTotal prometheus.Counter
}

// New registers the collectors on reg. A nil reg leaves them unregistered,
// which is what tests and one-shot renders want.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		eventsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "events_total",
			Help:      "Count of processed lifecycle events",
		}, []string{
			"kind",
		}),
		testsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "tests_total",
			Help:      "Count of finished tests by outcome",
		}, []string{
			"outcome",
		}),
		openScopes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "open_scopes",
			Help:      "Number of open scopes including the root",
		}),
		propagationsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "propagations_total",
			Help:      "Count of failing tests that marked their open scopes",
		}),
	}
}

// RecordEvent counts an event of the given kind.
func (m *Metrics) RecordEvent(kind string) {
	m.eventsTotal.WithLabelValues(kind).Inc()
}

// RecordTest counts a finished test.
func (m *Metrics) RecordTest(outcome string) {
	m.testsTotal.WithLabelValues(outcome).Inc()
}

// SetOpenScopes records the current scope depth.
func (m *Metrics) SetOpenScopes(depth int) {
	m.openScopes.Set(float64(depth))
}

// RecordPropagation counts a failure propagated to open scopes.
func (m *Metrics) RecordPropagation() {
	m.propagationsTotal.Inc()
}
