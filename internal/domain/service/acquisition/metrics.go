package acquisition

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "acquisition_desk"

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	submissions        *prometheus.CounterVec
	allocationConflict prometheus.Counter
	allocationDuration prometheus.Histogram
	reviewAlerts       *prometheus.CounterVec
	reevaluations      *prometheus.CounterVec
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "submissions_total",
				Help:      "Accepted vehicle submissions.",
			},
			[]string{"source", "red_flag"},
		),
		allocationConflict: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "allocation_conflicts_total",
				Help:      "Stock numbers rejected by the unique constraint and retried.",
			},
		),
		allocationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "allocation_duration_seconds",
				Help:      "Time spent allocating and committing a stock number.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		reviewAlerts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "review_alerts_total",
				Help:      "Review alerts handed to the queue.",
			},
			[]string{"result"},
		),
		reevaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "reevaluations_total",
				Help:      "Stored evaluations recomputed under the current policy.",
			},
			[]string{"changed"},
		),
	}

	registerer.MustRegister(
		m.submissions,
		m.allocationConflict,
		m.allocationDuration,
		m.reviewAlerts,
		m.reevaluations,
	)

	return m
}

func (m *Metrics) submitted(source, redFlag string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(source, redFlag).Inc()
}

func (m *Metrics) conflict() {
	if m == nil {
		return
	}
	m.allocationConflict.Inc()
}

func (m *Metrics) allocated(seconds float64) {
	if m == nil {
		return
	}
	m.allocationDuration.Observe(seconds)
}

func (m *Metrics) reviewAlert(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.reviewAlerts.WithLabelValues("enqueued").Inc()
		return
	}
	m.reviewAlerts.WithLabelValues("failed").Inc()
}

func (m *Metrics) reevaluated(changed bool) {
	if m == nil {
		return
	}
	if changed {
		m.reevaluations.WithLabelValues("true").Inc()
		return
	}
	m.reevaluations.WithLabelValues("false").Inc()
}

func (m *Metrics) Submissions() *prometheus.CounterVec {
	return m.submissions
}

func (m *Metrics) AllocationConflicts() prometheus.Counter {
	return m.allocationConflict
}

func (m *Metrics) ReviewAlerts() *prometheus.CounterVec {
	return m.reviewAlerts
}
