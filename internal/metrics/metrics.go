package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics aggregates the service's Prometheus collectors. A nil *Metrics is
// safe to call, which keeps tests free of registry bookkeeping.
type Metrics struct {
	formParses    *prometheus.CounterVec
	submissions   *prometheus.CounterVec
	batchDuration prometheus.Histogram
}

// New registers the collectors on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the collectors on the given registerer.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		formParses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "formrush_form_parses_total",
			Help: "Form parse attempts by outcome.",
		}, []string{"outcome"}),
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "formrush_submissions_total",
			Help: "Response submissions by outcome.",
		}, []string{"outcome"}),
		batchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "formrush_fill_batch_duration_seconds",
			Help:    "Wall time of completed fill batches.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
}

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeFailed   = "failed"
	OutcomeSignIn   = "sign_in_required"
	OutcomeNoForm   = "no_form_data"
	OutcomeRejected = "rejected"
)

func (m *Metrics) FormParse(outcome string) {
	if m == nil {
		return
	}
	m.formParses.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Submission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) BatchCompleted(d time.Duration) {
	if m == nil {
		return
	}
	m.batchDuration.Observe(d.Seconds())
}
