package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes.
const (
	RunSuccess = "success"
	RunFailed  = "failed"
)

// Email outcomes.
const (
	EmailSent    = "sent"
	EmailFailed  = "failed"
	EmailSkipped = "skipped"
)

// Metrics holds Prometheus metrics for the reminder job.
type Metrics struct {
	// RunsTotal counts job runs by outcome.
	RunsTotal *prometheus.CounterVec

	// EmailsTotal counts digest emails by outcome.
	EmailsTotal *prometheus.CounterVec

	// RunDuration is the wall time of one job run.
	RunDuration prometheus.Histogram
}

// New creates the reminder metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RunsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reminder_runs_total",
				Help: "Total number of reminder job runs",
			},
			[]string{"status"},
		),

		EmailsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reminder_emails_total",
				Help: "Total number of reminder digests by outcome",
			},
			[]string{"status"},
		),

		RunDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "reminder_run_duration_seconds",
				Help:    "Time to complete one reminder job run",
				Buckets: []float64{.1, .5, 1, 5, 15, 60, 300},
			},
		),
	}
}

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(d.Seconds())
}

// IncEmail increments the email counter for a given outcome.
func (m *Metrics) IncEmail(status string) {
	if m == nil {
		return
	}
	m.EmailsTotal.WithLabelValues(status).Inc()
}
