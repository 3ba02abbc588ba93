package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"teachtime/internal/models"
)

// Metrics holds Prometheus metrics for the reminder system.
type Metrics struct {
	// RemindersSentTotal counts dispatch attempts by channel and outcome.
	RemindersSentTotal *prometheus.CounterVec

	// DueUsers is the number of users matched by the last run.
	DueUsers prometheus.Gauge

	// SendDuration is the time of one provider call.
	SendDuration *prometheus.HistogramVec

	// RunDuration is the wall time of one batch run.
	RunDuration prometheus.Histogram
}

// NewMetrics creates and registers Prometheus metrics for reminders.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		RemindersSentTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reminders_sent_total",
				Help:      "Total number of reminder dispatch attempts",
			},
			[]string{"channel", "status"},
		),

		DueUsers: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "reminders_due_users",
				Help:      "Users matched by the last scheduled run",
			},
		),

		SendDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "reminder_send_duration_seconds",
				Help:      "Time of one provider call",
				Buckets:   []float64{.01, .05, .1, .5, 1, 2, 5},
			},
			[]string{"channel"},
		),

		RunDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "reminder_run_duration_seconds",
				Help:      "Wall time of one batch run",
				Buckets:   []float64{.1, .5, 1, 5, 15, 60},
			},
		),
	}
}

// IncSent increments the attempt counter for a channel and outcome.
func (m *Metrics) IncSent(ch models.Channel, status string) {
	m.RemindersSentTotal.WithLabelValues(string(ch), status).Inc()
}

// SetDueUsers records how many users the last run matched.
func (m *Metrics) SetDueUsers(n int) {
	m.DueUsers.Set(float64(n))
}

// ObserveSendDuration records the time of one provider call.
func (m *Metrics) ObserveSendDuration(ch models.Channel, seconds float64) {
	m.SendDuration.WithLabelValues(string(ch)).Observe(seconds)
}

// ObserveRunDuration records the wall time of one batch run.
func (m *Metrics) ObserveRunDuration(seconds float64) {
	m.RunDuration.Observe(seconds)
}
