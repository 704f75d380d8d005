package metrics

import (
	"time"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/IANDYI/pregnancy-tracker/internal/core/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Telemetry records service events as Prometheus metrics
type Telemetry struct {
	sweepsTotal        prometheus.Counter
	remindersTriggered prometheus.Counter
	notifications      *prometheus.CounterVec
	sweepDuration      prometheus.Histogram
	reportsGenerated   *prometheus.CounterVec
	recordWrites       *prometheus.CounterVec
}

// NewTelemetry registers the tracker metrics with reg
func NewTelemetry(reg prometheus.Registerer) *Telemetry {
	f := promauto.With(reg)
	return &Telemetry{
		sweepsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "reminder_sweeps_total",
			Help: "Total number of completed reminder sweeps",
		}),
		remindersTriggered: f.NewCounter(prometheus.CounterOpts{
			Name: "reminders_triggered_total",
			Help: "Total number of reminders marked as triggered",
		}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reminder_notifications_total",
			Help: "Reminder notification attempts by outcome",
		}, []string{"status"}),
		sweepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "reminder_sweep_duration_seconds",
			Help:    "Duration of reminder sweeps in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
		reportsGenerated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reports_generated_total",
			Help: "Report generation attempts by outcome",
		}, []string{"status"}),
		recordWrites: f.NewCounterVec(prometheus.CounterOpts{
			Name: "record_writes_total",
			Help: "Record store writes by key",
		}, []string{"key"}),
	}
}

func (t *Telemetry) SweepCompleted(d time.Duration, triggered int) {
	t.sweepsTotal.Inc()
	t.sweepDuration.Observe(d.Seconds())
	t.remindersTriggered.Add(float64(triggered))
}

func (t *Telemetry) NotificationResult(status string) {
	t.notifications.WithLabelValues(status).Inc()
}

func (t *Telemetry) ReportGenerated(status string) {
	t.reportsGenerated.WithLabelValues(status).Inc()
}

func (t *Telemetry) RecordWritten(key domain.RecordKey) {
	t.recordWrites.WithLabelValues(string(key)).Inc()
}

var _ ports.Telemetry = (*Telemetry)(nil)
