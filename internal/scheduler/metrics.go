package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Notification outcomes recorded per due reminder.
const (
	resultSent       = "sent"
	resultFailed     = "failed"
	resultSuppressed = "suppressed"
	resultStale      = "stale"
)

// Metrics exposes Prometheus collectors that report reminder polling activity.
// A nil *Metrics records nothing.
type Metrics struct {
	passes           prometheus.Counter
	due              prometheus.Counter
	notifications    *prometheus.CounterVec
	markSentFailures prometheus.Counter
	snapshotFailures prometheus.Counter
	woken            prometheus.Counter
}

// MustNewMetrics constructs a Metrics instance registered with reg. Tests
// should pass a fresh registry; registration errors panic like promauto.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		passes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dayplan",
			Subsystem: "reminders",
			Name:      "passes_total",
			Help:      "Number of due-check passes run.",
		}),
		due: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dayplan",
			Subsystem: "reminders",
			Name:      "due_total",
			Help:      "Number of due reminders detected across passes.",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dayplan",
			Subsystem: "reminders",
			Name:      "notifications_total",
			Help:      "Due reminders by notification outcome.",
		}, []string{"result"}),
		markSentFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dayplan",
			Subsystem: "reminders",
			Name:      "mark_sent_failures_total",
			Help:      "Status updates to sent that failed and will be retried next pass.",
		}),
		snapshotFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dayplan",
			Subsystem: "reminders",
			Name:      "snapshot_failures_total",
			Help:      "Passes that could not load reminders.",
		}),
		woken: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dayplan",
			Subsystem: "reminders",
			Name:      "woken_total",
			Help:      "Snoozed reminders returned to pending.",
		}),
	}

	reg.MustRegister(m.passes, m.due, m.notifications, m.markSentFailures, m.snapshotFailures, m.woken)
	return m
}

func (m *Metrics) observePass(due int) {
	if m == nil {
		return
	}
	m.passes.Inc()
	m.due.Add(float64(due))
}

func (m *Metrics) observeNotification(result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(result).Inc()
}

func (m *Metrics) observeMarkSentFailure() {
	if m == nil {
		return
	}
	m.markSentFailures.Inc()
}

func (m *Metrics) observeSnapshotFailure() {
	if m == nil {
		return
	}
	m.snapshotFailures.Inc()
}

func (m *Metrics) observeWoken(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.woken.Add(float64(n))
}
