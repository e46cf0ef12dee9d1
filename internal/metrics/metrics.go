package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the observability hook injected into use cases and jobs.
type Recorder interface {
	BookingCreated()
	BookingRejected(reason string)
	JobOutcome(job, outcome string, n int)
	NotificationSent(kind string, ok bool)
}

// Metrics holds the Prometheus collectors.
type Metrics struct {
	BookingsCreated  prometheus.Counter
	BookingsRejected *prometheus.CounterVec
	JobOutcomes      *prometheus.CounterVec
	Notifications    *prometheus.CounterVec
}

// NewMetrics creates collectors on reg. A nil reg uses the default registerer.
func NewMetrics(reg prometheus.Registerer, namespace, subsystem string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bookings_created_total",
			Help:      "Total number of appointments booked",
		}),
		BookingsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bookings_rejected_total",
			Help:      "Booking attempts rejected, by reason",
		}, []string{"reason"}),
		JobOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "job_items_total",
			Help:      "Appointments handled by batch jobs, by job and outcome",
		}, []string{"job", "outcome"}),
		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notifications_total",
			Help:      "Notification dispatches, by kind and result",
		}, []string{"kind", "result"}),
	}
}

func (m *Metrics) BookingCreated() {
	m.BookingsCreated.Inc()
}

func (m *Metrics) BookingRejected(reason string) {
	m.BookingsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) JobOutcome(job, outcome string, n int) {
	if n <= 0 {
		return
	}
	m.JobOutcomes.WithLabelValues(job, outcome).Add(float64(n))
}

func (m *Metrics) NotificationSent(kind string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.Notifications.WithLabelValues(kind, result).Inc()
}

type Nop struct{}

func (Nop) BookingCreated()                {}
func (Nop) BookingRejected(string)         {}
func (Nop) JobOutcome(string, string, int) {}
func (Nop) NotificationSent(string, bool)  {}

var (
	_ Recorder = (*Metrics)(nil)
	_ Recorder = Nop{}
)
