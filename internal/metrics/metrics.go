package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Bookings        *prometheus.CounterVec
	Confirmations   *prometheus.CounterVec
	Cancellations   *prometheus.CounterVec
	PersistFailures *prometheus.CounterVec
	OpDuration      *prometheus.HistogramVec
	Reservations    *prometheus.GaugeVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,

		Bookings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hotelres_bookings_total",
			Help: "Booking attempts by outcome",
		}, []string{"outcome"}),

		Confirmations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hotelres_confirmations_total",
			Help: "Payment confirmations by outcome",
		}, []string{"outcome"}),

		Cancellations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hotelres_cancellations_total",
			Help: "Cancellation requests by outcome",
		}, []string{"outcome"}),

		PersistFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hotelres_persist_failures_total",
			Help: "Failed saves by collection",
		}, []string{"collection"}),

		OpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hotelres_operation_duration_seconds",
			Help:    "Duration of ledger operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),

		Reservations: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hotelres_reservations",
			Help: "Reservations currently held, by state",
		}, []string{"state"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Booking(outcome string) {
	if m == nil {
		return
	}
	m.Bookings.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Confirmation(outcome string) {
	if m == nil {
		return
	}
	m.Confirmations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Cancellation(outcome string) {
	if m == nil {
		return
	}
	m.Cancellations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) PersistFailure(collection string) {
	if m == nil {
		return
	}
	m.PersistFailures.WithLabelValues(collection).Inc()
}

// Since observes the time elapsed from start under op.
func (m *Metrics) Since(op string, start time.Time) {
	if m == nil {
		return
	}
	m.OpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *Metrics) SetReservations(pending, confirmed int) {
	if m == nil {
		return
	}
	m.Reservations.WithLabelValues("pending").Set(float64(pending))
	m.Reservations.WithLabelValues("confirmed").Set(float64(confirmed))
}

// WriteTextfile writes every collected metric in the node-exporter textfile
// format. Short-lived CLI runs use this instead of serving /metrics.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
