package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the split core.
// Tracks calculations, validation failures, store mutations and share
// dispatches. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Calculations        *prometheus.CounterVec
	RoundingAdjustments prometheus.Counter
	ValidationFailures  *prometheus.CounterVec
	StoreMutations      *prometheus.CounterVec
	StoreSubscribers    prometheus.Gauge
	Shares              *prometheus.CounterVec
	ShareDuration       prometheus.Histogram
}

// New creates a Metrics instance with all metrics registered on reg.
// Pass prometheus.NewRegistry() in tests to keep registrations isolated.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Calculations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "billsplit_calculations_total",
			Help: "Total number of split calculations by mode",
		}, []string{"mode"}),
		RoundingAdjustments: f.NewCounter(prometheus.CounterOpts{
			Name: "billsplit_rounding_adjustments_total",
			Help: "Equal splits where the first participant absorbed a rounding remainder",
		}),
		ValidationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "billsplit_validation_failures_total",
			Help: "Rejected form inputs by field and failure kind",
		}, []string{"field", "kind"}),
		StoreMutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "billsplit_store_mutations_total",
			Help: "Mutations applied to the shared split state by operation",
		}, []string{"op"}),
		StoreSubscribers: f.NewGauge(prometheus.GaugeOpts{
			Name: "billsplit_store_subscribers",
			Help: "Active subscribers of the shared split state",
		}),
		Shares: f.NewCounterVec(prometheus.CounterOpts{
			Name: "billsplit_shares_total",
			Help: "Payment requests handed to the share dispatcher by channel and outcome",
		}, []string{"channel", "outcome"}),
		ShareDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "billsplit_share_duration_seconds",
			Help:    "Duration of share dispatch calls",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveCalculation records one calculation and whether it needed a
// rounding adjustment.
func (m *Metrics) ObserveCalculation(mode string, adjusted bool) {
	if m == nil {
		return
	}
	m.Calculations.WithLabelValues(mode).Inc()
	if adjusted {
		m.RoundingAdjustments.Inc()
	}
}

// IncrementValidationFailure records a rejected input.
func (m *Metrics) IncrementValidationFailure(field, kind string) {
	if m == nil {
		return
	}
	m.ValidationFailures.WithLabelValues(field, kind).Inc()
}

// IncrementStoreMutation records a state mutation.
func (m *Metrics) IncrementStoreMutation(op string) {
	if m == nil {
		return
	}
	m.StoreMutations.WithLabelValues(op).Inc()
}

// AddSubscribers adjusts the active subscriber gauge by delta.
func (m *Metrics) AddSubscribers(delta float64) {
	if m == nil {
		return
	}
	m.StoreSubscribers.Add(delta)
}

// ObserveShare records a dispatch outcome and its duration.
// Call with time.Now() taken before dispatching.
func (m *Metrics) ObserveShare(channel string, err error, start time.Time) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Shares.WithLabelValues(channel, outcome).Inc()
	m.ShareDuration.Observe(time.Since(start).Seconds())
}
