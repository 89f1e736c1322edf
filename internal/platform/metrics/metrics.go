package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Methods are
// nil-safe so unit tests can pass a nil *Metrics without registering
// collectors against the global registry.
type Metrics struct {
	DonationsCreated prometheus.Counter
	ClaimsCreated    prometheus.Counter
	ClaimTransitions *prometheus.CounterVec
	CASConflicts     prometheus.Counter
	EventsPublished  *prometheus.CounterVec
	SweptClaims      prometheus.Counter
	SweptDonations   prometheus.Counter
	HTTPDuration     *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		DonationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sharebite_donations_created_total",
			Help: "Total number of donations posted",
		}),
		ClaimsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sharebite_claims_created_total",
			Help: "Total number of claims created",
		}),
		ClaimTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sharebite_claim_transitions_total",
			Help: "Lifecycle transitions by type",
		}, []string{"transition"}),
		CASConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sharebite_cas_conflicts_total",
			Help: "Compare-and-set failures surfaced as conflicts",
		}),
		EventsPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sharebite_events_published_total",
			Help: "Lifecycle events published to the fan-out",
		}, []string{"event"}),
		SweptClaims: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sharebite_swept_claims_total",
			Help: "Claims expired by the sweeper",
		}),
		SweptDonations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sharebite_swept_donations_total",
			Help: "Donations expired by the sweeper",
		}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sharebite_http_request_duration_ms",
			Help:    "HTTP request latency in milliseconds",
			Buckets: []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"method", "path"}),
	}
}

func (m *Metrics) IncDonationsCreated() {
	if m == nil {
		return
	}
	m.DonationsCreated.Inc()
}

func (m *Metrics) IncClaimsCreated() {
	if m == nil {
		return
	}
	m.ClaimsCreated.Inc()
}

func (m *Metrics) IncTransition(transition string) {
	if m == nil {
		return
	}
	m.ClaimTransitions.WithLabelValues(transition).Inc()
}

func (m *Metrics) IncCASConflict() {
	if m == nil {
		return
	}
	m.CASConflicts.Inc()
}

func (m *Metrics) IncEventPublished(event string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(event).Inc()
}

func (m *Metrics) AddSweptClaims(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SweptClaims.Add(float64(n))
}

func (m *Metrics) AddSweptDonations(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SweptDonations.Add(float64(n))
}

func (m *Metrics) ObserveHTTPDuration(method, path string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPDuration.WithLabelValues(method, path).Observe(float64(d.Microseconds()) / 1000.0)
}
