package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the certification module.
// All methods are nil-safe so services can run without a registry.
type Metrics struct {
	ClaimOutcome      *prometheus.CounterVec
	ClaimLatency      prometheus.Histogram
	ProgressLatency   prometheus.Histogram
	VerifyLookups     *prometheus.CounterVec
	IdentifierRetries *prometheus.CounterVec
}

// New creates and registers the certification metrics on reg. A nil reg uses
// the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		ClaimOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "accredit_claims_total",
			Help: "Credential claims by tier and outcome",
		}, []string{"tier", "outcome"}),

		ClaimLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "accredit_claim_duration_seconds",
			Help:    "Duration of a full claim including eligibility re-check and persistence",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),

		ProgressLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "accredit_progress_duration_seconds",
			Help:    "Duration of activity aggregation and checklist evaluation",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		VerifyLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "accredit_verification_lookups_total",
			Help: "Public verification lookups by result (found, miss)",
		}, []string{"result"}),

		IdentifierRetries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "accredit_identifier_retries_total",
			Help: "Identifier allocation retries after a uniqueness conflict",
		}, []string{"identifier"}), // identifier: "verification_code", "credential_number"
	}
}

// IncrementClaim records a claim outcome.
func (m *Metrics) IncrementClaim(tier, outcome string) {
	if m != nil {
		m.ClaimOutcome.WithLabelValues(tier, outcome).Inc()
	}
}

// ObserveClaim records the duration of a claim. Call with the start time.
func (m *Metrics) ObserveClaim(start time.Time) {
	if m != nil {
		m.ClaimLatency.Observe(time.Since(start).Seconds())
	}
}

// ObserveProgress records the duration of a progress computation.
func (m *Metrics) ObserveProgress(start time.Time) {
	if m != nil {
		m.ProgressLatency.Observe(time.Since(start).Seconds())
	}
}

// IncrementVerify records a verification lookup result.
func (m *Metrics) IncrementVerify(result string) {
	if m != nil {
		m.VerifyLookups.WithLabelValues(result).Inc()
	}
}

// IncrementRetry records a uniqueness retry for an identifier kind.
func (m *Metrics) IncrementRetry(identifier string) {
	if m != nil {
		m.IdentifierRetries.WithLabelValues(identifier).Inc()
	}
}
