package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the checkout service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	BackendRequestDuration *prometheus.HistogramVec
	CheckoutInitiations    *prometheus.CounterVec
	PaymentVerifications   *prometheus.CounterVec
	AccountSetups          *prometheus.CounterVec
	CacheFailures          *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BackendRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rxmate_backend_request_duration_seconds",
			Help:    "Latency of calls to the backend REST API",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"method", "route", "code"}),
		CheckoutInitiations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rxmate_checkout_initiations_total",
			Help: "Payment initiation attempts by result",
		}, []string{"result"}),
		PaymentVerifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rxmate_payment_verifications_total",
			Help: "Payment verifications by outcome and reference source",
		}, []string{"outcome", "source"}),
		AccountSetups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rxmate_account_setups_total",
			Help: "Account setup submissions by result",
		}, []string{"result"}),
		CacheFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rxmate_transaction_cache_failures_total",
			Help: "Swallowed transaction cache failures by operation",
		}, []string{"op"}),
	}
}

// ObserveBackendRequest records one backend call. A zero status means the
// request never got a response.
func (m *Metrics) ObserveBackendRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status/100) + "xx"
	}
	m.BackendRequestDuration.WithLabelValues(method, route, code).Observe(d.Seconds())
}

func (m *Metrics) IncCheckout(result string) {
	if m == nil {
		return
	}
	m.CheckoutInitiations.WithLabelValues(result).Inc()
}

func (m *Metrics) IncVerification(outcome, source string) {
	if m == nil {
		return
	}
	m.PaymentVerifications.WithLabelValues(outcome, source).Inc()
}

func (m *Metrics) IncAccountSetup(result string) {
	if m == nil {
		return
	}
	m.AccountSetups.WithLabelValues(result).Inc()
}

func (m *Metrics) IncCacheFailure(op string) {
	if m == nil {
		return
	}
	m.CacheFailures.WithLabelValues(op).Inc()
}
