package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the storefront's counters. Register them once per process;
// tests pass their own registry.
type Metrics struct {
	CheckoutAttempts *prometheus.CounterVec
	CheckoutRetries  prometheus.Counter
	WebhookEvents    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "checkout_attempts_total",
		Help:      "Checkout outcomes by result.",
	}, []string{"result"})
	retries := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "checkout_retries_total",
		Help:      "Checkout transactions retried after a transient conflict.",
	})
	webhooks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "webhook_events_total",
		Help:      "Payment provider notifications by type and result.",
	}, []string{"type", "result"})

	reg.MustRegister(attempts, retries, webhooks)
	return &Metrics{CheckoutAttempts: attempts, CheckoutRetries: retries, WebhookEvents: webhooks}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
