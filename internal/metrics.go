package internal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	paymentOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendpay_payment_outcomes_total",
		Help: "Terminal payment outcomes by provider and status.",
	}, []string{"provider", "status"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendpay_http_requests_total",
		Help: "Inbound HTTP requests by route.",
	}, []string{"route"})
)

func countOutcome(provider, status string) {
	paymentOutcomes.WithLabelValues(provider, status).Inc()
}

func countRequest(route string) {
	httpRequests.WithLabelValues(route).Inc()
}
