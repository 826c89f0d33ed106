package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Bid outcomes
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketplace_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marketplace_http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	bidsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_bids_total",
			Help: "Bid attempts by outcome and rejection reason",
		},
		[]string{"outcome", "reason"},
	)

	buyNowTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_buy_now_total",
			Help: "Auctions closed by a buy-now bid",
		},
	)

	reviewModerationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_review_moderation_total",
			Help: "Review lifecycle actions",
		},
		[]string{"action"},
	)

	eventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_events_published_total",
			Help: "Domain events handed to the event publisher",
		},
		[]string{"topic", "status"},
	)

	circuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "marketplace_circuit_breaker_state",
			Help: "Current state of a circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// RequestStarted tracks an in-flight request and returns the function that records its completion
func RequestStarted() func(method, path, status string) {
	start := time.Now()
	httpRequestsInFlight.Inc()
	return func(method, path, status string) {
		httpRequestsInFlight.Dec()
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
	}
}

// BidAccepted counts an accepted bid
func BidAccepted(buyNow bool) {
	bidsTotal.WithLabelValues(OutcomeAccepted, "").Inc()
	if buyNow {
		buyNowTotal.Inc()
	}
}

// BidRejected counts a bid rejected for reason
func BidRejected(reason string) {
	bidsTotal.WithLabelValues(OutcomeRejected, reason).Inc()
}

// BidFailed counts a bid that failed for a non-business reason
func BidFailed() {
	bidsTotal.WithLabelValues(OutcomeError, "").Inc()
}

// ReviewAction counts a review lifecycle action (submitted, approved, rejected, replied)
func ReviewAction(action string) {
	reviewModerationTotal.WithLabelValues(action).Inc()
}

// EventPublished counts a publish attempt for topic
func EventPublished(topic string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	eventsPublishedTotal.WithLabelValues(topic, status).Inc()
}

// SetBreakerState records the state of the named circuit breaker
func SetBreakerState(name string, state float64) {
	circuitBreakerState.WithLabelValues(name).Set(state)
}
