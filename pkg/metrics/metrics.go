package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "visualmate", Name: "login_attempts_total", Help: "Login attempts by outcome."},
		[]string{"outcome"},
	)
	ProfileWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "visualmate", Name: "profile_writes_total", Help: "Profile store writes by operation and outcome."},
		[]string{"operation", "outcome"},
	)
	LiveSubscribers = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: "visualmate", Name: "live_subscribers", Help: "Active live-view subscriptions by collection."},
		[]string{"collection"},
	)
	SnapshotsDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "visualmate", Name: "snapshots_delivered_total", Help: "Collection snapshots delivered to subscribers."},
		[]string{"collection"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "visualmate", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "visualmate", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(LoginAttempts)
	reg.MustRegister(ProfileWrites)
	reg.MustRegister(LiveSubscribers)
	reg.MustRegister(SnapshotsDelivered)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
