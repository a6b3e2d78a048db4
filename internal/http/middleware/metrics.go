package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)
	SessionsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "janken_sessions_started_total",
			Help: "Total game sessions created",
		},
	)
	ChoicesSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "janken_choices_submitted_total",
			Help: "Total hand choices accepted",
		},
	)
	LockContention = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "janken_lock_contention_total",
			Help: "Total submissions rejected because the session lock was held",
		},
	)
)

func init() {
	prometheus.MustRegister(RLRequests)
	prometheus.MustRegister(RLBlocked)
	prometheus.MustRegister(SessionsStarted)
	prometheus.MustRegister(ChoicesSubmitted)
	prometheus.MustRegister(LockContention)
}
