package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Waits tracks how often a request had to wait for the interval.
	Waits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "regfetch_rate_limit_waits_total",
			Help: "Total number of requests delayed by the rate limit interval",
		},
	)

	// WaitSeconds tracks how long requests waited for the interval.
	WaitSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "regfetch_rate_limit_wait_seconds",
			Help:    "Time spent waiting for the rate limit interval",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)
)
