// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sampleplayer_http_request_duration_seconds",
		Help:    "Debug endpoint request latencies in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sampleplayer_http_requests_in_flight",
		Help: "Current number of debug endpoint requests being served",
	})

	HTTPRateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sampleplayer_http_rate_limited_total",
		Help: "Debug endpoint requests rejected by the rate limiter",
	})
)
