// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventBacklog = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sampleplayer_event_stream_backlog",
		Help: "Number of session events queued for delivery to a subscriber",
	}, []string{"stream"})

	RunLoopQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sampleplayer_runloop_queue_depth",
		Help: "Number of tasks waiting on the session run loop",
	})

	RunLoopPanicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sampleplayer_runloop_panics_total",
		Help: "Total number of run loop tasks that panicked and were recovered",
	})
)

// SetEventBacklog records the number of undelivered events for a stream.
func SetEventBacklog(stream string, n int) {
	if stream == "" {
		stream = "unknown"
	}
	EventBacklog.WithLabelValues(stream).Set(float64(n))
}
