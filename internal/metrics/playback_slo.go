// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const labelUnknown = "unknown"

var (
	SessionTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sampleplayer_session_transitions_total",
		Help: "Playback session lifecycle transitions by source and target state",
	}, []string{"from", "to"})

	PlaybackErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sampleplayer_playback_errors_total",
		Help: "Classified playback failures by user-facing category",
	}, []string{"category"})

	PlayerBuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sampleplayer_player_builds_total",
		Help: "Player instances constructed by content type",
	}, []string{"content_type"})

	SessionRebuildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sampleplayer_session_rebuilds_total",
		Help: "Player rebuilds triggered by audio capability changes",
	})

	PermissionRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sampleplayer_permission_requests_total",
		Help: "Storage permission requests by outcome",
	}, []string{"outcome"})

	MetadataFramesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sampleplayer_metadata_frames_total",
		Help: "Timed metadata frames received by kind",
	}, []string{"kind"})
)

// IncSessionTransition records one lifecycle edge.
func IncSessionTransition(from, to string) {
	SessionTransitionsTotal.WithLabelValues(normalizeStateLabel(from), normalizeStateLabel(to)).Inc()
}

// IncPlaybackError records one classified failure.
func IncPlaybackError(category string) {
	PlaybackErrorsTotal.WithLabelValues(normalizeCategoryLabel(category)).Inc()
}

// IncPlayerBuild records the construction of a player for a content type.
func IncPlayerBuild(contentType string) {
	PlayerBuildsTotal.WithLabelValues(normalizeContentTypeLabel(contentType)).Inc()
}

// IncSessionRebuild records a capability-driven rebuild.
func IncSessionRebuild() {
	SessionRebuildsTotal.Inc()
}

// IncPermissionRequest records a permission request outcome (requested, granted, denied, stale).
func IncPermissionRequest(outcome string) {
	switch outcome {
	case "requested", "granted", "denied", "stale":
	default:
		outcome = labelUnknown
	}
	PermissionRequestsTotal.WithLabelValues(outcome).Inc()
}

// IncMetadataFrame records one timed metadata frame.
func IncMetadataFrame(kind string) {
	switch kind {
	case "TXXX", "PRIV", "GEOB", "APIC", "TEXT", "UNKNOWN":
	default:
		kind = labelUnknown
	}
	MetadataFramesTotal.WithLabelValues(kind).Inc()
}

func normalizeStateLabel(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IDLE", "AWAITING_PERMISSION", "PREPARING", "READY", "PLAYING", "PAUSED", "ERROR", "RELEASED":
		return strings.ToUpper(strings.TrimSpace(s))
	default:
		return labelUnknown
	}
}

func normalizeCategoryLabel(c string) string {
	switch c {
	case "drm_not_supported", "drm_unsupported_scheme", "drm_unknown",
		"decoder_query_failed", "no_secure_decoder", "no_decoder",
		"decoder_init_failed", "unclassified":
		return c
	default:
		return labelUnknown
	}
}

func normalizeContentTypeLabel(c string) string {
	switch strings.ToLower(strings.TrimSpace(c)) {
	case "smoothstreaming", "dash", "hls", "other":
		return strings.ToLower(strings.TrimSpace(c))
	default:
		return labelUnknown
	}
}
