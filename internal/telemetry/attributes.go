// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys shared by playback spans.
const (
	PlaybackSessionIDKey   = "playback.session_id"
	PlaybackContentTypeKey = "playback.content_type"
	PlaybackContentIDKey   = "playback.content_id"
	PlaybackProviderKey    = "playback.provider"
	PlaybackPositionKey    = "playback.position_ms"
	PlaybackStateKey       = "playback.state"
	PlaybackReasonKey      = "playback.reason"

	RebuildBackgroundedKey  = "rebuild.backgrounded"
	RebuildPlayWhenReadyKey = "rebuild.play_when_ready"

	ErrorCategoryKey = "error.category"
)

// PlaybackAttributes describes the content a session is playing.
func PlaybackAttributes(sessionID, contentType, contentID, provider string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 4)
	attrs = append(attrs,
		attribute.String(PlaybackSessionIDKey, sessionID),
		attribute.String(PlaybackContentTypeKey, contentType),
	)
	if contentID != "" {
		attrs = append(attrs, attribute.String(PlaybackContentIDKey, contentID))
	}
	if provider != "" {
		attrs = append(attrs, attribute.String(PlaybackProviderKey, provider))
	}
	return attrs
}

// RebuildAttributes records the flags carried across a rebuild.
func RebuildAttributes(backgrounded, playWhenReady bool, positionMs int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(RebuildBackgroundedKey, backgrounded),
		attribute.Bool(RebuildPlayWhenReadyKey, playWhenReady),
		attribute.Int64(PlaybackPositionKey, positionMs),
	}
}

// TransitionAttributes records the state a span ended in.
func TransitionAttributes(state, reason string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(PlaybackStateKey, state),
		attribute.String(PlaybackReasonKey, reason),
	}
}
