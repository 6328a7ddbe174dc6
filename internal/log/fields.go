// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldSessionID     = "session_id"
	FieldCorrelationID = "correlation_id"
	FieldContentID     = "content_id"
	FieldProvider      = "provider"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Media fields
	FieldContentType = "content_type"
	FieldURI         = "uri"
	FieldTrackType   = "track_type"
	FieldTrackIndex  = "track_index"
	FieldPositionMs  = "position_ms"
	FieldCategory    = "category"
	FieldFrameKind   = "frame_kind"
	FieldFrameID     = "frame_id"

	// State fields
	FieldOldState    = "old_state"
	FieldNewState    = "new_state"
	FieldPlayerState = "player_state"
	FieldReason      = "reason"

	// Path / URL fields
	FieldPath = "path"
)
