// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package model

// ReasonCode is a compact, typed signal explaining the last state change.
// Keep these stable: metrics and the debug view depend on them.
type ReasonCode string

const (
	RNone                    ReasonCode = "R_NONE"
	RHidden                  ReasonCode = "R_HIDDEN"
	RCapabilitiesChanged     ReasonCode = "R_CAPABILITIES_CHANGED"
	RRetry                   ReasonCode = "R_RETRY"
	RPlaybackFailed          ReasonCode = "R_PLAYBACK_FAILED"
	RPermissionDenied        ReasonCode = "R_PERMISSION_DENIED"
	RClientRelease           ReasonCode = "R_CLIENT_RELEASE"
	RUnsupportedContent      ReasonCode = "R_UNSUPPORTED_CONTENT"
	RInternalInvariantBreach ReasonCode = "R_INTERNAL_INVARIANT_BREACH"
)
