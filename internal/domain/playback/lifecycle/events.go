// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

import "github.com/ManuGH/sampleplayer/internal/domain/playback/model"

// EventKind is a domain event in the playback session lifecycle.
type EventKind int

const (
	EvUnknown EventKind = iota
	EvStartRequested
	EvPermissionPending
	EvPermissionGranted
	EvPermissionDenied
	EvPlayerReady
	EvPlayRequested
	EvPauseRequested
	EvPlayerFailed
	EvTeardown
	EvRelease
)

var eventNames = map[EventKind]string{
	EvUnknown:           "unknown",
	EvStartRequested:    "start_requested",
	EvPermissionPending: "permission_pending",
	EvPermissionGranted: "permission_granted",
	EvPermissionDenied:  "permission_denied",
	EvPlayerReady:       "player_ready",
	EvPlayRequested:     "play_requested",
	EvPauseRequested:    "pause_requested",
	EvPlayerFailed:      "player_failed",
	EvTeardown:          "teardown",
	EvRelease:           "release",
}

func (e EventKind) String() string {
	if s, ok := eventNames[e]; ok {
		return s
	}
	return "unknown"
}

// AllEvents lists every dispatchable event kind.
var AllEvents = []EventKind{
	EvStartRequested,
	EvPermissionPending,
	EvPermissionGranted,
	EvPermissionDenied,
	EvPlayerReady,
	EvPlayRequested,
	EvPauseRequested,
	EvPlayerFailed,
	EvTeardown,
	EvRelease,
}

// Event carries optional domain metadata for a transition.
type Event struct {
	Kind   EventKind
	Reason model.ReasonCode
}
