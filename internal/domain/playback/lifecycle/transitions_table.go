// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

import "github.com/ManuGH/sampleplayer/internal/domain/playback/model"

// Transition is a single allowed edge in the lifecycle state machine.
type Transition struct {
	From   model.SessionState
	To     model.SessionState
	Event  EventKind
	Reason model.ReasonCode
}

// Decision records whether a transition is allowed and why it is forbidden.
type Decision struct {
	Allowed bool
	Reason  string
}

var transitionsTable = []Transition{
	// Start path
	{From: model.SessionIdle, To: model.SessionPreparing, Event: EvStartRequested},
	{From: model.SessionIdle, To: model.SessionAwaitingPermission, Event: EvPermissionPending},
	{From: model.SessionAwaitingPermission, To: model.SessionPreparing, Event: EvPermissionGranted},
	{From: model.SessionAwaitingPermission, To: model.SessionReleased, Event: EvPermissionDenied, Reason: model.RPermissionDenied},
	{From: model.SessionPreparing, To: model.SessionReady, Event: EvPlayerReady},

	// Transport
	{From: model.SessionReady, To: model.SessionPlaying, Event: EvPlayRequested},
	{From: model.SessionReady, To: model.SessionPaused, Event: EvPauseRequested},
	{From: model.SessionPlaying, To: model.SessionPaused, Event: EvPauseRequested},
	{From: model.SessionPaused, To: model.SessionPlaying, Event: EvPlayRequested},

	// Playback failures
	{From: model.SessionPreparing, To: model.SessionError, Event: EvPlayerFailed, Reason: model.RPlaybackFailed},
	{From: model.SessionReady, To: model.SessionError, Event: EvPlayerFailed, Reason: model.RPlaybackFailed},
	{From: model.SessionPlaying, To: model.SessionError, Event: EvPlayerFailed, Reason: model.RPlaybackFailed},
	{From: model.SessionPaused, To: model.SessionError, Event: EvPlayerFailed, Reason: model.RPlaybackFailed},

	// Teardown (player released, position cached)
	{From: model.SessionAwaitingPermission, To: model.SessionIdle, Event: EvTeardown, Reason: model.RHidden},
	{From: model.SessionPreparing, To: model.SessionIdle, Event: EvTeardown, Reason: model.RHidden},
	{From: model.SessionReady, To: model.SessionIdle, Event: EvTeardown, Reason: model.RHidden},
	{From: model.SessionPlaying, To: model.SessionIdle, Event: EvTeardown, Reason: model.RHidden},
	{From: model.SessionPaused, To: model.SessionIdle, Event: EvTeardown, Reason: model.RHidden},
	{From: model.SessionError, To: model.SessionIdle, Event: EvTeardown, Reason: model.RHidden},

	// Release is legal from any non-terminal state
	{From: model.SessionIdle, To: model.SessionReleased, Event: EvRelease, Reason: model.RClientRelease},
	{From: model.SessionAwaitingPermission, To: model.SessionReleased, Event: EvRelease, Reason: model.RClientRelease},
	{From: model.SessionPreparing, To: model.SessionReleased, Event: EvRelease, Reason: model.RClientRelease},
	{From: model.SessionReady, To: model.SessionReleased, Event: EvRelease, Reason: model.RClientRelease},
	{From: model.SessionPlaying, To: model.SessionReleased, Event: EvRelease, Reason: model.RClientRelease},
	{From: model.SessionPaused, To: model.SessionReleased, Event: EvRelease, Reason: model.RClientRelease},
	{From: model.SessionError, To: model.SessionReleased, Event: EvRelease, Reason: model.RClientRelease},
}

// TransitionFor returns the allowed transition for a given state+event.
func TransitionFor(from model.SessionState, ev EventKind) (Transition, bool) {
	for _, tr := range transitionsTable {
		if tr.From == from && tr.Event == ev {
			return tr, true
		}
	}
	return Transition{}, false
}
