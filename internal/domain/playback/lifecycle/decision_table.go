// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

import "github.com/ManuGH/sampleplayer/internal/domain/playback/model"

const (
	ForbiddenTerminalAbsorbing = "terminal_absorbing"
	ForbiddenAlreadyInState    = "already_in_state"
	ForbiddenRequiresIdle      = "requires_idle"
	ForbiddenRequiresPlayer    = "requires_player"
	ForbiddenRequiresReady     = "requires_ready"
	ForbiddenRequiresPrepare   = "requires_prepare"
	ForbiddenNoPendingRequest  = "no_pending_request"
)

func allowed() Decision        { return Decision{Allowed: true} }
func forbid(r string) Decision { return Decision{Allowed: false, Reason: r} }

// decisionTable defines an explicit decision for every State×Event combination.
var decisionTable = map[model.SessionState]map[EventKind]Decision{
	model.SessionIdle: {
		EvStartRequested:    allowed(),
		EvPermissionPending: allowed(),
		EvPermissionGranted: forbid(ForbiddenNoPendingRequest),
		EvPermissionDenied:  forbid(ForbiddenNoPendingRequest),
		EvPlayerReady:       forbid(ForbiddenRequiresPlayer),
		EvPlayRequested:     forbid(ForbiddenRequiresPlayer),
		EvPauseRequested:    forbid(ForbiddenRequiresPlayer),
		EvPlayerFailed:      forbid(ForbiddenRequiresPlayer),
		EvTeardown:          forbid(ForbiddenAlreadyInState),
		EvRelease:           allowed(),
	},
	model.SessionAwaitingPermission: {
		EvStartRequested:    forbid(ForbiddenRequiresIdle),
		EvPermissionPending: forbid(ForbiddenAlreadyInState),
		EvPermissionGranted: allowed(),
		EvPermissionDenied:  allowed(),
		EvPlayerReady:       forbid(ForbiddenRequiresPlayer),
		EvPlayRequested:     forbid(ForbiddenRequiresPlayer),
		EvPauseRequested:    forbid(ForbiddenRequiresPlayer),
		EvPlayerFailed:      forbid(ForbiddenRequiresPlayer),
		EvTeardown:          allowed(),
		EvRelease:           allowed(),
	},
	model.SessionPreparing: {
		EvStartRequested:    forbid(ForbiddenRequiresIdle),
		EvPermissionPending: forbid(ForbiddenRequiresIdle),
		EvPermissionGranted: forbid(ForbiddenNoPendingRequest),
		EvPermissionDenied:  forbid(ForbiddenNoPendingRequest),
		EvPlayerReady:       allowed(),
		EvPlayRequested:     forbid(ForbiddenRequiresReady),
		EvPauseRequested:    forbid(ForbiddenRequiresReady),
		EvPlayerFailed:      allowed(),
		EvTeardown:          allowed(),
		EvRelease:           allowed(),
	},
	model.SessionReady: {
		EvStartRequested:    forbid(ForbiddenRequiresIdle),
		EvPermissionPending: forbid(ForbiddenRequiresIdle),
		EvPermissionGranted: forbid(ForbiddenNoPendingRequest),
		EvPermissionDenied:  forbid(ForbiddenNoPendingRequest),
		EvPlayerReady:       forbid(ForbiddenAlreadyInState),
		EvPlayRequested:     allowed(),
		EvPauseRequested:    allowed(),
		EvPlayerFailed:      allowed(),
		EvTeardown:          allowed(),
		EvRelease:           allowed(),
	},
	model.SessionPlaying: {
		EvStartRequested:    forbid(ForbiddenRequiresIdle),
		EvPermissionPending: forbid(ForbiddenRequiresIdle),
		EvPermissionGranted: forbid(ForbiddenNoPendingRequest),
		EvPermissionDenied:  forbid(ForbiddenNoPendingRequest),
		EvPlayerReady:       forbid(ForbiddenAlreadyInState),
		EvPlayRequested:     forbid(ForbiddenAlreadyInState),
		EvPauseRequested:    allowed(),
		EvPlayerFailed:      allowed(),
		EvTeardown:          allowed(),
		EvRelease:           allowed(),
	},
	model.SessionPaused: {
		EvStartRequested:    forbid(ForbiddenRequiresIdle),
		EvPermissionPending: forbid(ForbiddenRequiresIdle),
		EvPermissionGranted: forbid(ForbiddenNoPendingRequest),
		EvPermissionDenied:  forbid(ForbiddenNoPendingRequest),
		EvPlayerReady:       forbid(ForbiddenAlreadyInState),
		EvPlayRequested:     allowed(),
		EvPauseRequested:    forbid(ForbiddenAlreadyInState),
		EvPlayerFailed:      allowed(),
		EvTeardown:          allowed(),
		EvRelease:           allowed(),
	},
	model.SessionError: {
		EvStartRequested:    forbid(ForbiddenRequiresIdle),
		EvPermissionPending: forbid(ForbiddenRequiresIdle),
		EvPermissionGranted: forbid(ForbiddenNoPendingRequest),
		EvPermissionDenied:  forbid(ForbiddenNoPendingRequest),
		EvPlayerReady:       forbid(ForbiddenRequiresPrepare),
		EvPlayRequested:     forbid(ForbiddenRequiresPrepare),
		EvPauseRequested:    forbid(ForbiddenRequiresPrepare),
		EvPlayerFailed:      forbid(ForbiddenAlreadyInState),
		EvTeardown:          allowed(),
		EvRelease:           allowed(),
	},
	model.SessionReleased: {
		EvStartRequested:    forbid(ForbiddenTerminalAbsorbing),
		EvPermissionPending: forbid(ForbiddenTerminalAbsorbing),
		EvPermissionGranted: forbid(ForbiddenTerminalAbsorbing),
		EvPermissionDenied:  forbid(ForbiddenTerminalAbsorbing),
		EvPlayerReady:       forbid(ForbiddenTerminalAbsorbing),
		EvPlayRequested:     forbid(ForbiddenTerminalAbsorbing),
		EvPauseRequested:    forbid(ForbiddenTerminalAbsorbing),
		EvPlayerFailed:      forbid(ForbiddenTerminalAbsorbing),
		EvTeardown:          forbid(ForbiddenTerminalAbsorbing),
		EvRelease:           forbid(ForbiddenTerminalAbsorbing),
	},
}

// DecisionFor returns the explicit decision for state×event.
func DecisionFor(from model.SessionState, ev EventKind) (Decision, bool) {
	m, ok := decisionTable[from]
	if !ok {
		return Decision{}, false
	}
	d, ok := m[ev]
	return d, ok
}
