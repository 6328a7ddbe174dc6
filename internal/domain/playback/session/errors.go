// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package session

import (
	"errors"
	"fmt"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/lifecycle"
	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
)

var (
	// ErrInvalidState is returned when an operation is not legal in the
	// session's current state.
	ErrInvalidState = errors.New("invalid session state")
	// ErrReleased is returned for any call made after Release.
	ErrReleased = errors.New("session released")
	// ErrNoContent is returned when the session is shown before any content was started.
	ErrNoContent = errors.New("no content to play")
)

// StateError explains why an operation was rejected.
type StateError struct {
	Op     string
	State  model.SessionState
	Reason string
}

func (e *StateError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: not allowed in state %s", e.Op, e.State)
	}
	return fmt.Sprintf("%s: not allowed in state %s (%s)", e.Op, e.State, e.Reason)
}

func (e *StateError) Unwrap() error {
	if e.State.IsTerminal() {
		return ErrReleased
	}
	return ErrInvalidState
}

func rejected(op string, state model.SessionState, ev lifecycle.EventKind) error {
	reason := lifecycle.ForbiddenTransitionReason(state, ev)
	return &StateError{Op: op, State: state, Reason: reason}
}

func requiresPlayer(op string, state model.SessionState) error {
	return &StateError{Op: op, State: state, Reason: lifecycle.ForbiddenRequiresPlayer}
}
