// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

import "time"

// Dispatch resolves the next transition (and applies it) from the table rules.
// Callers are expected to consult DecisionFor first for events that may
// legitimately be ignored; anything reaching Dispatch unaccepted is a bug.
func Dispatch(rec *Record, ev Event, now time.Time) (Transition, error) {
	if rec.State.IsTerminal() {
		return illegalTransition(rec, rec.State, ev.Kind, now)
	}

	decision, ok := DecisionFor(rec.State, ev.Kind)
	if !ok || !decision.Allowed {
		return illegalTransition(rec, rec.State, ev.Kind, now)
	}
	tr, ok := TransitionFor(rec.State, ev.Kind)
	if !ok {
		return illegalTransition(rec, rec.State, ev.Kind, now)
	}

	if ev.Reason != "" {
		tr.Reason = ev.Reason
	}

	ApplyTransition(rec, tr, now)
	return tr, nil
}
