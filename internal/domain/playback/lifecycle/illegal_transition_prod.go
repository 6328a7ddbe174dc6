// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build !debug

package lifecycle

import (
	"fmt"
	"time"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
)

// illegalTransition moves a live session to Error so the retry path stays
// available. Released sessions are never resurrected.
func illegalTransition(rec *Record, from model.SessionState, ev EventKind, now time.Time) (Transition, error) {
	if from.IsTerminal() {
		return Transition{From: from, To: from, Event: ev}, fmt.Errorf("illegal transition: %s + %v", from, ev)
	}
	tr := Transition{
		From:   from,
		To:     model.SessionError,
		Event:  ev,
		Reason: model.RInternalInvariantBreach,
	}
	ApplyTransition(rec, tr, now)
	rec.DetailDebug = fmt.Sprintf("illegal transition: %s + %v", from, ev)
	return tr, fmt.Errorf("illegal transition: %s + %v", from, ev)
}
