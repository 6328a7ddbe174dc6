// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build debug

package lifecycle

import (
	"fmt"
	"time"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
)

func illegalTransition(rec *Record, from model.SessionState, ev EventKind, now time.Time) (Transition, error) {
	panic(fmt.Sprintf("illegal transition: %s + %v", from, ev))
}
