// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

import (
	"time"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
)

// Record is the lifecycle-relevant slice of a playback session.
type Record struct {
	State       model.SessionState
	Reason      model.ReasonCode
	DetailDebug string
	UpdatedAt   time.Time
}

// NewRecord returns a record in the initial Idle state.
func NewRecord(now time.Time) *Record {
	return &Record{
		State:     model.SessionIdle,
		Reason:    model.RNone,
		UpdatedAt: now,
	}
}
