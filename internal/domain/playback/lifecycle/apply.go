// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

import "time"

// ApplyTransition mutates the record according to the transition.
func ApplyTransition(rec *Record, tr Transition, now time.Time) {
	rec.State = tr.To
	if tr.Reason != "" {
		rec.Reason = tr.Reason
	}
	rec.UpdatedAt = now
}
