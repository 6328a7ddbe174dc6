// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build !debug

package lifecycle

import (
	"testing"
	"time"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
)

func FuzzDispatchInvariants(f *testing.F) {
	f.Add([]byte{1, 5, 6, 7, 9})
	f.Add([]byte{2, 4, 9, 1})
	f.Add([]byte{10, 1, 1})

	f.Fuzz(func(t *testing.T, seq []byte) {
		rec := NewRecord(time.Unix(0, 0))
		for _, b := range seq {
			ev := AllEvents[int(b)%len(AllEvents)]
			before := rec.State
			tr, err := Dispatch(rec, Event{Kind: ev}, time.Unix(0, 0))

			if before == model.SessionReleased && rec.State != model.SessionReleased {
				t.Fatalf("released must be absorbing: %s + %v -> %s", before, ev, rec.State)
			}
			if err == nil && !Allowed(before, ev) {
				t.Fatalf("forbidden transition accepted: %s + %v", before, ev)
			}
			if err != nil && !before.IsTerminal() && rec.State != model.SessionError {
				t.Fatalf("illegal transition must land in ERROR: %s + %v -> %s", before, ev, rec.State)
			}
			if err == nil && tr.To != rec.State {
				t.Fatalf("transition target %s does not match record %s", tr.To, rec.State)
			}
		}
	})
}
