// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package eventlog writes a session's outbound events to the structured log,
// stamped with the time elapsed since the session started.
package eventlog

import (
	"context"
	"strconv"
	"time"

	"github.com/ManuGH/sampleplayer/internal/bus"
	"github.com/ManuGH/sampleplayer/internal/domain/playback/session"
	"github.com/ManuGH/sampleplayer/internal/log"
	"github.com/rs/zerolog"
)

// Logger logs session events. It is not safe for concurrent use; run one
// Logger per subscription.
type Logger struct {
	logger  zerolog.Logger
	now     func() time.Time
	started time.Time
	active  bool
}

// New returns a logger writing through the "eventlog" component logger.
func New() *Logger {
	return NewWithLogger(log.WithComponent("eventlog").With().Str("log_type", "playback").Logger(), time.Now)
}

// NewWithLogger returns a logger writing to l with the given clock.
func NewWithLogger(l zerolog.Logger, now func() time.Time) *Logger {
	if now == nil {
		now = time.Now
	}
	return &Logger{logger: l, now: now}
}

// StartSession resets the elapsed clock.
func (l *Logger) StartSession(sessionID string) {
	l.started = l.now()
	l.active = true
	l.logger.Info().
		Str(log.FieldEvent, "eventlog.start").
		Str(log.FieldSessionID, sessionID).
		Str("elapsed", elapsed(0)).
		Msg("start")
}

// EndSession logs the total session time.
func (l *Logger) EndSession() {
	if !l.active {
		return
	}
	l.active = false
	l.logger.Info().
		Str(log.FieldEvent, "eventlog.end").
		Str("elapsed", elapsed(l.now().Sub(l.started))).
		Msg("end")
}

// Log writes one event.
func (l *Logger) Log(ev session.Event) {
	var e *zerolog.Event
	switch ev.Kind {
	case session.EventErrorClassified:
		e = l.logger.Error().Err(ev.Err).
			Str(log.FieldCategory, ev.Category.String()).
			Str("detail", ev.Message)
	case session.EventCloseScreen:
		e = l.logger.Warn().Str(log.FieldReason, string(ev.Reason)).Str("detail", ev.Message)
	default:
		e = l.logger.Info()
	}
	if l.active {
		e = e.Str("elapsed", elapsed(ev.At.Sub(l.started)))
	}
	e = e.Str(log.FieldEvent, "eventlog."+string(ev.Kind)).Uint64("seq", ev.Seq)

	switch ev.Kind {
	case session.EventStateChanged:
		e = e.Str(log.FieldOldState, string(ev.From)).
			Str(log.FieldNewState, string(ev.To)).
			Str(log.FieldReason, string(ev.Reason))
	case session.EventPlayerStateChanged:
		e = e.Str(log.FieldPlayerState, string(ev.PlayerState)).Bool("play_when_ready", ev.PlayWhenReady)
	case session.EventRetryAvailable:
		e = e.Bool("retry", ev.Retry)
	case session.EventVideoSizeChanged:
		e = e.Int("width", ev.VideoSize.Width).Int("height", ev.VideoSize.Height)
	case session.EventCues:
		e = e.Int("cues", len(ev.Cues))
	case session.EventMetadata:
		e = e.Int("frames", len(ev.Metadata))
	case session.EventTracksChanged:
		e = e.Str(log.FieldTrackType, ev.TrackType.String()).Int(log.FieldTrackIndex, ev.Track)
	}
	e.Msg(string(ev.Kind))
}

// Run logs every event from sub until the subscription closes or ctx ends.
// The elapsed clock starts with the first event.
func (l *Logger) Run(ctx context.Context, sub *bus.Subscription[session.Event]) error {
	defer l.EndSession()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-sub.C():
			if !ok {
				return nil
			}
			if !l.active {
				l.StartSession(ev.SessionID)
			}
			l.Log(ev)
		}
	}
}

func elapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return strconv.FormatFloat(d.Seconds(), 'f', 2, 64)
}
