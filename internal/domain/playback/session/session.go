// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package session implements the playback session: it owns one player at a
// time and creates, tears down and rebuilds it as the host screen becomes
// visible or hidden and as device audio capabilities change.
//
// Every operation runs on the session's run loop. Public methods queue a task
// and wait for it; callbacks from the player, the capabilities monitor and the
// permission responder queue a task and return immediately. A task always runs
// to completion before the next one starts, so a rebuild never interleaves
// with any other operation.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ManuGH/sampleplayer/internal/bus"
	"github.com/ManuGH/sampleplayer/internal/domain/playback/lifecycle"
	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
	"github.com/ManuGH/sampleplayer/internal/domain/playback/ports"
	xglog "github.com/ManuGH/sampleplayer/internal/log"
	"github.com/ManuGH/sampleplayer/internal/metadata"
	"github.com/ManuGH/sampleplayer/internal/metrics"
	"github.com/ManuGH/sampleplayer/internal/runloop"
	"github.com/ManuGH/sampleplayer/internal/telemetry"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Session is a playback session. Create it with New; call Release exactly once.
type Session struct {
	id     string
	opts   Options
	logger zerolog.Logger
	tracer trace.Tracer
	now    func() time.Time

	loop   *runloop.Loop
	events *bus.Stream[Event]
	meta   *metadata.Logger
	final  atomic.Pointer[Snapshot]

	// Fields below are owned by the run loop.
	rec                 *lifecycle.Record
	content             model.Content
	hasContent          bool
	player              ports.Player
	playerGen           uint64
	playWhenReady       bool
	lastKnownPositionMs int64
	backgrounded        bool
	backgroundAudio     bool
	needsPrepare        bool
	surface             ports.Surface
	caps                model.AudioCapabilities
	playerState         model.PlayerState
	videoSize           model.VideoSize
	lastError           *ErrorInfo
	seq                 uint64
	finalized           bool
	monitorRegistered   bool
}

// New creates an Idle session and registers it with the capabilities monitor.
func New(opts Options) (*Session, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Tracer == nil {
		opts.Tracer = (*telemetry.Provider)(nil).Tracer()
	}
	if opts.MetadataLogInterval <= 0 {
		opts.MetadataLogInterval = 10 * time.Second
	}
	base := xglog.WithComponent("session")
	if opts.Logger != nil {
		base = opts.Logger.With().Str(xglog.FieldComponent, "session").Logger()
	}

	id := uuid.NewString()
	s := &Session{
		id:          id,
		opts:        opts,
		logger:      base.With().Str(xglog.FieldSessionID, id).Logger(),
		tracer:      opts.Tracer,
		now:         opts.Now,
		events:      bus.NewStream[Event]("session"),
		rec:         lifecycle.NewRecord(opts.Now()),
		playerState: model.PlayerIdle,
	}
	s.meta = metadata.NewLogger(s.logger, opts.MetadataLogInterval)

	s.loop = runloop.New("session-" + id[:8])

	if opts.Monitor != nil {
		var regErr error
		err := s.loop.Do(context.Background(), func() {
			var caps model.AudioCapabilities
			caps, regErr = opts.Monitor.Register(s)
			if regErr == nil {
				s.caps = caps
				s.monitorRegistered = true
			}
		})
		if err == nil {
			err = regErr
		}
		if err != nil {
			s.loop.Close()
			s.events.Close()
			return nil, fmt.Errorf("register capabilities monitor: %w", err)
		}
	}

	s.logger.Info().Str(xglog.FieldEvent, "session.created").Msg("playback session created")
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Subscribe returns an ordered subscription to the session's events. The
// subscription's channel closes after Release.
func (s *Session) Subscribe() *bus.Subscription[Event] {
	return s.events.Subscribe()
}

func (s *Session) do(ctx context.Context, fn func() error) error {
	var taskErr error
	err := s.loop.Do(ctx, func() { taskErr = fn() })
	if errors.Is(err, runloop.ErrStopped) {
		return ErrReleased
	}
	if err != nil {
		return err
	}
	return taskErr
}

func query[T any](ctx context.Context, s *Session, fn func() (T, error)) (T, error) {
	var out T
	err := s.do(ctx, func() error {
		v, err := fn()
		out = v
		return err
	})
	return out, err
}

// post queues a callback-originated task. Tasks offered after release are dropped.
func (s *Session) post(fn func()) {
	if !s.loop.Post(fn) {
		s.logger.Debug().Str(xglog.FieldEvent, "session.callback_dropped").Msg("callback after release ignored")
	}
}

func (s *Session) state() model.SessionState { return s.rec.State }

// dispatch applies a lifecycle event and publishes the resulting transition.
func (s *Session) dispatch(ev lifecycle.EventKind, reason model.ReasonCode) error {
	from := s.rec.State
	tr, err := lifecycle.Dispatch(s.rec, lifecycle.Event{Kind: ev, Reason: reason}, s.now())
	if err != nil {
		s.logger.Error().Err(err).
			Str(xglog.FieldEvent, "session.illegal_transition").
			Str(xglog.FieldOldState, string(from)).
			Str("lifecycle_event", ev.String()).
			Msg("lifecycle invariant violated")
	}
	if s.rec.State != from {
		metrics.IncSessionTransition(string(from), string(s.rec.State))
		s.logger.Info().
			Str(xglog.FieldEvent, "session.transition").
			Str(xglog.FieldOldState, string(from)).
			Str(xglog.FieldNewState, string(s.rec.State)).
			Str(xglog.FieldReason, string(s.rec.Reason)).
			Msg("session state changed")
		s.emit(Event{Kind: EventStateChanged, From: from, To: s.rec.State, Reason: tr.Reason})
	}
	return err
}

// dispatchIfAllowed applies ev only when the decision table accepts it in
// the current state.
func (s *Session) dispatchIfAllowed(ev lifecycle.EventKind) bool {
	if !lifecycle.Allowed(s.rec.State, ev) {
		return false
	}
	_ = s.dispatch(ev, "")
	return true
}

func (s *Session) emit(ev Event) {
	s.seq++
	ev.Seq = s.seq
	ev.SessionID = s.id
	if ev.At.IsZero() {
		ev.At = s.now()
	}
	s.events.Publish(ev)
}

// startSpan opens an operation span. The returned context carries the session
// id so context-derived loggers are correlated with it.
func (s *Session) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(xglog.ContextWithSessionID(ctx, s.id), name)
	span.SetAttributes(telemetry.PlaybackAttributes(s.id, s.content.Type.String(), s.content.ContentID, s.content.Provider)...)
	return ctx, span
}

func (s *Session) endSpan(span trace.Span, err error) {
	span.SetAttributes(telemetry.TransitionAttributes(string(s.rec.State), string(s.rec.Reason))...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
