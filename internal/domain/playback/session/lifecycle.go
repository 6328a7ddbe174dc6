// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package session

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/lifecycle"
	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
	xglog "github.com/ManuGH/sampleplayer/internal/log"
	"github.com/ManuGH/sampleplayer/internal/metrics"
	"github.com/ManuGH/sampleplayer/internal/permission"
	"github.com/ManuGH/sampleplayer/internal/renderer"
	"github.com/ManuGH/sampleplayer/internal/telemetry"
)

// Start begins playback of content. The session must be Idle. For local
// content that needs a storage permission the session waits in
// AwaitingPermission until OnPermissionResult delivers the answer.
func (s *Session) Start(ctx context.Context, content model.Content) error {
	return s.do(ctx, func() error {
		if s.state() != model.SessionIdle {
			return rejected("start", s.state(), lifecycle.EvStartRequested)
		}
		if !content.Type.Valid() {
			err := fmt.Errorf("start: %w: %s", renderer.ErrUnsupportedContentType, content.Type)
			s.logger.Error().Err(err).
				Str(xglog.FieldEvent, "session.unsupported_content").
				Str(xglog.FieldURI, xglog.MaskURI(content.URI)).
				Msg("content type outside the supported set")
			return err
		}
		if s.hasContent && s.content.URI != content.URI {
			s.lastKnownPositionMs = 0
		}
		s.content = content
		s.hasContent = true
		return s.startCurrent(ctx)
	})
}

// startCurrent runs the start path for s.content on the loop.
func (s *Session) startCurrent(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "session.start")
	var err error
	defer func() { s.endSpan(span, err) }()

	s.logger.Info().
		Str(xglog.FieldEvent, "session.start").
		Str(xglog.FieldURI, xglog.MaskURI(s.content.URI)).
		Str(xglog.FieldContentType, s.content.Type.String()).
		Str(xglog.FieldContentID, s.content.ContentID).
		Int64(xglog.FieldPositionMs, s.lastKnownPositionMs).
		Msg("starting playback")

	if s.opts.Gate != nil {
		var pending bool
		pending, err = s.opts.Gate.MaybeRequest(s.content.URI)
		if err != nil {
			return err
		}
		if pending {
			metrics.IncPermissionRequest("requested")
			s.logger.Info().
				Str(xglog.FieldEvent, "session.permission_requested").
				Int("request_code", permission.StorageRequestCode).
				Msg("waiting for storage permission")
			err = s.dispatch(lifecycle.EvPermissionPending, "")
			return err
		}
	}

	err = s.buildPlayer(ctx, true, lifecycle.EvStartRequested)
	return err
}

// buildPlayer constructs, binds and prepares a new player. ev moves the
// session into Preparing.
func (s *Session) buildPlayer(_ context.Context, playWhenReady bool, ev lifecycle.EventKind) error {
	builder, err := s.opts.Selector.Select(renderer.Request{
		Type:      s.content.Type,
		URI:       s.content.URI,
		ContentID: s.content.ContentID,
		Provider:  s.content.Provider,
		UserAgent: s.opts.UserAgent,
	})
	if err != nil {
		s.logger.Error().Err(err).
			Str(xglog.FieldEvent, "session.select_failed").
			Str(xglog.FieldContentType, s.content.Type.String()).
			Msg("no renderer builder for content")
		return fmt.Errorf("select renderer: %w", err)
	}

	s.playerGen++
	gen := s.playerGen
	p, err := s.opts.Players.NewPlayer(builder, &playerListener{s: s, gen: gen})
	if err != nil {
		s.logger.Error().Err(err).Str(xglog.FieldEvent, "session.player_create_failed").Msg("player construction failed")
		return fmt.Errorf("create player: %w", err)
	}
	metrics.IncPlayerBuild(s.content.Type.String())

	s.player = p
	s.playerState = model.PlayerIdle
	s.lastError = nil
	p.SeekTo(s.lastKnownPositionMs)
	s.needsPrepare = true
	if err := s.dispatch(ev, ""); err != nil {
		return err
	}
	if s.surface != nil {
		p.SetSurface(s.surface)
	}
	if s.needsPrepare {
		p.Prepare()
		s.needsPrepare = false
	}
	p.SetPlayWhenReady(playWhenReady)
	s.playWhenReady = playWhenReady
	s.emit(Event{Kind: EventRetryAvailable, Retry: false})

	s.logger.Info().
		Str(xglog.FieldEvent, "session.prepare").
		Str("builder", string(builder.Variant())).
		Int64(xglog.FieldPositionMs, s.lastKnownPositionMs).
		Bool("play_when_ready", playWhenReady).
		Msg("player prepared")
	return nil
}

// releasePlayer releases the live player, caching its position.
func (s *Session) releasePlayer(reason model.ReasonCode) {
	if s.player == nil {
		return
	}
	s.lastKnownPositionMs = s.player.CurrentPosition()
	s.player.Release()
	s.player = nil
	s.playerGen++
	s.playerState = model.PlayerIdle
	s.backgrounded = false
	s.logger.Info().
		Str(xglog.FieldEvent, "session.teardown").
		Str(xglog.FieldReason, string(reason)).
		Int64(xglog.FieldPositionMs, s.lastKnownPositionMs).
		Msg("player released")
}

// teardown releases the player and returns the session to Idle.
func (s *Session) teardown(reason model.ReasonCode) {
	s.releasePlayer(reason)
	if lifecycle.Allowed(s.state(), lifecycle.EvTeardown) {
		_ = s.dispatch(lifecycle.EvTeardown, reason)
	}
}

// OnVisibilityHidden tears the player down and returns the session to Idle.
// Calling it again while Idle does nothing.
func (s *Session) OnVisibilityHidden(ctx context.Context) error {
	return s.do(ctx, func() error {
		if s.state() == model.SessionIdle {
			return nil
		}
		if s.state().IsTerminal() {
			return rejected("hide", s.state(), lifecycle.EvTeardown)
		}
		s.teardown(model.RHidden)
		return nil
	})
}

// OnVisibilityShown resumes the session. Without a live player the last
// content is started again; with one only the backgrounded flag is cleared.
func (s *Session) OnVisibilityShown(ctx context.Context) error {
	return s.do(ctx, func() error {
		switch {
		case s.player != nil:
			s.player.SetBackgrounded(false)
			s.backgrounded = false
			return nil
		case s.state() == model.SessionAwaitingPermission:
			return nil
		case s.state() != model.SessionIdle:
			return rejected("show", s.state(), lifecycle.EvStartRequested)
		case !s.hasContent:
			return ErrNoContent
		default:
			return s.startCurrent(ctx)
		}
	})
}

// OnPause is the host's pause hook. With background audio enabled the player
// keeps running in the background; otherwise the session is hidden.
func (s *Session) OnPause(ctx context.Context) error {
	return s.do(ctx, func() error {
		if s.player != nil && s.backgroundAudio {
			s.player.SetBackgrounded(true)
			s.backgrounded = true
			return nil
		}
		if s.state() == model.SessionIdle || s.state().IsTerminal() {
			return nil
		}
		s.teardown(model.RHidden)
		return nil
	})
}

// OnAudioCapabilitiesChanged implements ports.CapabilitiesListener.
func (s *Session) OnAudioCapabilitiesChanged(caps model.AudioCapabilities) {
	s.post(func() {
		if err := s.rebuild(context.Background(), caps); err != nil {
			s.logger.Error().Err(err).Str(xglog.FieldEvent, "session.rebuild_failed").Msg("capability rebuild failed")
		}
	})
}

// RebuildForCapabilities rebuilds the player for new audio capabilities,
// preserving the backgrounded and play-when-ready flags and the position.
// It does nothing when there is no live player or the capabilities are unchanged.
func (s *Session) RebuildForCapabilities(ctx context.Context, caps model.AudioCapabilities) error {
	return s.do(ctx, func() error { return s.rebuild(ctx, caps) })
}

func (s *Session) rebuild(ctx context.Context, caps model.AudioCapabilities) error {
	if s.state().IsTerminal() {
		return nil
	}
	changed := !s.caps.Equal(caps)
	s.caps = caps
	if s.player == nil || !changed {
		return nil
	}

	ctx, span := s.startSpan(ctx, "session.rebuild")
	backgrounded := s.player.Backgrounded()
	playWhenReady := s.player.PlayWhenReady()

	s.teardown(model.RCapabilitiesChanged)
	span.SetAttributes(telemetry.RebuildAttributes(backgrounded, playWhenReady, s.lastKnownPositionMs)...)
	err := s.buildPlayer(ctx, playWhenReady, lifecycle.EvStartRequested)
	if err == nil {
		s.player.SetBackgrounded(backgrounded)
		s.backgrounded = backgrounded
		metrics.IncSessionRebuild()
		s.logger.Info().
			Str(xglog.FieldEvent, "session.rebuild").
			Strs("encodings", caps.Encodings).
			Int("max_channels", caps.MaxChannelCount).
			Bool("backgrounded", backgrounded).
			Bool("play_when_ready", playWhenReady).
			Msg("player rebuilt for new audio capabilities")
	}
	s.endSpan(span, err)
	return err
}

// Retry discards the failed player and prepares a fresh one. It is the only
// recovery path out of Error.
func (s *Session) Retry(ctx context.Context) error {
	return s.do(ctx, func() error {
		if s.state() != model.SessionError {
			return &StateError{Op: "retry", State: s.state(), Reason: "requires_error"}
		}
		ctx, span := s.startSpan(ctx, "session.retry")
		s.teardown(model.RRetry)
		err := s.buildPlayer(ctx, true, lifecycle.EvStartRequested)
		s.endSpan(span, err)
		return err
	})
}

// OnPermissionResult delivers the answer to a storage permission request.
// Answers that arrive after the session stopped waiting are ignored.
func (s *Session) OnPermissionResult(res permission.Result) {
	s.post(func() { s.applyPermissionResult(res) })
}

func (s *Session) applyPermissionResult(res permission.Result) {
	if res.RequestCode != permission.StorageRequestCode {
		s.logger.Warn().Int("request_code", res.RequestCode).
			Str(xglog.FieldEvent, "session.permission_unknown_code").
			Msg("ignoring result for unknown permission request")
		return
	}
	if s.state() != model.SessionAwaitingPermission {
		metrics.IncPermissionRequest("stale")
		s.logger.Info().Str(xglog.FieldEvent, "session.permission_stale").
			Str(xglog.FieldOldState, string(s.state())).
			Msg("permission result arrived after the request was abandoned")
		return
	}

	if !res.Granted {
		metrics.IncPermissionRequest("denied")
		_ = s.dispatch(lifecycle.EvPermissionDenied, model.RPermissionDenied)
		s.logger.Warn().Str(xglog.FieldEvent, "session.permission_denied").Msg("storage permission denied; closing screen")
		s.emit(Event{Kind: EventCloseScreen, Reason: model.RPermissionDenied, Message: "Permission to access storage was denied"})
		return
	}

	metrics.IncPermissionRequest("granted")
	if err := s.buildPlayer(context.Background(), true, lifecycle.EvPermissionGranted); err != nil {
		_ = s.dispatch(lifecycle.EvTeardown, model.RUnsupportedContent)
	}
}

// Release tears the session down for good. It must be called exactly once;
// every later call returns ErrReleased.
func (s *Session) Release(ctx context.Context) error {
	var finalized atomic.Bool
	err := s.do(ctx, func() error {
		if s.finalized {
			return ErrReleased
		}
		_, span := s.startSpan(ctx, "session.release")
		if s.state() != model.SessionReleased {
			s.releasePlayer(model.RClientRelease)
			_ = s.dispatch(lifecycle.EvRelease, model.RClientRelease)
		}
		var err error
		if s.monitorRegistered {
			s.monitorRegistered = false
			if uerr := s.opts.Monitor.Unregister(); uerr != nil {
				err = fmt.Errorf("unregister capabilities monitor: %w", uerr)
			}
		}
		s.finalized = true
		finalized.Store(true)
		snap := s.snapshot()
		s.final.Store(&snap)
		s.endSpan(span, err)
		s.logger.Info().Str(xglog.FieldEvent, "session.released").Msg("playback session released")
		s.events.Close()
		return err
	})
	if finalized.Load() {
		s.loop.Close()
	}
	return err
}
