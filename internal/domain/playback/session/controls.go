// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package session

import (
	"context"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
	"github.com/ManuGH/sampleplayer/internal/domain/playback/ports"
	xglog "github.com/ManuGH/sampleplayer/internal/log"
	"github.com/ManuGH/sampleplayer/internal/transport"
)

// SetBackgrounded forwards the flag to the live player. Without a player it
// has no effect.
func (s *Session) SetBackgrounded(ctx context.Context, backgrounded bool) error {
	return s.do(ctx, func() error {
		if s.player == nil {
			return nil
		}
		s.player.SetBackgrounded(backgrounded)
		s.backgrounded = backgrounded
		return nil
	})
}

// SetBackgroundAudio toggles whether OnPause keeps audio playing.
func (s *Session) SetBackgroundAudio(ctx context.Context, enabled bool) error {
	return s.do(ctx, func() error {
		s.backgroundAudio = enabled
		s.logger.Info().Str(xglog.FieldEvent, "session.background_audio").Bool("enabled", enabled).Msg("background audio toggled")
		return nil
	})
}

// SetPlayWhenReady starts or pauses playback on the live player.
func (s *Session) SetPlayWhenReady(ctx context.Context, playWhenReady bool) error {
	return s.do(ctx, func() error {
		if s.player == nil {
			return requiresPlayer("set_play_when_ready", s.state())
		}
		s.player.SetPlayWhenReady(playWhenReady)
		s.playWhenReady = playWhenReady
		s.syncTransport(playWhenReady)
		return nil
	})
}

// SeekTo moves the live player. Negative positions clamp to zero.
func (s *Session) SeekTo(ctx context.Context, positionMs int64) error {
	return s.do(ctx, func() error {
		if s.player == nil {
			return requiresPlayer("seek", s.state())
		}
		s.player.SeekTo(max(positionMs, 0))
		return nil
	})
}

// Position reports the live player's position, or the position cached at the
// last teardown.
func (s *Session) Position(ctx context.Context) (int64, error) {
	return query(ctx, s, func() (int64, error) {
		if s.player == nil {
			return s.lastKnownPositionMs, nil
		}
		return s.player.CurrentPosition(), nil
	})
}

// SurfaceCreated binds the output surface, now or on the next player build.
func (s *Session) SurfaceCreated(ctx context.Context, surface ports.Surface) error {
	return s.do(ctx, func() error {
		s.surface = surface
		if s.player != nil {
			s.player.SetSurface(surface)
		}
		return nil
	})
}

// SurfaceDestroyed detaches the surface. It returns once the live player no
// longer renders into it.
func (s *Session) SurfaceDestroyed(ctx context.Context) error {
	return s.do(ctx, func() error {
		s.surface = nil
		if s.player != nil {
			s.player.BlockingClearSurface()
		}
		return nil
	})
}

// ShowControls asks the UI to show the transport controls.
func (s *Session) ShowControls(ctx context.Context) error {
	return s.do(ctx, func() error {
		s.emit(Event{Kind: EventShowControls})
		return nil
	})
}

func (s *Session) seekable() bool {
	switch s.state() {
	case model.SessionReady, model.SessionPlaying, model.SessionPaused:
		return s.player != nil
	}
	return false
}

// Controls returns the capability table used to route key input. Its
// functions block on the run loop and must not be called from a session
// callback.
func (s *Session) Controls(ctx context.Context) transport.Controls {
	canSeek := func() bool {
		ok, err := query(ctx, s, func() (bool, error) { return s.seekable(), nil })
		return err == nil && ok
	}
	return transport.Controls{
		CanSeekForward:  canSeek,
		CanSeekBackward: canSeek,
		Position: func() int64 {
			pos, _ := s.Position(ctx)
			return pos
		},
		SeekTo: func(positionMs int64) { _ = s.SeekTo(ctx, positionMs) },
		Show:   func() { _ = s.ShowControls(ctx) },
		TogglePlayPause: func() {
			_ = s.do(ctx, func() error {
				if s.player == nil {
					return nil
				}
				next := !s.player.PlayWhenReady()
				s.player.SetPlayWhenReady(next)
				s.playWhenReady = next
				s.syncTransport(next)
				return nil
			})
		},
	}
}
