// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package session

import (
	"slices"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/lifecycle"
	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
	"github.com/ManuGH/sampleplayer/internal/errclass"
	xglog "github.com/ManuGH/sampleplayer/internal/log"
	"github.com/ManuGH/sampleplayer/internal/metadata"
	"github.com/ManuGH/sampleplayer/internal/metrics"
)

// ErrorInfo is the last classified playback failure.
type ErrorInfo struct {
	Category errclass.Category `json:"category"`
	Message  string            `json:"message,omitempty"`
	Detail   string            `json:"detail"`
}

// playerListener queues player callbacks onto the run loop. Callbacks from a
// player that has since been released are discarded.
type playerListener struct {
	s   *Session
	gen uint64
}

func (l *playerListener) deliver(fn func()) {
	l.s.post(func() {
		if l.gen != l.s.playerGen || l.s.player == nil {
			return
		}
		fn()
	})
}

func (l *playerListener) OnStateChanged(playWhenReady bool, state model.PlayerState) {
	l.deliver(func() { l.s.handlePlayerState(playWhenReady, state) })
}

func (l *playerListener) OnError(err error) {
	l.deliver(func() { l.s.handlePlayerError(err) })
}

func (l *playerListener) OnVideoSizeChanged(size model.VideoSize) {
	l.deliver(func() {
		l.s.videoSize = size
		l.s.emit(Event{Kind: EventVideoSizeChanged, VideoSize: size})
	})
}

func (l *playerListener) OnCues(cues []model.Cue) {
	cues = slices.Clone(cues)
	l.deliver(func() { l.s.emit(Event{Kind: EventCues, Cues: cues}) })
}

func (l *playerListener) OnID3Metadata(frames []metadata.Frame) {
	frames = slices.Clone(frames)
	l.deliver(func() { l.s.handleMetadata(frames) })
}

func (s *Session) handlePlayerState(playWhenReady bool, ps model.PlayerState) {
	prev := s.playerState
	s.playerState = ps
	if prev != ps {
		s.logger.Debug().
			Str(xglog.FieldEvent, "player.state").
			Str(xglog.FieldPlayerState, string(ps)).
			Bool("play_when_ready", playWhenReady).
			Msg("player state changed")
	}
	s.emit(Event{Kind: EventPlayerStateChanged, PlayerState: ps, PlayWhenReady: playWhenReady})

	switch ps {
	case model.PlayerReady:
		becameReady := s.dispatchIfAllowed(lifecycle.EvPlayerReady)
		s.syncTransport(playWhenReady)
		if becameReady {
			s.emit(Event{Kind: EventTracksChanged})
		}
	case model.PlayerEnded:
		s.emit(Event{Kind: EventShowControls})
	}
}

// syncTransport moves between Ready, Playing and Paused to follow the
// player's play-when-ready flag.
func (s *Session) syncTransport(playWhenReady bool) {
	if playWhenReady {
		s.dispatchIfAllowed(lifecycle.EvPlayRequested)
		return
	}
	s.dispatchIfAllowed(lifecycle.EvPauseRequested)
}

func (s *Session) handlePlayerError(err error) {
	c := errclass.Classify(err, s.opts.SDKVersion)
	metrics.IncPlaybackError(c.Category.String())
	s.needsPrepare = true
	s.lastError = &ErrorInfo{Category: c.Category, Message: c.Message}
	if err != nil {
		s.lastError.Detail = err.Error()
	}

	s.logger.Error().Err(err).
		Str(xglog.FieldEvent, "player.error").
		Str(xglog.FieldCategory, c.Category.String()).
		Str(xglog.FieldOldState, string(s.state())).
		Msg("playback failed")

	if lifecycle.Allowed(s.state(), lifecycle.EvPlayerFailed) {
		_ = s.dispatch(lifecycle.EvPlayerFailed, model.RPlaybackFailed)
	}
	s.emit(Event{Kind: EventErrorClassified, Category: c.Category, Message: c.Message, Err: err})
	s.emit(Event{Kind: EventRetryAvailable, Retry: true})
	s.emit(Event{Kind: EventShowControls})
}

func (s *Session) handleMetadata(frames []metadata.Frame) {
	s.meta.LogFrames(frames)
	descs := make([]metadata.Description, 0, len(frames))
	for _, f := range frames {
		descs = append(descs, metadata.Describe(f))
	}
	s.emit(Event{Kind: EventMetadata, Metadata: descs})
}
