// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ports

import (
	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
	"github.com/ManuGH/sampleplayer/internal/metadata"
	"github.com/ManuGH/sampleplayer/internal/renderer"
)

// Surface is an opaque output surface handle owned by the display layer.
type Surface interface {
	SurfaceID() string
}

// Player is the opaque decode/render engine driven by a playback session.
// Implementations deliver callbacks to the PlayerListener handed to the
// factory; callbacks may arrive on any goroutine.
type Player interface {
	Prepare()
	SetSurface(s Surface)
	// BlockingClearSurface returns only once no further frames reference the surface.
	BlockingClearSurface()
	SetPlayWhenReady(playWhenReady bool)
	PlayWhenReady() bool
	SeekTo(positionMs int64)
	CurrentPosition() int64
	Duration() int64
	SetBackgrounded(backgrounded bool)
	Backgrounded() bool
	TrackCount(t model.TrackType) int
	TrackFormat(t model.TrackType, index int) model.TrackDescriptor
	SelectedTrack(t model.TrackType) int
	SelectTrack(t model.TrackType, index int)
	Release()
}

// PlayerListener receives asynchronous player notifications.
type PlayerListener interface {
	OnStateChanged(playWhenReady bool, state model.PlayerState)
	OnError(err error)
	OnVideoSizeChanged(size model.VideoSize)
	OnCues(cues []model.Cue)
	OnID3Metadata(frames []metadata.Frame)
}

// PlayerFactory constructs a player around a renderer builder. The builder is
// consumed by the player's Prepare.
type PlayerFactory interface {
	NewPlayer(b renderer.Builder, l PlayerListener) (Player, error)
}

// PlayerFactoryFunc adapts a function to PlayerFactory.
type PlayerFactoryFunc func(b renderer.Builder, l PlayerListener) (Player, error)

// NewPlayer implements PlayerFactory.
func (f PlayerFactoryFunc) NewPlayer(b renderer.Builder, l PlayerListener) (Player, error) {
	return f(b, l)
}
