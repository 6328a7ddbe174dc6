// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package sim provides a simulated player. It consumes the renderer builder,
// reports preparing and ready asynchronously and advances its position on a
// ticker, which is enough to drive a session end to end without a decoder.
package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
	"github.com/ManuGH/sampleplayer/internal/domain/playback/ports"
	"github.com/ManuGH/sampleplayer/internal/errclass"
	xglog "github.com/ManuGH/sampleplayer/internal/log"
	"github.com/ManuGH/sampleplayer/internal/renderer"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPrepareDelay = 300 * time.Millisecond
	DefaultTick         = 250 * time.Millisecond
	DefaultDuration     = 10 * time.Minute
)

// Options tune the simulation.
type Options struct {
	PrepareDelay time.Duration
	Tick         time.Duration
	Duration     time.Duration
	// Tracks overrides the synthesized track list.
	Tracks map[model.TrackType][]model.TrackDescriptor
	// Failure, when set, is reported through OnError instead of becoming ready.
	Failure error
	// ExerciseDRM issues one key request through the pipeline's DRM callback
	// while preparing.
	ExerciseDRM bool
}

func (o *Options) defaults() {
	if o.PrepareDelay < 0 {
		o.PrepareDelay = 0
	}
	if o.Tick <= 0 {
		o.Tick = DefaultTick
	}
	if o.Duration <= 0 {
		o.Duration = DefaultDuration
	}
}

// Factory implements ports.PlayerFactory.
type Factory struct {
	opts   Options
	logger zerolog.Logger
}

// NewFactory returns a factory for simulated players.
func NewFactory(opts Options) *Factory {
	opts.defaults()
	return &Factory{opts: opts, logger: xglog.WithComponent("player.sim")}
}

// NewPlayer implements ports.PlayerFactory.
func (f *Factory) NewPlayer(b renderer.Builder, l ports.PlayerListener) (ports.Player, error) {
	if b == nil || l == nil {
		return nil, errors.New("sim: builder and listener are required")
	}
	tracks := f.opts.Tracks
	if tracks == nil {
		tracks = SynthesizeTracks(b.ContentType())
	}
	selected := make(map[model.TrackType]int, len(model.TrackTypes))
	for _, t := range model.TrackTypes {
		selected[t] = model.TrackDisabled
		if t != model.TrackText && len(tracks[t]) > 0 {
			selected[t] = 0
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	return &Player{
		opts:     f.opts,
		logger:   f.logger.With().Str("builder", string(b.Variant())).Logger(),
		builder:  b,
		listener: l,
		tracks:   tracks,
		selected: selected,
		ctx:      ctx,
		cancel:   cancel,
		g:        g,
		state:    model.PlayerIdle,
	}, nil
}

// Player is a simulated ports.Player.
type Player struct {
	opts     Options
	logger   zerolog.Logger
	builder  renderer.Builder
	listener ports.PlayerListener

	ctx    context.Context
	cancel context.CancelFunc
	g      *errgroup.Group

	mu            sync.Mutex
	state         model.PlayerState
	playWhenReady bool
	positionMs    int64
	backgrounded  bool
	surface       ports.Surface
	tracks        map[model.TrackType][]model.TrackDescriptor
	selected      map[model.TrackType]int
	prepared      bool
	released      bool
}

var _ ports.Player = (*Player)(nil)

// Prepare consumes the builder and starts the simulation goroutine. Only the
// first call has an effect.
func (p *Player) Prepare() {
	p.mu.Lock()
	if p.prepared || p.released {
		p.mu.Unlock()
		return
	}
	p.prepared = true
	p.mu.Unlock()

	p.g.Go(func() error {
		p.run(p.ctx)
		return nil
	})
}

func (p *Player) run(ctx context.Context) {
	p.setState(model.PlayerPreparing)

	pipeline, err := p.builder.Build(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.fail(&errclass.PlaybackError{Message: "renderer build failed", Cause: err})
		}
		return
	}
	p.logger.Debug().
		Str(xglog.FieldEvent, "player.pipeline").
		Str(xglog.FieldURI, xglog.MaskURI(pipeline.URI)).
		Msg("renderer pipeline built")

	if p.opts.ExerciseDRM && pipeline.DRM != nil {
		if _, err := pipeline.DRM.ExecuteKeyRequest(ctx, "", []byte("sim-key-request")); err != nil {
			if ctx.Err() == nil {
				p.fail(&errclass.UnsupportedDrmError{Reason: errclass.DrmReasonInstantiationError, Cause: err})
			}
			return
		}
	}

	if !sleep(ctx, p.opts.PrepareDelay) {
		return
	}
	if p.opts.Failure != nil {
		p.fail(p.opts.Failure)
		return
	}

	p.setState(model.PlayerReady)
	if w, h, ok := p.videoGeometry(); ok {
		p.listener.OnVideoSizeChanged(model.VideoSize{Width: w, Height: h, PixelWidthAspectRatio: 1})
	}

	ticker := time.NewTicker(p.opts.Tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.advance() {
				p.setState(model.PlayerEnded)
				return
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// advance moves the position by one tick and reports whether the end was reached.
func (p *Player) advance() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playWhenReady || p.state != model.PlayerReady {
		return false
	}
	p.positionMs += p.opts.Tick.Milliseconds()
	if p.positionMs >= p.opts.Duration.Milliseconds() {
		p.positionMs = p.opts.Duration.Milliseconds()
		return true
	}
	return false
}

func (p *Player) setState(s model.PlayerState) {
	p.mu.Lock()
	if p.released {
		p.mu.Unlock()
		return
	}
	p.state = s
	pwr := p.playWhenReady
	p.mu.Unlock()
	p.listener.OnStateChanged(pwr, s)
}

func (p *Player) fail(err error) {
	p.mu.Lock()
	released := p.released
	p.state = model.PlayerIdle
	p.mu.Unlock()
	if released {
		return
	}
	p.logger.Warn().Err(err).Str(xglog.FieldEvent, "player.error").Msg("simulated playback failure")
	p.listener.OnError(err)
}

func (p *Player) videoGeometry() (int, int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx := p.selected[model.TrackVideo]
	videos := p.tracks[model.TrackVideo]
	if idx < 0 || idx >= len(videos) {
		return 0, 0, false
	}
	d := videos[idx]
	if d.DisplayWidth == model.NoValue || d.DisplayHeight == model.NoValue {
		return 1280, 720, true
	}
	return d.DisplayWidth, d.DisplayHeight, true
}

func (p *Player) SetSurface(s ports.Surface) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.surface = s
}

// BlockingClearSurface detaches the surface. Frames are rendered under the
// player lock, so once it returns no frame references the old surface.
func (p *Player) BlockingClearSurface() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.surface = nil
}

func (p *Player) SetPlayWhenReady(v bool) {
	p.mu.Lock()
	changed := p.playWhenReady != v
	p.playWhenReady = v
	state := p.state
	released := p.released
	p.mu.Unlock()
	if changed && !released && state == model.PlayerReady {
		p.listener.OnStateChanged(v, state)
	}
}

func (p *Player) PlayWhenReady() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playWhenReady
}

func (p *Player) SeekTo(ms int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.positionMs = min(max(ms, 0), p.opts.Duration.Milliseconds())
}

func (p *Player) CurrentPosition() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionMs
}

func (p *Player) Duration() int64 {
	return p.opts.Duration.Milliseconds()
}

func (p *Player) SetBackgrounded(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.backgrounded = v
}

func (p *Player) Backgrounded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.backgrounded
}

func (p *Player) TrackCount(t model.TrackType) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tracks[t])
}

func (p *Player) TrackFormat(t model.TrackType, index int) model.TrackDescriptor {
	p.mu.Lock()
	defer p.mu.Unlock()
	list := p.tracks[t]
	if index < 0 || index >= len(list) {
		return model.UnknownTrack(t, index)
	}
	return list[index]
}

func (p *Player) SelectedTrack(t model.TrackType) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected[t]
}

func (p *Player) SelectTrack(t model.TrackType, index int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index != model.TrackDisabled && (index < 0 || index >= len(p.tracks[t])) {
		return
	}
	p.selected[t] = index
}

// Release stops the simulation and waits for its goroutine. Later calls do nothing.
func (p *Player) Release() {
	p.mu.Lock()
	if p.released {
		p.mu.Unlock()
		return
	}
	p.released = true
	p.state = model.PlayerIdle
	p.mu.Unlock()

	p.cancel()
	_ = p.g.Wait()
}

// State returns the simulated player state.
func (p *Player) State() model.PlayerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// FailureFor maps a category name to a representative failure, for
// rehearsing error handling. An empty name yields a nil failure.
func FailureFor(category string) (failure error, err error) {
	switch category {
	case "":
		return nil, nil
	case errclass.DrmUnsupportedScheme.String():
		return &errclass.UnsupportedDrmError{Reason: errclass.DrmReasonUnsupportedScheme}, nil
	case errclass.DrmUnknown.String():
		return &errclass.UnsupportedDrmError{Reason: errclass.DrmReasonUnknown}, nil
	case errclass.DecoderQueryFailed.String():
		return &errclass.DecoderInitError{MimeType: "video/avc", Cause: &errclass.DecoderQueryError{Cause: errors.New("codec list unavailable")}}, nil
	case errclass.NoSecureDecoder.String():
		return &errclass.DecoderInitError{MimeType: "video/avc", SecureRequired: true}, nil
	case errclass.NoDecoder.String():
		return &errclass.DecoderInitError{MimeType: "video/hevc"}, nil
	case errclass.DecoderInitFailed.String():
		return &errclass.DecoderInitError{MimeType: "video/avc", DecoderName: "OMX.sim.avc.decoder"}, nil
	case errclass.Unclassified.String():
		return errors.New("simulated renderer failure"), nil
	}
	return nil, fmt.Errorf("unknown failure category %q", category)
}
