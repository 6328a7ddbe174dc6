// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
	"github.com/ManuGH/sampleplayer/internal/domain/playback/ports"
	"github.com/ManuGH/sampleplayer/internal/renderer"
	"github.com/stretchr/testify/require"
)

type fakeSurface string

func (f fakeSurface) SurfaceID() string { return string(f) }

// fakePlayer records every call the session makes. Callbacks are driven by
// the test through listener.
type fakePlayer struct {
	mu sync.Mutex

	id       int
	builder  renderer.Builder
	listener ports.PlayerListener

	calls        []string
	prepared     int
	surface      ports.Surface
	cleared      int
	playWhenRdy  bool
	position     int64
	seeks        []int64
	backgrounded bool
	released     bool
	tracks       map[model.TrackType][]model.TrackDescriptor
	selected     map[model.TrackType]int
}

func (p *fakePlayer) record(format string, args ...any) {
	p.calls = append(p.calls, fmt.Sprintf(format, args...))
}

func (p *fakePlayer) Prepare() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prepared++
	p.record("prepare")
}

func (p *fakePlayer) SetSurface(s ports.Surface) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.surface = s
	p.record("set_surface")
}

func (p *fakePlayer) BlockingClearSurface() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.surface = nil
	p.cleared++
	p.record("clear_surface")
}

func (p *fakePlayer) SetPlayWhenReady(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playWhenRdy = v
	p.record("play_when_ready=%t", v)
}

func (p *fakePlayer) PlayWhenReady() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playWhenRdy
}

func (p *fakePlayer) SeekTo(ms int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = ms
	p.seeks = append(p.seeks, ms)
	p.record("seek=%d", ms)
}

func (p *fakePlayer) CurrentPosition() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

func (p *fakePlayer) Duration() int64 { return 600_000 }

func (p *fakePlayer) SetBackgrounded(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.backgrounded = v
	p.record("backgrounded=%t", v)
}

func (p *fakePlayer) Backgrounded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.backgrounded
}

func (p *fakePlayer) TrackCount(t model.TrackType) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tracks[t])
}

func (p *fakePlayer) TrackFormat(t model.TrackType, i int) model.TrackDescriptor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tracks[t][i]
}

func (p *fakePlayer) SelectedTrack(t model.TrackType) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected[t]
}

func (p *fakePlayer) SelectTrack(t model.TrackType, i int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected[t] = i
	p.record("select_%s=%d", t, i)
}

func (p *fakePlayer) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released = true
	p.record("release")
}

func (p *fakePlayer) setPosition(ms int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = ms
}

func (p *fakePlayer) isReleased() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.released
}

func (p *fakePlayer) callLog() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func defaultTracks() map[model.TrackType][]model.TrackDescriptor {
	v0 := model.UnknownTrack(model.TrackVideo, 0)
	v0.Adaptive = true
	v1 := model.UnknownTrack(model.TrackVideo, 1)
	v1.DisplayWidth, v1.DisplayHeight, v1.Bitrate = 1920, 1080, 2_000_000
	a0 := model.UnknownTrack(model.TrackAudio, 0)
	a0.Language, a0.ChannelCount, a0.SampleRate = "en", 2, 48000
	a1 := model.UnknownTrack(model.TrackAudio, 1)
	a1.Language = "und"
	t0 := model.UnknownTrack(model.TrackText, 0)
	t0.Language = "de"
	return map[model.TrackType][]model.TrackDescriptor{
		model.TrackVideo: {v0, v1},
		model.TrackAudio: {a0, a1},
		model.TrackText:  {t0},
	}
}

// fakeFactory builds fakePlayers and fails the test if a player is built
// while an earlier one is still live.
type fakeFactory struct {
	t  *testing.T
	mu sync.Mutex

	players []*fakePlayer
	err     error
}

func (f *fakeFactory) NewPlayer(b renderer.Builder, l ports.PlayerListener) (ports.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.players {
		if !p.isReleased() {
			f.t.Errorf("player %d built while player %d is still live", len(f.players), p.id)
		}
	}
	p := &fakePlayer{
		id:       len(f.players),
		builder:  b,
		listener: l,
		tracks:   defaultTracks(),
		selected: map[model.TrackType]int{model.TrackVideo: 0, model.TrackAudio: 0, model.TrackText: model.TrackDisabled},
	}
	f.players = append(f.players, p)
	return p, nil
}

func (f *fakeFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.players)
}

func (f *fakeFactory) last() *fakePlayer {
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(f.t, f.players, "no player built")
	return f.players[len(f.players)-1]
}

type recordingRequester struct {
	mu    sync.Mutex
	codes []int
}

func (r *recordingRequester) RequestStorageRead(code int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, code)
	return nil
}

func (r *recordingRequester) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.codes)
}

type countingMonitor struct {
	mu          sync.Mutex
	caps        model.AudioCapabilities
	listener    ports.CapabilitiesListener
	registers   int
	unregisters int
}

func (m *countingMonitor) Register(l ports.CapabilitiesListener) (model.AudioCapabilities, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registers++
	m.listener = l
	return m.caps, nil
}

func (m *countingMonitor) Unregister() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unregisters++
	return nil
}

func (m *countingMonitor) push(c model.AudioCapabilities) {
	m.mu.Lock()
	l := m.listener
	m.mu.Unlock()
	l.OnAudioCapabilitiesChanged(c)
}

// flush waits until every task queued so far has run.
func flush(t *testing.T, s *Session) Snapshot {
	t.Helper()
	snap, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	return snap
}

type failingSelector struct{}

func (failingSelector) Select(renderer.Request) (renderer.Builder, error) {
	return nil, errors.New("no pipeline available")
}
