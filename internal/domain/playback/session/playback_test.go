// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
	"github.com/ManuGH/sampleplayer/internal/errclass"
	xglog "github.com/ManuGH/sampleplayer/internal/log"
	"github.com/ManuGH/sampleplayer/internal/metadata"
	"github.com/ManuGH/sampleplayer/internal/telemetry"
	"github.com/ManuGH/sampleplayer/internal/trackmenu"
	"github.com/ManuGH/sampleplayer/internal/transport"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracks_PassThroughWithoutPlayer(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	n, err := h.s.TrackCount(ctx, model.TrackAudio)
	require.NoError(t, err)
	assert.Zero(t, n)

	sel, err := h.s.SelectedTrack(ctx, model.TrackText)
	require.NoError(t, err)
	assert.Equal(t, model.TrackDisabled, sel)

	require.NoError(t, h.s.SelectTrack(ctx, model.TrackAudio, 1))

	menu, err := h.s.TrackMenu(ctx, model.TrackVideo)
	require.NoError(t, err)
	assert.False(t, menu.Available())
}

func TestTracks_DisablingAudioLeavesOtherTypes(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	require.NoError(t, h.s.Start(ctx, remoteDash))

	require.NoError(t, h.s.SelectTrack(ctx, model.TrackAudio, model.TrackDisabled))

	for tt, want := range map[model.TrackType]int{
		model.TrackVideo: 0,
		model.TrackAudio: model.TrackDisabled,
		model.TrackText:  model.TrackDisabled,
	} {
		got, err := h.s.SelectedTrack(ctx, tt)
		require.NoError(t, err)
		assert.Equal(t, want, got, tt.String())
	}

	var selects []string
	for _, c := range h.f.last().callLog() {
		if len(c) > 7 && c[:7] == "select_" {
			selects = append(selects, c)
		}
	}
	assert.Equal(t, []string{"select_audio=-1"}, selects)

	events := h.drain(t)
	changed := ofKind(events, EventTracksChanged)
	require.Len(t, changed, 1)
	assert.Equal(t, model.TrackAudio, changed[0].TrackType)
	assert.Equal(t, model.TrackDisabled, changed[0].Track)
}

func TestTracks_OutOfRangeRejected(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	require.NoError(t, h.s.Start(ctx, remoteDash))

	require.Error(t, h.s.SelectTrack(ctx, model.TrackText, 3))
	_, err := h.s.TrackFormat(ctx, model.TrackVideo, 2)
	require.Error(t, err)

	desc, err := h.s.TrackFormat(ctx, model.TrackVideo, 1)
	require.NoError(t, err)
	assert.Equal(t, 1080, desc.DisplayHeight)
}

func TestTracks_MenuChoice(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	require.NoError(t, h.s.Start(ctx, remoteDash))

	menu, err := h.s.TrackMenu(ctx, model.TrackAudio)
	require.NoError(t, err)
	require.Len(t, menu.Entries, 3)
	assert.Equal(t, trackmenu.LabelOff, menu.Entries[0].Label)
	cur, ok := menu.Selected()
	require.True(t, ok)
	assert.Equal(t, 0, cur.TrackIndex)

	require.NoError(t, h.s.ApplyMenuChoice(ctx, model.TrackAudio, menu.Entries[2].ID))
	sel, err := h.s.SelectedTrack(ctx, model.TrackAudio)
	require.NoError(t, err)
	assert.Equal(t, 1, sel)

	require.Error(t, h.s.ApplyMenuChoice(ctx, model.TrackAudio, 99))
}

func TestError_ClassifiedAndRetried(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	require.NoError(t, h.s.Start(ctx, remoteDash))
	first := h.f.last()
	first.listener.OnStateChanged(true, model.PlayerReady)

	err := h.s.Retry(ctx)
	var se *StateError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "requires_error", se.Reason)
	require.ErrorIs(t, err, ErrInvalidState)

	first.listener.OnError(&errclass.PlaybackError{
		Message: "renderer init failed",
		Cause:   &errclass.DecoderInitError{MimeType: "video/hevc", SecureRequired: true},
	})
	snap := flush(t, h.s)
	assert.Equal(t, model.SessionError, snap.State)
	assert.True(t, snap.NeedsPrepare)
	require.NotNil(t, snap.LastError)
	assert.Equal(t, errclass.NoSecureDecoder, snap.LastError.Category)
	assert.Equal(t, "This device does not provide a secure decoder for video/hevc", snap.LastError.Message)

	raw, err := json.Marshal(snap.LastError)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"category":"no_secure_decoder"`)

	require.NoError(t, h.s.Retry(ctx))
	require.Equal(t, 2, h.f.count())
	assert.True(t, first.isReleased())
	second := h.f.last()
	assert.Equal(t, 1, second.prepared)

	snap = flush(t, h.s)
	assert.Equal(t, model.SessionPreparing, snap.State)
	assert.False(t, snap.NeedsPrepare)
	assert.Nil(t, snap.LastError)

	events := h.drain(t)
	classified := ofKind(events, EventErrorClassified)
	require.Len(t, classified, 1)
	assert.Equal(t, errclass.NoSecureDecoder, classified[0].Category)

	var retry []bool
	for _, ev := range ofKind(events, EventRetryAvailable) {
		retry = append(retry, ev.Retry)
	}
	assert.Equal(t, []bool{false, true, false}, retry)
	assert.Len(t, ofKind(events, EventShowControls), 1)
}

func TestError_UnclassifiedHasNoMessage(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.s.Start(context.Background(), remoteHls))
	h.f.last().listener.OnError(errors.New("socket closed"))

	snap := flush(t, h.s)
	assert.Equal(t, model.SessionError, snap.State)
	require.NotNil(t, snap.LastError)
	assert.Equal(t, errclass.Unclassified, snap.LastError.Category)
	assert.Empty(t, snap.LastError.Message)
	assert.Equal(t, "socket closed", snap.LastError.Detail)
}

func TestError_FromPaused(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.s.Start(context.Background(), remoteDash))
	p := h.f.last()
	p.listener.OnStateChanged(false, model.PlayerReady)
	require.Equal(t, model.SessionPaused, flush(t, h.s).State)

	p.listener.OnError(&errclass.UnsupportedDrmError{Reason: errclass.DrmReasonUnsupportedScheme})
	snap := flush(t, h.s)
	assert.Equal(t, model.SessionError, snap.State)
	assert.Equal(t, errclass.DrmUnsupportedScheme, snap.LastError.Category)
}

func TestError_HiddenThenShownRebuilds(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	require.NoError(t, h.s.Start(ctx, remoteDash))
	p := h.f.last()
	p.setPosition(12_000)
	p.listener.OnError(&errclass.DecoderInitError{MimeType: "audio/ac3"})
	require.Equal(t, model.SessionError, flush(t, h.s).State)

	require.NoError(t, h.s.OnVisibilityHidden(ctx))
	require.NoError(t, h.s.OnVisibilityShown(ctx))
	assert.Equal(t, []int64{12_000}, h.f.last().seeks)
	assert.Equal(t, model.SessionPreparing, flush(t, h.s).State)
}

func TestStaleCallbacksAfterHide(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	require.NoError(t, h.s.Start(ctx, remoteDash))
	p := h.f.last()
	require.NoError(t, h.s.OnVisibilityHidden(ctx))

	p.listener.OnStateChanged(true, model.PlayerReady)
	p.listener.OnError(errors.New("late failure"))
	p.listener.OnCues([]model.Cue{{Text: "late"}})

	snap := flush(t, h.s)
	assert.Equal(t, model.SessionIdle, snap.State)
	assert.Nil(t, snap.LastError)

	events := h.drain(t)
	assert.Empty(t, ofKind(events, EventCues))
	assert.Empty(t, ofKind(events, EventErrorClassified))
}

func TestCuesAndMetadataForwarded(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.s.Start(context.Background(), remoteHls))
	l := h.f.last().listener

	l.OnCues([]model.Cue{{Text: "Hello", Line: 0.9}})
	l.OnID3Metadata([]metadata.Frame{
		metadata.TxxxFrame{ID: "TXXX", Description: "segment", Value: "42"},
		metadata.UnknownFrame{ID: "XYZW", Payload: []byte{1, 2}},
	})
	flush(t, h.s)

	events := h.drain(t)
	cues := ofKind(events, EventCues)
	require.Len(t, cues, 1)
	assert.Equal(t, "Hello", cues[0].Cues[0].Text)

	meta := ofKind(events, EventMetadata)
	require.Len(t, meta, 1)
	assert.Len(t, meta[0].Metadata, 2)
}

func TestControls_KeyDispatch(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	require.NoError(t, h.s.Start(ctx, remoteDash))
	p := h.f.last()

	c := h.s.Controls(ctx)
	assert.False(t, transport.DispatchKey(c, transport.KeyFastForward, transport.ActionDown), "not seekable while preparing")

	p.listener.OnStateChanged(true, model.PlayerReady)
	p.setPosition(1_000)
	assert.True(t, transport.DispatchKey(c, transport.KeyFastForward, transport.ActionDown))
	assert.Equal(t, int64(1_000+transport.SeekForwardMs), p.CurrentPosition())

	assert.True(t, transport.DispatchKey(c, transport.KeyPlayPause, transport.ActionDown))
	snap := flush(t, h.s)
	assert.Equal(t, model.SessionPaused, snap.State)
	assert.False(t, snap.PlayWhenReady)

	assert.False(t, transport.DispatchKey(c, transport.KeyBack, transport.ActionDown))

	events := h.drain(t)
	assert.Len(t, ofKind(events, EventShowControls), 1)
}

func TestStartSpan_CarriesSessionID(t *testing.T) {
	h := newHarness(t, nil)
	ctx, span := h.s.startSpan(context.Background(), "session.test")
	defer span.End()
	assert.Equal(t, h.s.ID(), xglog.SessionIDFromContext(ctx))

	var buf bytes.Buffer
	logger := xglog.WithContext(ctx, zerolog.New(&buf))
	logger.Info().Msg("x")
	assert.Contains(t, buf.String(), `"session_id":"`+h.s.ID()+`"`)
}

func TestSpans_RecordOperations(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := telemetry.NewRecordingProvider(sr)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	sel := failingSelector{}
	h := newHarness(t, func(o *Options) { o.Tracer = tp.Tracer() })
	ctx := context.Background()
	require.NoError(t, h.s.Start(ctx, remoteDash))
	require.NoError(t, h.s.RebuildForCapabilities(ctx, surround))
	require.NoError(t, h.s.Release(ctx))

	var names []string
	for _, span := range sr.Ended() {
		names = append(names, span.Name())
	}
	assert.Equal(t, []string{"session.start", "session.rebuild", "session.release"}, names)

	failing := newHarness(t, func(o *Options) {
		o.Tracer = tp.Tracer()
		o.Selector = sel
	})
	require.Error(t, failing.s.Start(ctx, remoteDash))
	ended := sr.Ended()
	last := ended[len(ended)-1]
	assert.Equal(t, "session.start", last.Name())
	assert.Equal(t, codes.Error, last.Status().Code)
}
