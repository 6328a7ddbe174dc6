// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package debugview

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
	"github.com/ManuGH/sampleplayer/internal/domain/playback/session"
	"github.com/ManuGH/sampleplayer/internal/log"
	"github.com/ManuGH/sampleplayer/internal/trackmenu"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type fakeSession struct {
	snap     session.Snapshot
	snapErr  error
	applyErr error
	retryErr error
	applied  []int
	retries  int
	bgAudio  []bool
}

func (f *fakeSession) SetBackgroundAudio(_ context.Context, enabled bool) error {
	f.bgAudio = append(f.bgAudio, enabled)
	return nil
}

func (f *fakeSession) Snapshot(context.Context) (session.Snapshot, error) { return f.snap, f.snapErr }

func (f *fakeSession) TrackMenu(_ context.Context, t model.TrackType) (trackmenu.Menu, error) {
	if t == model.TrackText {
		return trackmenu.Menu{Type: t}, nil
	}
	return trackmenu.Menu{Type: t, Entries: []trackmenu.Entry{
		{ID: 1, TrackIndex: model.TrackDisabled, Label: trackmenu.LabelOff},
		{ID: 2, TrackIndex: 0, Label: "en, stereo", Selected: true},
	}}, nil
}

func (f *fakeSession) ApplyMenuChoice(_ context.Context, _ model.TrackType, id int) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, id)
	return nil
}

func (f *fakeSession) Retry(context.Context) error {
	f.retries++
	return f.retryErr
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) Problem {
	t.Helper()
	var p Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestHealthAndRequestID(t *testing.T) {
	h := New(Config{}, &fakeSession{}).Handler()
	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSessionSnapshot(t *testing.T) {
	f := &fakeSession{snap: session.Snapshot{ID: "abc", State: model.SessionPlaying, PositionMs: 1500}}
	h := New(Config{}, f).Handler()

	rec := do(t, h, http.MethodGet, "/debug/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, model.SessionPlaying, snap.State)
	assert.Equal(t, int64(1500), snap.PositionMs)

	f.snapErr = session.ErrReleased
	rec = do(t, h, http.MethodGet, "/debug/session", "")
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Equal(t, "SESSION_RELEASED", decodeProblem(t, rec).Code)

	f.snapErr = errors.New("boom")
	rec = do(t, h, http.MethodGet, "/debug/session", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTracks(t *testing.T) {
	f := &fakeSession{}
	h := New(Config{}, f).Handler()

	rec := do(t, h, http.MethodGet, "/debug/tracks/audio", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var menu menuResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &menu))
	assert.Equal(t, "audio", menu.Type)
	assert.True(t, menu.Available)
	assert.Len(t, menu.Entries, 2)

	rec = do(t, h, http.MethodGet, "/debug/tracks/text", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"entries":[]`)

	rec = do(t, h, http.MethodGet, "/debug/tracks/subtitles", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_TRACK_TYPE", decodeProblem(t, rec).Code)
}

func TestSelectTrack(t *testing.T) {
	f := &fakeSession{}
	h := New(Config{}, f).Handler()

	rec := do(t, h, http.MethodPost, "/debug/tracks/audio", `{"id":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{1}, f.applied)

	for _, body := range []string{``, `{}`, `{"id":1,"extra":true}`, `not json`} {
		rec = do(t, h, http.MethodPost, "/debug/tracks/audio", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	f.applyErr = &session.StateError{Op: "select", State: model.SessionPreparing}
	rec = do(t, h, http.MethodPost, "/debug/tracks/video", `{"id":2}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	f.applyErr = errors.New("no audio menu entry with id 9")
	rec = do(t, h, http.MethodPost, "/debug/tracks/audio", `{"id":9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeProblem(t, rec).Detail, "id 9")
}

func TestRetry(t *testing.T) {
	f := &fakeSession{}
	h := New(Config{}, f).Handler()

	rec := do(t, h, http.MethodPost, "/debug/session/retry", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	f.retryErr = &session.StateError{Op: "retry", State: model.SessionPlaying, Reason: "requires_error"}
	rec = do(t, h, http.MethodPost, "/debug/session/retry", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 2, f.retries)
}

func TestRateLimit(t *testing.T) {
	h := New(Config{RateLimit: 2, RateLimitWindow: time.Minute}, &fakeSession{}).Handler()
	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/debug/session", "").Code)
	}
	rec := do(t, h, http.MethodGet, "/debug/session", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// Health and metrics sit outside the limiter.
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := New(Config{}, &fakeSession{}).Handler()
	do(t, h, http.MethodGet, "/healthz", "")
	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sampleplayer_http_request_duration_seconds")
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	s := New(Config{}, &fakeSession{})
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestDebugRequestsAreTraced(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	h := New(Config{TracerProvider: tp}, &fakeSession{}).Handler()
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", "").Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/debug/session", "").Code)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "HTTP GET /debug/session", spans[0].Name())
}

func TestBackgroundAudioToggle(t *testing.T) {
	sess := &fakeSession{}
	h := New(Config{}, sess).Handler()

	rec := do(t, h, http.MethodPost, "/debug/background-audio", `{"enabled":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"enabled":true}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/debug/background-audio", `{"enabled":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []bool{true, false}, sess.bgAudio)

	for _, body := range []string{`{}`, `{"enabled":"yes"}`, `{"enabled":true,"extra":1}`} {
		rec = do(t, h, http.MethodPost, "/debug/background-audio", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Len(t, sess.bgAudio, 2)
}

func TestLoggingToggle(t *testing.T) {
	log.Configure(log.Config{Level: "info", Output: io.Discard})
	t.Cleanup(func() { log.Configure(log.Config{}) })
	h := New(Config{}, &fakeSession{}).Handler()

	rec := do(t, h, http.MethodPost, "/debug/logging", `{"verbose":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"verbose":true}`, rec.Body.String())
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	rec = do(t, h, http.MethodPost, "/debug/logging", `{"verbose":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	rec = do(t, h, http.MethodPost, "/debug/logging", `{"level":"debug"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, log.Verbose())
}
