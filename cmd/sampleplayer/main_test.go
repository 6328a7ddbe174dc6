// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	xglog "github.com/ManuGH/sampleplayer/internal/log"
	"github.com/ManuGH/sampleplayer/internal/samples"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockedBuffer serializes writes from concurrent loggers.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func fastConfig(t *testing.T, extra string) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "config.yaml", "logLevel: debug\nplayer:\n  prepareDelay: 10ms\n  tick: 10ms\n"+extra)
}

func TestParseFlags(t *testing.T) {
	o, err := parseFlags([]string{"-config", "c.yaml", "-sample", "x", "-keys"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "c.yaml", o.configPath)
	assert.Equal(t, "x", o.sample)
	assert.True(t, o.keys)

	_, err = parseFlags([]string{"extra"}, &bytes.Buffer{})
	require.Error(t, err)

	_, err = parseFlags([]string{"-h"}, &bytes.Buffer{})
	require.ErrorIs(t, err, flag.ErrHelp)
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-version"}, nil, &out, &lockedBuffer{}))
	assert.True(t, strings.HasPrefix(out.String(), "sampleplayer "))
}

func TestRun_List(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-list"}, nil, &out, &lockedBuffer{}))

	first, err := samples.Default().First()
	require.NoError(t, err)
	assert.Contains(t, out.String(), first.Name)
	assert.Contains(t, out.String(), first.URI)
}

func TestRun_UnknownSample(t *testing.T) {
	err := run(context.Background(), []string{"-sample", "does not exist"}, nil, &bytes.Buffer{}, &lockedBuffer{})
	require.ErrorIs(t, err, samples.ErrNotFound)
}

func TestRun_InvalidConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "network:\n  cookiePolicy: accept_some\n")
	err := run(context.Background(), []string{"-config", path}, nil, &bytes.Buffer{}, &lockedBuffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Network.CookiePolicy")
}

func TestRun_PlaysUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	logs := &lockedBuffer{}
	err := run(ctx, []string{"-config", fastConfig(t, "")}, nil, &bytes.Buffer{}, logs)
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, `"event":"sampleplayer.started"`)
	assert.Contains(t, out, `"event":"eventlog.state_changed"`)
	assert.Contains(t, out, `"new_state":"PLAYING"`)
	assert.Contains(t, out, `"new_state":"RELEASED"`)
}

func TestRun_QuitFromInput(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logs := &lockedBuffer{}
	stdin := strings.NewReader("ff\nhide\nshow\nquit\n")
	err := run(ctx, []string{"-config", fastConfig(t, ""), "-keys"}, stdin, &bytes.Buffer{}, logs)
	require.NoError(t, err)
	require.NoError(t, ctx.Err(), "run should return on quit, not on timeout")
	assert.Contains(t, logs.String(), `"new_state":"RELEASED"`)
}

func TestRun_ToggleCommands(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	t.Cleanup(func() { xglog.SetVerbose(false) })

	logs := &lockedBuffer{}
	stdin := strings.NewReader("bgaudio on\nverbose on\nbgaudio maybe\nquit\n")
	err := run(ctx, []string{"-config", fastConfig(t, ""), "-keys"}, stdin, &bytes.Buffer{}, logs)
	require.NoError(t, err)
	require.NoError(t, ctx.Err())

	out := logs.String()
	assert.Contains(t, out, `"event":"session.background_audio"`)
	assert.Contains(t, out, `"enabled":true`)
	assert.Contains(t, out, `"verbose":true`)
	assert.Contains(t, out, `want on or off, got \"maybe\"`)
}

func TestParseToggle(t *testing.T) {
	on, err := parseToggle("", false)
	require.NoError(t, err)
	assert.True(t, on)
	on, err = parseToggle("off", true)
	require.NoError(t, err)
	assert.False(t, on)
	_, err = parseToggle("sometimes", true)
	assert.Error(t, err)
}

func TestRun_DeniedPermissionClosesScreen(t *testing.T) {
	dir := t.TempDir()
	catalog := writeFile(t, dir, "samples.yaml", `
groups:
  - title: Local
    samples:
      - name: local clip
        uri: file:///sdcard/clip.mp4
`)
	cfg := fastConfig(t, "samples:\n  path: "+catalog+"\n")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logs := &lockedBuffer{}
	err := run(ctx, []string{"-config", cfg, "-deny-permission"}, nil, &bytes.Buffer{}, logs)
	require.NoError(t, err)
	require.NoError(t, ctx.Err(), "run should return once the screen closes")
	assert.Contains(t, logs.String(), `"event":"eventlog.close_screen"`)
}

func TestRun_SimulatedFailureIsLogged(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	logs := &lockedBuffer{}
	cfg := fastConfig(t, "  simulateFailure: no_secure_decoder\n")
	require.NoError(t, run(ctx, []string{"-config", cfg}, nil, &bytes.Buffer{}, logs))
	assert.Contains(t, logs.String(), `"category":"no_secure_decoder"`)
}
