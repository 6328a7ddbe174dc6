// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package permission

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestIsLocalFileURI(t *testing.T) {
	assert.True(t, IsLocalFileURI("/sdcard/Movies/a.mp4"))
	assert.True(t, IsLocalFileURI("file:///sdcard/a.mp4"))
	assert.True(t, IsLocalFileURI("FILE:///sdcard/a.mp4"))
	assert.False(t, IsLocalFileURI("https://example.com/a.mp4"))
	assert.False(t, IsLocalFileURI("content://media/external/1"))
	assert.False(t, IsLocalFileURI("%zz"))
}

func TestRequired(t *testing.T) {
	tests := []struct {
		uri     string
		sdk     int
		granted bool
		want    bool
	}{
		{"/sdcard/a.mp4", 23, false, true},
		{"/sdcard/a.mp4", 22, false, false},
		{"/sdcard/a.mp4", 23, true, false},
		{"https://example.com/a.mpd", 30, false, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Required(tt.uri, tt.sdk, tt.granted), "%+v", tt)
	}
}

type recordingRequester struct {
	codes []int
	err   error
}

func (r *recordingRequester) RequestStorageRead(code int) error {
	r.codes = append(r.codes, code)
	return r.err
}

func TestGate_MaybeRequest(t *testing.T) {
	req := &recordingRequester{}
	g := &Gate{SDKVersion: 23, Checker: StaticChecker(false), Requester: req}

	requested, err := g.MaybeRequest("file:///sdcard/a.mp4")
	require.NoError(t, err)
	assert.True(t, requested)
	assert.Equal(t, []int{StorageRequestCode}, req.codes)

	requested, err = g.MaybeRequest("https://example.com/a.m3u8")
	require.NoError(t, err)
	assert.False(t, requested)
	assert.Len(t, req.codes, 1)
}

func TestGate_NilCheckerMeansGranted(t *testing.T) {
	g := &Gate{SDKVersion: 30}
	assert.False(t, g.Required("/sdcard/a.mp4"))
}

func TestGate_RequesterFailure(t *testing.T) {
	g := &Gate{SDKVersion: 23, Checker: StaticChecker(false), Requester: &recordingRequester{err: errors.New("no ui")}}
	requested, err := g.MaybeRequest("/sdcard/a.mp4")
	require.Error(t, err)
	assert.False(t, requested)

	g.Requester = nil
	_, err = g.MaybeRequest("/sdcard/a.mp4")
	require.Error(t, err)
}

func TestAutoResponder(t *testing.T) {
	a := NewAutoResponder(true)
	require.Error(t, a.RequestStorageRead(StorageRequestCode))

	got := make(chan Result, 1)
	a.Bind(func(r Result) { got <- r })
	require.NoError(t, a.RequestStorageRead(StorageRequestCode))
	a.Wait()
	assert.Equal(t, Result{RequestCode: StorageRequestCode, Granted: true}, <-got)
}
