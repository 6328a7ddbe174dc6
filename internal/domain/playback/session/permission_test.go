// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package session

import (
	"context"
	"testing"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
	"github.com/ManuGH/sampleplayer/internal/metrics"
	"github.com/ManuGH/sampleplayer/internal/permission"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGatedHarness(t *testing.T) (*harness, *recordingRequester) {
	t.Helper()
	req := &recordingRequester{}
	h := newHarness(t, func(o *Options) {
		o.Gate = &permission.Gate{
			SDKVersion: permission.MinRuntimePermissionSDK,
			Checker:    permission.StaticChecker(false),
			Requester:  req,
		}
	})
	return h, req
}

func permissionCount(outcome string) float64 {
	return testutil.ToFloat64(metrics.PermissionRequestsTotal.WithLabelValues(outcome))
}

func TestPermission_RemoteContentSkipsGate(t *testing.T) {
	h, req := newGatedHarness(t)
	require.NoError(t, h.s.Start(context.Background(), remoteDash))
	assert.Zero(t, req.count())
	assert.Equal(t, model.SessionPreparing, flush(t, h.s).State)
}

func TestPermission_LocalContentWaits(t *testing.T) {
	h, req := newGatedHarness(t)
	require.NoError(t, h.s.Start(context.Background(), localFile))
	assert.Equal(t, 1, req.count())
	assert.Equal(t, model.SessionAwaitingPermission, flush(t, h.s).State)
	assert.Zero(t, h.f.count())

	// Showing while the request is outstanding does not issue another one.
	require.NoError(t, h.s.OnVisibilityShown(context.Background()))
	assert.Equal(t, 1, req.count())
}

func TestPermission_GrantedPrepares(t *testing.T) {
	h, _ := newGatedHarness(t)
	require.NoError(t, h.s.Start(context.Background(), localFile))
	before := permissionCount("granted")

	h.s.OnPermissionResult(permission.Result{RequestCode: permission.StorageRequestCode, Granted: true})
	snap := flush(t, h.s)
	assert.Equal(t, model.SessionPreparing, snap.State)
	require.Equal(t, 1, h.f.count())
	assert.Equal(t, 1, h.f.last().prepared)
	assert.Equal(t, before+1, permissionCount("granted"))
}

func TestPermission_DeniedReleasesWithoutPreparing(t *testing.T) {
	h, _ := newGatedHarness(t)
	ctx := context.Background()
	require.NoError(t, h.s.Start(ctx, localFile))
	before := permissionCount("denied")

	h.s.OnPermissionResult(permission.Result{RequestCode: permission.StorageRequestCode, Granted: false})
	snap := flush(t, h.s)
	assert.Equal(t, model.SessionReleased, snap.State)
	assert.Equal(t, model.RPermissionDenied, snap.Reason)
	assert.Zero(t, h.f.count())
	assert.Equal(t, before+1, permissionCount("denied"))

	require.ErrorIs(t, h.s.Start(ctx, localFile), ErrReleased)
	require.ErrorIs(t, h.s.OnVisibilityHidden(ctx), ErrReleased)

	events := h.drain(t)
	closes := ofKind(events, EventCloseScreen)
	require.Len(t, closes, 1)
	assert.Equal(t, model.RPermissionDenied, closes[0].Reason)
	assert.NotEmpty(t, closes[0].Message)
	assert.Equal(t, []model.SessionState{model.SessionAwaitingPermission, model.SessionReleased}, transitions(events))
}

func TestPermission_ResultAfterHideIsStale(t *testing.T) {
	h, _ := newGatedHarness(t)
	ctx := context.Background()
	require.NoError(t, h.s.Start(ctx, localFile))
	require.NoError(t, h.s.OnVisibilityHidden(ctx))
	require.Equal(t, model.SessionIdle, flush(t, h.s).State)
	before := permissionCount("stale")

	h.s.OnPermissionResult(permission.Result{RequestCode: permission.StorageRequestCode, Granted: true})
	assert.Equal(t, model.SessionIdle, flush(t, h.s).State)
	assert.Zero(t, h.f.count())
	assert.Equal(t, before+1, permissionCount("stale"))
}

func TestPermission_UnknownRequestCodeIgnored(t *testing.T) {
	h, _ := newGatedHarness(t)
	require.NoError(t, h.s.Start(context.Background(), localFile))

	h.s.OnPermissionResult(permission.Result{RequestCode: 7, Granted: false})
	assert.Equal(t, model.SessionAwaitingPermission, flush(t, h.s).State)
}

func TestPermission_AlreadyGrantedSkipsRequest(t *testing.T) {
	req := &recordingRequester{}
	h := newHarness(t, func(o *Options) {
		o.Gate = &permission.Gate{
			SDKVersion: permission.MinRuntimePermissionSDK,
			Checker:    permission.StaticChecker(true),
			Requester:  req,
		}
	})
	require.NoError(t, h.s.Start(context.Background(), localFile))
	assert.Zero(t, req.count())
	assert.Equal(t, model.SessionPreparing, flush(t, h.s).State)
}

func TestPermission_AutoResponderRoundTrip(t *testing.T) {
	responder := permission.NewAutoResponder(true)
	h := newHarness(t, func(o *Options) {
		o.Gate = &permission.Gate{
			SDKVersion: permission.MinRuntimePermissionSDK,
			Checker:    permission.StaticChecker(false),
			Requester:  responder,
		}
	})
	responder.Bind(h.s.OnPermissionResult)

	require.NoError(t, h.s.Start(context.Background(), localFile))
	responder.Wait()
	assert.Equal(t, model.SessionPreparing, flush(t, h.s).State)
	assert.Equal(t, 1, h.f.count())
}
