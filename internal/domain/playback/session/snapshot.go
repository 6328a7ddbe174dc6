// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package session

import (
	"context"
	"errors"
	"time"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
	xglog "github.com/ManuGH/sampleplayer/internal/log"
)

// Snapshot is a point-in-time view of the session for diagnostics.
type Snapshot struct {
	ID              string             `json:"id"`
	State           model.SessionState `json:"state"`
	Reason          model.ReasonCode   `json:"reason"`
	UpdatedAt       time.Time          `json:"updatedAt"`
	URI             string             `json:"uri,omitempty"`
	ContentID       string             `json:"contentId,omitempty"`
	ContentType     string             `json:"contentType,omitempty"`
	Provider        string             `json:"provider,omitempty"`
	HasPlayer       bool               `json:"hasPlayer"`
	PlayerState     model.PlayerState  `json:"playerState"`
	PlayWhenReady   bool               `json:"playWhenReady"`
	Backgrounded    bool               `json:"backgrounded"`
	BackgroundAudio bool               `json:"backgroundAudio"`
	NeedsPrepare    bool               `json:"needsPrepare"`
	PositionMs      int64              `json:"positionMs"`
	DurationMs      int64              `json:"durationMs"`
	VideoSize       model.VideoSize    `json:"videoSize"`
	LastError       *ErrorInfo         `json:"lastError,omitempty"`
}

// Snapshot returns the current view of the session. After Release it returns
// the view recorded at release time.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	snap, err := query(ctx, s, func() (Snapshot, error) { return s.snapshot(), nil })
	if errors.Is(err, ErrReleased) {
		if final := s.final.Load(); final != nil {
			return *final, nil
		}
	}
	return snap, err
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		ID:              s.id,
		State:           s.rec.State,
		Reason:          s.rec.Reason,
		UpdatedAt:       s.rec.UpdatedAt,
		HasPlayer:       s.player != nil,
		PlayerState:     s.playerState,
		PlayWhenReady:   s.playWhenReady,
		Backgrounded:    s.backgrounded,
		BackgroundAudio: s.backgroundAudio,
		NeedsPrepare:    s.needsPrepare,
		PositionMs:      s.lastKnownPositionMs,
		DurationMs:      model.NoValue,
		VideoSize:       s.videoSize,
	}
	if s.hasContent {
		snap.URI = xglog.MaskURI(s.content.URI)
		snap.ContentID = s.content.ContentID
		snap.ContentType = s.content.Type.String()
		snap.Provider = s.content.Provider
	}
	if s.player != nil {
		snap.PositionMs = s.player.CurrentPosition()
		snap.DurationMs = s.player.Duration()
		snap.PlayWhenReady = s.player.PlayWhenReady()
		snap.Backgrounded = s.player.Backgrounded()
	}
	if s.lastError != nil {
		e := *s.lastError
		snap.LastError = &e
	}
	return snap
}
