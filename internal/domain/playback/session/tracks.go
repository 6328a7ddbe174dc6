// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package session

import (
	"context"
	"fmt"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
	xglog "github.com/ManuGH/sampleplayer/internal/log"
	"github.com/ManuGH/sampleplayer/internal/trackmenu"
)

// TrackCount returns the number of tracks of type t, or 0 without a player.
func (s *Session) TrackCount(ctx context.Context, t model.TrackType) (int, error) {
	return query(ctx, s, func() (int, error) {
		if s.player == nil {
			return 0, nil
		}
		return s.player.TrackCount(t), nil
	})
}

// SelectedTrack returns the selected index for type t, or TrackDisabled
// without a player.
func (s *Session) SelectedTrack(ctx context.Context, t model.TrackType) (int, error) {
	return query(ctx, s, func() (int, error) {
		if s.player == nil {
			return model.TrackDisabled, nil
		}
		return s.player.SelectedTrack(t), nil
	})
}

// TrackFormat returns the descriptor of one track.
func (s *Session) TrackFormat(ctx context.Context, t model.TrackType, index int) (model.TrackDescriptor, error) {
	return query(ctx, s, func() (model.TrackDescriptor, error) {
		if s.player == nil || index < 0 || index >= s.player.TrackCount(t) {
			return model.TrackDescriptor{}, fmt.Errorf("%s track %d: out of range", t, index)
		}
		return s.player.TrackFormat(t, index), nil
	})
}

// SelectTrack selects a track of type t; TrackDisabled turns the type off.
// Selections of other types are left alone. Without a player it does nothing.
func (s *Session) SelectTrack(ctx context.Context, t model.TrackType, index int) error {
	return s.do(ctx, func() error { return s.selectTrack(t, index) })
}

func (s *Session) selectTrack(t model.TrackType, index int) error {
	if s.player == nil {
		return nil
	}
	if index != model.TrackDisabled && (index < 0 || index >= s.player.TrackCount(t)) {
		return fmt.Errorf("select %s track %d: out of range", t, index)
	}
	s.player.SelectTrack(t, index)
	s.logger.Info().
		Str(xglog.FieldEvent, "session.select_track").
		Str(xglog.FieldTrackType, t.String()).
		Int(xglog.FieldTrackIndex, index).
		Msg("track selected")
	s.emit(Event{Kind: EventTracksChanged, TrackType: t, Track: index})
	return nil
}

// TrackMenu builds the selection menu for type t from the live player.
func (s *Session) TrackMenu(ctx context.Context, t model.TrackType) (trackmenu.Menu, error) {
	return query(ctx, s, func() (trackmenu.Menu, error) {
		if s.player == nil {
			return trackmenu.Menu{Type: t}, nil
		}
		return trackmenu.BuildMenu(t, s.player), nil
	})
}

// ApplyMenuChoice selects the track behind a menu entry id.
func (s *Session) ApplyMenuChoice(ctx context.Context, t model.TrackType, entryID int) error {
	return s.do(ctx, func() error {
		if s.player == nil {
			return nil
		}
		idx, err := trackmenu.BuildMenu(t, s.player).TrackIndexFor(entryID)
		if err != nil {
			return err
		}
		return s.selectTrack(t, idx)
	})
}
