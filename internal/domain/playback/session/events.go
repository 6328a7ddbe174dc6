// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package session

import (
	"time"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
	"github.com/ManuGH/sampleplayer/internal/errclass"
	"github.com/ManuGH/sampleplayer/internal/metadata"
)

// EventKind identifies an outbound session event.
type EventKind string

const (
	EventStateChanged       EventKind = "state_changed"
	EventPlayerStateChanged EventKind = "player_state_changed"
	EventErrorClassified    EventKind = "error_classified"
	EventRetryAvailable     EventKind = "retry_available"
	EventVideoSizeChanged   EventKind = "video_size_changed"
	EventCues               EventKind = "cues"
	EventMetadata           EventKind = "metadata"
	EventTracksChanged      EventKind = "tracks_changed"
	EventShowControls       EventKind = "show_controls"
	EventCloseScreen        EventKind = "close_screen"
)

// Event is one entry of the session's ordered outbound stream. Only the
// fields relevant to Kind are set.
type Event struct {
	Seq       uint64
	Kind      EventKind
	At        time.Time
	SessionID string

	From   model.SessionState
	To     model.SessionState
	Reason model.ReasonCode

	PlayWhenReady bool
	PlayerState   model.PlayerState

	Category errclass.Category
	Message  string
	Err      error
	Retry    bool

	VideoSize model.VideoSize
	Cues      []model.Cue
	Metadata  []metadata.Description
	TrackType model.TrackType
	Track     int
}
