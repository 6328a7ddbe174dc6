// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package model

import (
	"fmt"
	"strings"
)

// SessionState is the lifecycle state of a playback session.
type SessionState string

const (
	SessionIdle               SessionState = "IDLE"
	SessionAwaitingPermission SessionState = "AWAITING_PERMISSION"
	SessionPreparing          SessionState = "PREPARING"
	SessionReady              SessionState = "READY"
	SessionPlaying            SessionState = "PLAYING"
	SessionPaused             SessionState = "PAUSED"
	SessionError              SessionState = "ERROR"
	SessionReleased           SessionState = "RELEASED"
)

// IsTerminal returns true if the state is a final state.
func (s SessionState) IsTerminal() bool {
	return s == SessionReleased
}

// HasPlayer reports whether a session in this state owns a live player.
func (s SessionState) HasPlayer() bool {
	switch s {
	case SessionPreparing, SessionReady, SessionPlaying, SessionPaused, SessionError:
		return true
	}
	return false
}

// PlayerState mirrors the playback state reported by the opaque player.
type PlayerState string

const (
	PlayerIdle      PlayerState = "idle"
	PlayerPreparing PlayerState = "preparing"
	PlayerBuffering PlayerState = "buffering"
	PlayerReady     PlayerState = "ready"
	PlayerEnded     PlayerState = "ended"
)

// ContentType selects the renderer pipeline used for a piece of content.
type ContentType int

const (
	ContentSmoothStreaming ContentType = iota
	ContentDash
	ContentHls
	ContentOther
)

var contentTypeNames = map[ContentType]string{
	ContentSmoothStreaming: "smoothstreaming",
	ContentDash:            "dash",
	ContentHls:             "hls",
	ContentOther:           "other",
}

func (c ContentType) String() string {
	if s, ok := contentTypeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("contenttype(%d)", int(c))
}

// Valid reports whether c is one of the supported content types.
func (c ContentType) Valid() bool {
	_, ok := contentTypeNames[c]
	return ok
}

// ParseContentType maps a textual content type ("dash", "ss", "hls", ...) to a ContentType.
func ParseContentType(s string) (ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "smoothstreaming", "ss":
		return ContentSmoothStreaming, nil
	case "dash":
		return ContentDash, nil
	case "hls":
		return ContentHls, nil
	case "other", "":
		return ContentOther, nil
	}
	return ContentOther, fmt.Errorf("unknown content type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c ContentType) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid content type %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ContentType) UnmarshalText(b []byte) error {
	v, err := ParseContentType(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// TrackType identifies an independently selectable media component.
type TrackType int

const (
	TrackVideo TrackType = iota
	TrackAudio
	TrackText
)

// TrackTypes lists every track type in display order.
var TrackTypes = []TrackType{TrackVideo, TrackAudio, TrackText}

func (t TrackType) String() string {
	switch t {
	case TrackVideo:
		return "video"
	case TrackAudio:
		return "audio"
	case TrackText:
		return "text"
	}
	return fmt.Sprintf("tracktype(%d)", int(t))
}

// ParseTrackType maps "video", "audio" or "text" to a TrackType.
func ParseTrackType(s string) (TrackType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "video":
		return TrackVideo, nil
	case "audio":
		return TrackAudio, nil
	case "text":
		return TrackText, nil
	}
	return TrackVideo, fmt.Errorf("unknown track type %q", s)
}

const (
	// TrackDisabled is the selection index meaning "no track of this type".
	TrackDisabled = -1
	// NoValue marks an unknown numeric descriptor field.
	NoValue = -1
)
