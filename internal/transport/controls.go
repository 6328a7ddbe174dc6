// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package transport routes key input to an injected table of playback
// controls.
package transport

import "strings"

const (
	SeekForwardMs  int64 = 15000
	SeekBackwardMs int64 = 5000
)

// Key is a hardware or remote key.
type Key int

const (
	KeyUnknown Key = iota
	KeyBack
	KeyEscape
	KeyMenu
	KeyFastForward
	KeyRewind
	KeyDpadRight
	KeyDpadLeft
	KeyPlayPause
)

var keyNames = map[string]Key{
	"back":         KeyBack,
	"escape":       KeyEscape,
	"menu":         KeyMenu,
	"fast_forward": KeyFastForward,
	"ff":           KeyFastForward,
	"rewind":       KeyRewind,
	"rew":          KeyRewind,
	"right":        KeyDpadRight,
	"left":         KeyDpadLeft,
	"play_pause":   KeyPlayPause,
	"space":        KeyPlayPause,
}

// ParseKey maps a key name ("ff", "left", ...) to a Key.
func ParseKey(s string) Key {
	if k, ok := keyNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k
	}
	return KeyUnknown
}

// Action distinguishes key presses from releases.
type Action int

const (
	ActionDown Action = iota
	ActionUp
)

// Controls is the capability table a session hands to the input layer.
// Nil entries mean the capability is absent.
type Controls struct {
	CanSeekForward  func() bool
	CanSeekBackward func() bool
	Position        func() int64
	SeekTo          func(positionMs int64)
	Show            func()
	TogglePlayPause func()
}

// DispatchKey applies a key event to the controls and reports whether it was
// consumed. Navigation keys are never consumed so the host can act on them.
// Only key-down acts; the matching key-up is consumed silently.
func DispatchKey(c Controls, k Key, a Action) bool {
	switch k {
	case KeyBack, KeyEscape, KeyMenu:
		return false
	case KeyFastForward, KeyDpadRight:
		if !enabled(c.CanSeekForward) {
			return false
		}
		if a == ActionDown {
			c.seekBy(SeekForwardMs)
		}
		return true
	case KeyRewind, KeyDpadLeft:
		if !enabled(c.CanSeekBackward) {
			return false
		}
		if a == ActionDown {
			c.seekBy(-SeekBackwardMs)
		}
		return true
	case KeyPlayPause:
		if c.TogglePlayPause == nil {
			return false
		}
		if a == ActionDown {
			c.TogglePlayPause()
			c.show()
		}
		return true
	default:
		return false
	}
}

func (c Controls) seekBy(deltaMs int64) {
	if c.SeekTo == nil || c.Position == nil {
		return
	}
	c.SeekTo(c.Position() + deltaMs)
	c.show()
}

func (c Controls) show() {
	if c.Show != nil {
		c.Show()
	}
}

func enabled(f func() bool) bool {
	return f != nil && f()
}
