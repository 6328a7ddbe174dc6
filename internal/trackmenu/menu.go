// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package trackmenu

import (
	"fmt"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
)

// IDOffset keeps entry ids clear of zero, which menus treat as "no id".
const IDOffset = 2

// TrackSource is the read side of a player's track metadata.
type TrackSource interface {
	TrackCount(t model.TrackType) int
	TrackFormat(t model.TrackType, index int) model.TrackDescriptor
	SelectedTrack(t model.TrackType) int
}

// Entry is one selectable line of a track menu.
type Entry struct {
	ID         int    `json:"id"`
	TrackIndex int    `json:"trackIndex"`
	Label      string `json:"label"`
	Selected   bool   `json:"selected"`
}

// Menu lists the "off" entry followed by every track of one type.
type Menu struct {
	Type    model.TrackType `json:"-"`
	Entries []Entry         `json:"entries"`
}

// Available reports whether the menu has any track to offer.
func (m Menu) Available() bool {
	return len(m.Entries) > 1
}

// Selected returns the entry currently marked selected.
func (m Menu) Selected() (Entry, bool) {
	for _, e := range m.Entries {
		if e.Selected {
			return e, true
		}
	}
	return Entry{}, false
}

// TrackIndexFor maps a menu entry id back to the track index to select.
func (m Menu) TrackIndexFor(id int) (int, error) {
	for _, e := range m.Entries {
		if e.ID == id {
			return e.TrackIndex, nil
		}
	}
	return model.TrackDisabled, fmt.Errorf("no %s menu entry with id %d", m.Type, id)
}

// BuildMenu builds the selection menu for one track type. A source with no
// tracks of that type yields an empty menu.
func BuildMenu(t model.TrackType, src TrackSource) Menu {
	m := Menu{Type: t}
	if src == nil {
		return m
	}
	count := src.TrackCount(t)
	if count <= 0 {
		return m
	}

	selected := src.SelectedTrack(t)
	if selected < 0 || selected >= count {
		selected = model.TrackDisabled
	}

	m.Entries = make([]Entry, 0, count+1)
	m.Entries = append(m.Entries, Entry{
		ID:         model.TrackDisabled + IDOffset,
		TrackIndex: model.TrackDisabled,
		Label:      LabelOff,
		Selected:   selected == model.TrackDisabled,
	})
	for i := 0; i < count; i++ {
		m.Entries = append(m.Entries, Entry{
			ID:         i + IDOffset,
			TrackIndex: i,
			Label:      BuildLabel(src.TrackFormat(t, i)),
			Selected:   selected == i,
		})
	}
	return m
}
