// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package trackmenu

import (
	"testing"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	tracks   map[model.TrackType][]model.TrackDescriptor
	selected map[model.TrackType]int
}

func (f fakeSource) TrackCount(t model.TrackType) int { return len(f.tracks[t]) }
func (f fakeSource) TrackFormat(t model.TrackType, i int) model.TrackDescriptor {
	return f.tracks[t][i]
}
func (f fakeSource) SelectedTrack(t model.TrackType) int { return f.selected[t] }

func videoSource(selected int) fakeSource {
	v0 := model.UnknownTrack(model.TrackVideo, 0)
	v0.Adaptive = true
	v1 := model.UnknownTrack(model.TrackVideo, 1)
	v1.DisplayWidth, v1.DisplayHeight, v1.Bitrate = 1920, 1080, 2_000_000
	return fakeSource{
		tracks:   map[model.TrackType][]model.TrackDescriptor{model.TrackVideo: {v0, v1}},
		selected: map[model.TrackType]int{model.TrackVideo: selected},
	}
}

func TestBuildMenu_OffEntryPlusTracksInOrder(t *testing.T) {
	m := BuildMenu(model.TrackVideo, videoSource(1))

	want := []Entry{
		{ID: 1, TrackIndex: model.TrackDisabled, Label: "off"},
		{ID: 2, TrackIndex: 0, Label: "auto"},
		{ID: 3, TrackIndex: 1, Label: "1920x1080, 2.00Mbit", Selected: true},
	}
	if diff := cmp.Diff(want, m.Entries); diff != "" {
		t.Fatalf("menu mismatch (-want +got):\n%s", diff)
	}
	require.True(t, m.Available())
}

func TestBuildMenu_ExactlyOneSelected(t *testing.T) {
	for _, sel := range []int{model.TrackDisabled, 0, 1, 7} {
		m := BuildMenu(model.TrackVideo, videoSource(sel))
		n := 0
		for _, e := range m.Entries {
			if e.Selected {
				n++
			}
		}
		require.Equal(t, 1, n, "selected=%d", sel)
	}

	m := BuildMenu(model.TrackVideo, videoSource(7))
	e, ok := m.Selected()
	require.True(t, ok)
	require.Equal(t, model.TrackDisabled, e.TrackIndex)
}

func TestBuildMenu_NoTracks(t *testing.T) {
	m := BuildMenu(model.TrackText, videoSource(0))
	require.Empty(t, m.Entries)
	require.False(t, m.Available())

	require.Empty(t, BuildMenu(model.TrackAudio, nil).Entries)
}

func TestMenu_TrackIndexFor(t *testing.T) {
	m := BuildMenu(model.TrackVideo, videoSource(0))

	idx, err := m.TrackIndexFor(model.TrackDisabled + IDOffset)
	require.NoError(t, err)
	require.Equal(t, model.TrackDisabled, idx)

	idx, err = m.TrackIndexFor(1 + IDOffset)
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	_, err = m.TrackIndexFor(99)
	require.Error(t, err)
}
