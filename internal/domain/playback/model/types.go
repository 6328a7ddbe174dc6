// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package model

import (
	"path"
	"slices"
	"strings"
)

// Content identifies what a session plays.
type Content struct {
	URI       string      `json:"uri" yaml:"uri"`
	ContentID string      `json:"contentId,omitempty" yaml:"contentId,omitempty"`
	Type      ContentType `json:"type" yaml:"type"`
	Provider  string      `json:"provider,omitempty" yaml:"provider,omitempty"`
}

// TrackDescriptor is the player's metadata for one decoded track.
// Numeric fields use NoValue when unknown; Language and TrackID are empty when unknown.
type TrackDescriptor struct {
	Type          TrackType `json:"type"`
	Index         int       `json:"index"`
	DisplayWidth  int       `json:"displayWidth"`
	DisplayHeight int       `json:"displayHeight"`
	Bitrate       int       `json:"bitrate"`
	ChannelCount  int       `json:"channelCount"`
	SampleRate    int       `json:"sampleRate"`
	Language      string    `json:"language,omitempty"`
	TrackID       string    `json:"trackId,omitempty"`
	Adaptive      bool      `json:"adaptive"`
}

// UnknownTrack returns a descriptor with every optional field unset.
func UnknownTrack(t TrackType, index int) TrackDescriptor {
	return TrackDescriptor{
		Type:          t,
		Index:         index,
		DisplayWidth:  NoValue,
		DisplayHeight: NoValue,
		Bitrate:       NoValue,
		ChannelCount:  NoValue,
		SampleRate:    NoValue,
	}
}

// AudioCapabilities is the most recent audio decoding capability report of the device.
type AudioCapabilities struct {
	Encodings       []string `json:"encodings" yaml:"encodings"`
	MaxChannelCount int      `json:"maxChannelCount" yaml:"maxChannelCount"`
}

// Equal reports whether two capability reports describe the same device abilities.
// Encoding order is not significant.
func (a AudioCapabilities) Equal(b AudioCapabilities) bool {
	if a.MaxChannelCount != b.MaxChannelCount || len(a.Encodings) != len(b.Encodings) {
		return false
	}
	x := slices.Clone(a.Encodings)
	y := slices.Clone(b.Encodings)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

// InferContentType guesses the content type from a uri and an optional
// overriding file extension.
func InferContentType(uri, fileExtension string) ContentType {
	var name string
	if fileExtension != "" {
		name = "." + strings.TrimPrefix(fileExtension, ".")
	} else {
		name = uri
		if i := strings.IndexAny(name, "?#"); i >= 0 {
			name = name[:i]
		}
		name = path.Base(name)
	}
	name = strings.ToLower(name)
	switch {
	case strings.HasSuffix(name, ".mpd"):
		return ContentDash
	case strings.HasSuffix(name, ".ism"), strings.HasSuffix(name, ".isml"),
		name == "manifest" && strings.Contains(strings.ToLower(uri), ".ism"):
		return ContentSmoothStreaming
	case strings.HasSuffix(name, ".m3u8"):
		return ContentHls
	}
	return ContentOther
}

// Cue is one caption cue delivered by the player.
type Cue struct {
	Text     string  `json:"text"`
	Line     float32 `json:"line,omitempty"`
	Position float32 `json:"position,omitempty"`
}

// VideoSize is the decoded video frame geometry.
type VideoSize struct {
	Width                 int     `json:"width"`
	Height                int     `json:"height"`
	UnappliedRotationDeg  int     `json:"unappliedRotationDegrees"`
	PixelWidthAspectRatio float32 `json:"pixelWidthAspectRatio"`
}
