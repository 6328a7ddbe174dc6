// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package trackmenu turns player track metadata into display labels and
// per-type selection menus.
package trackmenu

import (
	"math"
	"strconv"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
	"golang.org/x/text/language"
)

const (
	LabelAdaptive = "auto"
	LabelUnknown  = "unknown"
	LabelOff      = "off"

	separator = ", "
)

// BuildLabel returns the display label for a track descriptor.
func BuildLabel(d model.TrackDescriptor) string {
	if d.Adaptive {
		return LabelAdaptive
	}
	var label string
	switch d.Type {
	case model.TrackVideo:
		label = join(resolution(d), bitrate(d), trackID(d))
	case model.TrackAudio:
		label = join(languageOf(d), audioProperties(d), bitrate(d), trackID(d))
	default:
		label = join(languageOf(d), bitrate(d), trackID(d))
	}
	if label == "" {
		return LabelUnknown
	}
	return label
}

func join(parts ...string) string {
	out := ""
	for _, p := range parts {
		switch {
		case p == "":
		case out == "":
			out = p
		default:
			out += separator + p
		}
	}
	return out
}

func resolution(d model.TrackDescriptor) string {
	if d.DisplayWidth == model.NoValue || d.DisplayHeight == model.NoValue {
		return ""
	}
	return strconv.Itoa(d.DisplayWidth) + "x" + strconv.Itoa(d.DisplayHeight)
}

func audioProperties(d model.TrackDescriptor) string {
	if d.ChannelCount == model.NoValue || d.SampleRate == model.NoValue {
		return ""
	}
	return strconv.Itoa(d.ChannelCount) + "ch, " + strconv.Itoa(d.SampleRate) + "Hz"
}

// languageOf hides missing and undetermined ("und") languages.
func languageOf(d model.TrackDescriptor) string {
	if d.Language == "" {
		return ""
	}
	if tag, err := language.Parse(d.Language); err == nil && tag == language.Und {
		return ""
	}
	return d.Language
}

func bitrate(d model.TrackDescriptor) string {
	if d.Bitrate == model.NoValue {
		return ""
	}
	// Hundredths are rounded half-up, so 125000 reads 0.13Mbit.
	mbit := math.Round(float64(d.Bitrate)/1e4) / 100
	return strconv.FormatFloat(mbit, 'f', 2, 64) + "Mbit"
}

func trackID(d model.TrackDescriptor) string {
	if d.TrackID == "" {
		return ""
	}
	return " (" + d.TrackID + ")"
}
