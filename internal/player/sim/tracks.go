// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sim

import (
	"strconv"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
)

type rendition struct {
	width, height, bitrate int
}

var ladder = []rendition{
	{640, 360, 800_000},
	{1280, 720, 2_500_000},
	{1920, 1080, 5_000_000},
}

// SynthesizeTracks returns a plausible track list for a content type.
// Adaptive protocols get an "auto" video track ahead of the fixed renditions.
func SynthesizeTracks(ct model.ContentType) map[model.TrackType][]model.TrackDescriptor {
	var video []model.TrackDescriptor
	adaptive := ct != model.ContentOther
	if adaptive {
		auto := model.UnknownTrack(model.TrackVideo, 0)
		auto.Adaptive = true
		video = append(video, auto)
	}
	for _, r := range ladder {
		d := model.UnknownTrack(model.TrackVideo, len(video))
		d.DisplayWidth, d.DisplayHeight, d.Bitrate = r.width, r.height, r.bitrate
		if adaptive {
			d.TrackID = strconv.Itoa(len(video))
		}
		video = append(video, d)
		if !adaptive {
			break
		}
	}

	en := model.UnknownTrack(model.TrackAudio, 0)
	en.Language, en.ChannelCount, en.SampleRate, en.Bitrate = "en", 2, 48_000, 128_000
	audio := []model.TrackDescriptor{en}
	if adaptive {
		de := model.UnknownTrack(model.TrackAudio, 1)
		de.Language, de.ChannelCount, de.SampleRate, de.Bitrate = "de", 6, 48_000, 384_000
		audio = append(audio, de)
	}

	var text []model.TrackDescriptor
	if ct == model.ContentDash || ct == model.ContentHls {
		sub := model.UnknownTrack(model.TrackText, 0)
		sub.Language = "en"
		text = append(text, sub)
	}

	return map[model.TrackType][]model.TrackDescriptor{
		model.TrackVideo: video,
		model.TrackAudio: audio,
		model.TrackText:  text,
	}
}
