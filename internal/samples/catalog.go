// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package samples holds the catalog of playable samples offered to the user.
package samples

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a sample name is not in the catalog.
var ErrNotFound = errors.New("sample not found")

// Sample is one playable entry.
type Sample struct {
	Name      string            `json:"name"`
	ContentID string            `json:"contentId"`
	Provider  string            `json:"provider"`
	URI       string            `json:"uri"`
	Type      model.ContentType `json:"type"`
}

// Content converts the sample into session content.
func (s Sample) Content() model.Content {
	return model.Content{URI: s.URI, ContentID: s.ContentID, Type: s.Type, Provider: s.Provider}
}

// Group is a titled list of samples.
type Group struct {
	Title   string   `json:"title"`
	Samples []Sample `json:"samples"`
}

// Catalog is the ordered list of sample groups.
type Catalog struct {
	Groups []Group `json:"groups"`
}

// Find looks a sample up by name, case-insensitively.
func (c *Catalog) Find(name string) (Sample, error) {
	want := strings.TrimSpace(name)
	for _, g := range c.Groups {
		for _, s := range g.Samples {
			if strings.EqualFold(s.Name, want) {
				return s, nil
			}
		}
	}
	return Sample{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// First returns the first sample of the first non-empty group.
func (c *Catalog) First() (Sample, error) {
	for _, g := range c.Groups {
		if len(g.Samples) > 0 {
			return g.Samples[0], nil
		}
	}
	return Sample{}, ErrNotFound
}

type fileCatalog struct {
	Groups []fileGroup `yaml:"groups"`
}

type fileGroup struct {
	Title   string       `yaml:"title"`
	Samples []fileSample `yaml:"samples"`
}

type fileSample struct {
	Name      string `yaml:"name"`
	ContentID string `yaml:"contentId"`
	Provider  string `yaml:"provider"`
	URI       string `yaml:"uri"`
	// Type is optional; it is inferred from the uri (or Extension) when empty.
	Type      string `yaml:"type"`
	Extension string `yaml:"extension"`
}

// Load reads a YAML catalog. An empty path returns Default().
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sample catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document; unknown fields are rejected.
func Parse(data []byte) (*Catalog, error) {
	var doc fileCatalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse sample catalog: %w", err)
	}

	cat := &Catalog{}
	seen := make(map[string]struct{})
	for gi, g := range doc.Groups {
		group := Group{Title: g.Title}
		for si, s := range g.Samples {
			if s.Name == "" || s.URI == "" {
				return nil, fmt.Errorf("sample catalog: groups[%d].samples[%d]: name and uri are required", gi, si)
			}
			key := strings.ToLower(s.Name)
			if _, dup := seen[key]; dup {
				return nil, fmt.Errorf("sample catalog: duplicate sample name %q", s.Name)
			}
			seen[key] = struct{}{}

			ct := model.InferContentType(s.URI, s.Extension)
			if s.Type != "" {
				parsed, err := model.ParseContentType(s.Type)
				if err != nil {
					return nil, fmt.Errorf("sample catalog: %q: %w", s.Name, err)
				}
				ct = parsed
			}
			group.Samples = append(group.Samples, Sample{
				Name:      s.Name,
				ContentID: s.ContentID,
				Provider:  s.Provider,
				URI:       s.URI,
				Type:      ct,
			})
		}
		cat.Groups = append(cat.Groups, group)
	}
	return cat, nil
}

// Default is the built-in catalog.
func Default() *Catalog {
	return &Catalog{Groups: []Group{
		{
			Title: "Widevine DASH: MP4,H264",
			Samples: []Sample{
				{Name: "WV: Clear SD & HD (MP4,H264)", ContentID: "tears", Provider: "widevine_test",
					URI: "https://storage.googleapis.com/wvmedia/clear/h264/tears/tears.mpd", Type: model.ContentDash},
				{Name: "WV: Clear SD (MP4,H264)", ContentID: "tears_sd", Provider: "widevine_test",
					URI: "https://storage.googleapis.com/wvmedia/clear/h264/tears/tears_sd.mpd", Type: model.ContentDash},
				{Name: "WV: Secure SD & HD (MP4,H264)", ContentID: "tears", Provider: "widevine_test",
					URI: "https://storage.googleapis.com/wvmedia/cenc/h264/tears/tears.mpd", Type: model.ContentDash},
			},
		},
		{
			Title: "SmoothStreaming",
			Samples: []Sample{
				{Name: "Super speed (PlayReady)", URI: "https://playready.directtaps.net/smoothstreaming/SSWSS720H264PR/SuperSpeedway_720.ism",
					Type: model.ContentSmoothStreaming},
			},
		},
		{
			Title: "HLS",
			Samples: []Sample{
				{Name: "Apple master playlist", URI: "https://devstreaming-cdn.apple.com/videos/streaming/examples/bipbop_4x3/bipbop_4x3_variant.m3u8",
					Type: model.ContentHls},
			},
		},
		{
			Title: "Misc",
			Samples: []Sample{
				{Name: "Dizzy", URI: "https://html5demos.com/assets/dizzy.mp4", Type: model.ContentOther},
				{Name: "Local file", URI: "file:///sdcard/Movies/sample.mp4", Type: model.ContentOther},
			},
		},
	}}
}
