// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package renderer

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
)

// Request is the input to Select.
type Request struct {
	Type      model.ContentType
	URI       string
	ContentID string
	Provider  string
	UserAgent string
}

// DrmConfig holds the license endpoints used by the test DRM callbacks.
type DrmConfig struct {
	WidevineProxyURL    string
	PlayReadyLicenseURL string
}

// Selector maps a content type to its renderer builder.
type Selector struct {
	client *http.Client
	drm    DrmConfig
}

// NewSelector returns a selector whose DRM callbacks use client for license requests.
func NewSelector(client *http.Client, drm DrmConfig) *Selector {
	if drm.WidevineProxyURL == "" {
		drm.WidevineProxyURL = DefaultWidevineProxyURL
	}
	if drm.PlayReadyLicenseURL == "" {
		drm.PlayReadyLicenseURL = DefaultPlayReadyLicenseURL
	}
	return &Selector{client: client, drm: drm}
}

// Select returns a fresh builder for the request. An unrecognised content type
// is a configuration error and yields ErrUnsupportedContentType.
func (s *Selector) Select(req Request) (Builder, error) {
	switch req.Type {
	case model.ContentSmoothStreaming:
		return NewSmoothStreamingBuilder(req.UserAgent, req.URI,
			NewPlayReadyTestCallback(s.client, s.drm.PlayReadyLicenseURL)), nil
	case model.ContentDash:
		return NewDashBuilder(req.UserAgent, req.URI,
			NewWidevineTestCallback(s.client, s.drm.WidevineProxyURL, req.ContentID, req.Provider)), nil
	case model.ContentHls:
		return NewHlsBuilder(req.UserAgent, req.URI), nil
	case model.ContentOther:
		return NewExtractorBuilder(req.UserAgent, req.URI), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedContentType, int(req.Type))
	}
}

// UserAgent builds the user agent string sent with every media request.
func UserAgent(app, version string) string {
	if app == "" {
		app = "SamplePlayer"
	}
	if version == "" {
		version = "dev"
	}
	return fmt.Sprintf("%s/%s (%s; %s) sampleplayer", app, version, runtime.GOOS, runtime.GOARCH)
}
