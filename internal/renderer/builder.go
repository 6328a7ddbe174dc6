// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package renderer selects the player-construction strategy for a piece of
// content. Builders describe the pipeline; the player does the decoding.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
)

var (
	// ErrUnsupportedContentType is a configuration error: the content type is
	// outside the supported enumeration.
	ErrUnsupportedContentType = errors.New("unsupported content type")
	// ErrBuilderConsumed is returned when a builder is built a second time.
	ErrBuilderConsumed = errors.New("renderer builder already consumed")
)

// Variant names the concrete builder strategy.
type Variant string

const (
	VariantSmoothStreaming Variant = "smoothstreaming"
	VariantDash            Variant = "dash"
	VariantHls             Variant = "hls"
	VariantExtractor       Variant = "extractor"
)

// Pipeline is what a builder hands to the player when it is consumed.
type Pipeline struct {
	Variant     Variant
	ContentType model.ContentType
	URI         string
	UserAgent   string
	DRM         DrmCallback
}

// Builder constructs the decode/render pipeline for one content-delivery protocol.
type Builder interface {
	Variant() Variant
	ContentType() model.ContentType
	// Build may succeed at most once.
	Build(ctx context.Context) (Pipeline, error)
}

type baseBuilder struct {
	variant  Variant
	pipeline Pipeline
	consumed atomic.Bool
}

func (b *baseBuilder) Variant() Variant               { return b.variant }
func (b *baseBuilder) ContentType() model.ContentType { return b.pipeline.ContentType }

func (b *baseBuilder) Build(ctx context.Context) (Pipeline, error) {
	if err := ctx.Err(); err != nil {
		return Pipeline{}, err
	}
	if !b.consumed.CompareAndSwap(false, true) {
		return Pipeline{}, fmt.Errorf("%s: %w", b.variant, ErrBuilderConsumed)
	}
	return b.pipeline, nil
}

// SmoothStreamingBuilder builds SmoothStreaming pipelines with PlayReady DRM.
type SmoothStreamingBuilder struct{ baseBuilder }

// DashBuilder builds DASH pipelines with a Widevine DRM callback.
type DashBuilder struct{ baseBuilder }

// HlsBuilder builds HLS pipelines (no DRM).
type HlsBuilder struct{ baseBuilder }

// ExtractorBuilder builds generic extraction pipelines (no DRM).
type ExtractorBuilder struct{ baseBuilder }

// NewSmoothStreamingBuilder returns a builder for a SmoothStreaming manifest.
func NewSmoothStreamingBuilder(userAgent, uri string, drm DrmCallback) *SmoothStreamingBuilder {
	return &SmoothStreamingBuilder{baseBuilder{
		variant:  VariantSmoothStreaming,
		pipeline: Pipeline{Variant: VariantSmoothStreaming, ContentType: model.ContentSmoothStreaming, URI: uri, UserAgent: userAgent, DRM: drm},
	}}
}

// NewDashBuilder returns a builder for a DASH manifest.
func NewDashBuilder(userAgent, uri string, drm DrmCallback) *DashBuilder {
	return &DashBuilder{baseBuilder{
		variant:  VariantDash,
		pipeline: Pipeline{Variant: VariantDash, ContentType: model.ContentDash, URI: uri, UserAgent: userAgent, DRM: drm},
	}}
}

// NewHlsBuilder returns a builder for an HLS playlist.
func NewHlsBuilder(userAgent, uri string) *HlsBuilder {
	return &HlsBuilder{baseBuilder{
		variant:  VariantHls,
		pipeline: Pipeline{Variant: VariantHls, ContentType: model.ContentHls, URI: uri, UserAgent: userAgent},
	}}
}

// NewExtractorBuilder returns a builder for a plain media file.
func NewExtractorBuilder(userAgent, uri string) *ExtractorBuilder {
	return &ExtractorBuilder{baseBuilder{
		variant:  VariantExtractor,
		pipeline: Pipeline{Variant: VariantExtractor, ContentType: model.ContentOther, URI: uri, UserAgent: userAgent},
	}}
}
