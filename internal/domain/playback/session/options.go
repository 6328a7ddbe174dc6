// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package session

import (
	"errors"
	"time"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/ports"
	"github.com/ManuGH/sampleplayer/internal/renderer"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// BuilderSelector picks the renderer builder for a piece of content.
type BuilderSelector interface {
	Select(req renderer.Request) (renderer.Builder, error)
}

// PermissionGate issues a storage permission request when one is needed and
// reports whether preparation must wait for the answer.
type PermissionGate interface {
	MaybeRequest(uri string) (bool, error)
}

// Options wires a session to its collaborators.
type Options struct {
	Selector BuilderSelector
	Players  ports.PlayerFactory
	// Gate is optional; without it no permission is ever requested.
	Gate PermissionGate
	// Monitor is optional. When set the session registers with it on New and
	// unregisters on Release.
	Monitor ports.CapabilitiesMonitor

	UserAgent  string
	SDKVersion int

	Logger *zerolog.Logger
	Tracer trace.Tracer
	Now    func() time.Time

	// MetadataLogInterval bounds how often unknown metadata frames are logged.
	MetadataLogInterval time.Duration
}

func (o *Options) validate() error {
	if o.Selector == nil {
		return errors.New("session: selector is required")
	}
	if o.Players == nil {
		return errors.New("session: player factory is required")
	}
	return nil
}
