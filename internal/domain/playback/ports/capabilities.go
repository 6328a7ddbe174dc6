// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ports

import "github.com/ManuGH/sampleplayer/internal/domain/playback/model"

// CapabilitiesListener is notified when the device audio capabilities change.
type CapabilitiesListener interface {
	OnAudioCapabilitiesChanged(caps model.AudioCapabilities)
}

// CapabilitiesMonitor reports audio capability changes. Register may be
// called once; Unregister must be called exactly once when the host goes away.
type CapabilitiesMonitor interface {
	Register(l CapabilitiesListener) (model.AudioCapabilities, error)
	Unregister() error
}
