// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package capabilities reports the device's audio capabilities and notifies
// a single listener when they change.
package capabilities

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
	"github.com/ManuGH/sampleplayer/internal/domain/playback/ports"
	"gopkg.in/yaml.v3"
)

var (
	ErrAlreadyRegistered = errors.New("capabilities monitor: listener already registered")
	ErrNotRegistered     = errors.New("capabilities monitor: no listener registered")
)

// Default is reported when no capabilities file exists: stereo PCM only.
var Default = model.AudioCapabilities{Encodings: []string{"pcm16"}, MaxChannelCount: 2}

// LoadFile reads a YAML capabilities document. A missing file yields Default.
func LoadFile(path string) (model.AudioCapabilities, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default, nil
	}
	if err != nil {
		return model.AudioCapabilities{}, fmt.Errorf("read capabilities: %w", err)
	}
	var caps model.AudioCapabilities
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&caps); err != nil {
		return model.AudioCapabilities{}, fmt.Errorf("parse capabilities %s: %w", path, err)
	}
	if caps.MaxChannelCount <= 0 {
		return model.AudioCapabilities{}, fmt.Errorf("parse capabilities %s: maxChannelCount must be positive", path)
	}
	return caps, nil
}

// StaticMonitor reports fixed capabilities until Set is called.
type StaticMonitor struct {
	mu           sync.Mutex
	caps         model.AudioCapabilities
	listener     ports.CapabilitiesListener
	registered   bool
	unregistered bool
}

// NewStaticMonitor returns a monitor reporting caps.
func NewStaticMonitor(caps model.AudioCapabilities) *StaticMonitor {
	return &StaticMonitor{caps: caps}
}

func (m *StaticMonitor) Register(l ports.CapabilitiesListener) (model.AudioCapabilities, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.registered {
		return model.AudioCapabilities{}, ErrAlreadyRegistered
	}
	m.registered = true
	m.listener = l
	return m.caps, nil
}

func (m *StaticMonitor) Unregister() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.registered || m.unregistered {
		return ErrNotRegistered
	}
	m.unregistered = true
	m.listener = nil
	return nil
}

// Set replaces the capabilities and notifies the listener if they differ.
func (m *StaticMonitor) Set(caps model.AudioCapabilities) {
	m.mu.Lock()
	if m.caps.Equal(caps) {
		m.mu.Unlock()
		return
	}
	m.caps = caps
	l := m.listener
	m.mu.Unlock()
	if l != nil {
		l.OnAudioCapabilitiesChanged(caps)
	}
}

var (
	_ ports.CapabilitiesMonitor = (*StaticMonitor)(nil)
	_ ports.CapabilitiesMonitor = (*FileMonitor)(nil)
)
