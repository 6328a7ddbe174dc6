// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package capabilities

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
	"github.com/ManuGH/sampleplayer/internal/domain/playback/ports"
	xglog "github.com/ManuGH/sampleplayer/internal/log"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const DefaultDebounce = 250 * time.Millisecond

// FileMonitor watches a YAML capabilities file and reports changes. The
// parent directory is watched so editors that replace the file are seen.
type FileMonitor struct {
	path     string
	debounce time.Duration
	logger   zerolog.Logger

	mu           sync.Mutex
	current      model.AudioCapabilities
	listener     ports.CapabilitiesListener
	registered   bool
	unregistered bool

	watcher *fsnotify.Watcher
	stop    chan struct{}
	done    chan struct{}
}

// NewFileMonitor returns a monitor for path. A non-positive debounce uses
// DefaultDebounce.
func NewFileMonitor(path string, debounce time.Duration) *FileMonitor {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &FileMonitor{
		path:     filepath.Clean(path),
		debounce: debounce,
		logger:   xglog.WithComponent("capabilities"),
	}
}

// Register loads the current capabilities and starts watching for changes.
func (m *FileMonitor) Register(l ports.CapabilitiesListener) (model.AudioCapabilities, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.registered {
		return model.AudioCapabilities{}, ErrAlreadyRegistered
	}

	caps, err := LoadFile(m.path)
	if err != nil {
		return model.AudioCapabilities{}, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return model.AudioCapabilities{}, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(m.path)); err != nil {
		_ = watcher.Close()
		return model.AudioCapabilities{}, fmt.Errorf("watch capabilities dir: %w", err)
	}

	m.registered = true
	m.listener = l
	m.current = caps
	m.watcher = watcher
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	go m.watchLoop()

	m.logger.Info().
		Str(xglog.FieldEvent, "capabilities.watch_started").
		Str(xglog.FieldPath, m.path).
		Strs("encodings", caps.Encodings).
		Int("max_channels", caps.MaxChannelCount).
		Msg("watching audio capabilities")
	return caps, nil
}

// Unregister stops watching. It must be called exactly once after Register.
func (m *FileMonitor) Unregister() error {
	m.mu.Lock()
	if !m.registered || m.unregistered {
		m.mu.Unlock()
		return ErrNotRegistered
	}
	m.unregistered = true
	m.listener = nil
	stop, done, watcher := m.stop, m.done, m.watcher
	m.mu.Unlock()

	close(stop)
	<-done
	err := watcher.Close()
	m.logger.Info().Str(xglog.FieldEvent, "capabilities.watch_stopped").Msg("stopped watching audio capabilities")
	return err
}

// Current returns the last reported capabilities.
func (m *FileMonitor) Current() model.AudioCapabilities {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *FileMonitor) watchLoop() {
	defer close(m.done)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-m.stop:
			return

		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != m.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			m.logger.Debug().
				Str(xglog.FieldEvent, "capabilities.file_changed").
				Str("op", event.Op.String()).
				Msg("capabilities file changed")
			if timer == nil {
				timer = time.NewTimer(m.debounce)
			} else {
				timer.Reset(m.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			m.reload()

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.logger.Error().Err(err).Str(xglog.FieldEvent, "capabilities.watcher_error").Msg("capabilities watcher error")
		}
	}
}

func (m *FileMonitor) reload() {
	caps, err := LoadFile(m.path)
	if err != nil {
		m.logger.Warn().Err(err).
			Str(xglog.FieldEvent, "capabilities.reload_failed").
			Msg("keeping previous audio capabilities")
		return
	}

	m.mu.Lock()
	if m.unregistered || m.current.Equal(caps) {
		m.mu.Unlock()
		return
	}
	m.current = caps
	l := m.listener
	m.mu.Unlock()

	m.logger.Info().
		Str(xglog.FieldEvent, "capabilities.changed").
		Strs("encodings", caps.Encodings).
		Int("max_channels", caps.MaxChannelCount).
		Msg("audio capabilities changed")
	if l != nil {
		l.OnAudioCapabilitiesChanged(caps)
	}
}
