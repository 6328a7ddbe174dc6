// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence.
type Loader struct {
	configPath string
	version    string
}

// NewLoader creates a new configuration loader. An empty path skips the file.
func NewLoader(configPath, version string) *Loader {
	return &Loader{configPath: configPath, version: version}
}

// Load resolves the configuration with precedence ENV > File > Defaults and
// validates the result.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := mergeFileConfig(&cfg, fileCfg); err != nil {
			return cfg, fmt.Errorf("merge file config: %w", err)
		}
	}

	mergeEnvConfig(&cfg)
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel:     "info",
		LogService:   "sampleplayer",
		UserAgentApp: "SamplePlayer",
		Platform: PlatformConfig{
			SDKVersion: 30,
		},
		Capabilities: CapabilitiesConfig{
			Debounce: 250 * time.Millisecond,
		},
		Debug: DebugConfig{
			RateLimit: 120,
		},
		Network: NetworkConfig{
			Timeout:      10 * time.Second,
			CookiePolicy: "accept_original_server",
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
		},
		Player: PlayerConfig{
			PrepareDelay: 300 * time.Millisecond,
			Tick:         250 * time.Millisecond,
		},
	}
}

// loadFile parses path strictly: unknown keys and trailing documents fail.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- the config path is provided by the operator via CLI
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return parseFile(data)
}

func parseFile(data []byte) (*FileConfig, error) {
	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, ErrMultipleDocuments
	}
	return &fileCfg, nil
}

func mergeFileConfig(cfg *AppConfig, f *FileConfig) error {
	setString(&cfg.LogLevel, f.LogLevel)
	setString(&cfg.LogService, f.LogService)
	setString(&cfg.UserAgentApp, f.UserAgentApp)

	if p := f.Platform; p != nil {
		if p.SDKVersion != nil {
			cfg.Platform.SDKVersion = *p.SDKVersion
		}
		if p.StoragePermissionGranted != nil {
			cfg.Platform.StoragePermissionGranted = *p.StoragePermissionGranted
		}
	}
	if c := f.Capabilities; c != nil {
		setString(&cfg.Capabilities.Path, c.Path)
		if err := setDuration(&cfg.Capabilities.Debounce, "capabilities.debounce", c.Debounce); err != nil {
			return err
		}
	}
	if s := f.Samples; s != nil {
		setString(&cfg.Samples.Path, s.Path)
	}
	if d := f.Debug; d != nil {
		if d.Listen != nil {
			cfg.Debug.Listen = *d.Listen
		}
		if d.RateLimit != nil {
			cfg.Debug.RateLimit = *d.RateLimit
		}
	}
	if n := f.Network; n != nil {
		if err := setDuration(&cfg.Network.Timeout, "network.timeout", n.Timeout); err != nil {
			return err
		}
		setString(&cfg.Network.CookiePolicy, n.CookiePolicy)
	}
	if d := f.DRM; d != nil {
		setString(&cfg.DRM.WidevineProxyURL, d.WidevineProxyURL)
		setString(&cfg.DRM.PlayReadyLicenseURL, d.PlayReadyLicenseURL)
	}
	if t := f.Telemetry; t != nil {
		if t.Enabled != nil {
			cfg.Telemetry.Enabled = *t.Enabled
		}
		setString(&cfg.Telemetry.Exporter, t.Exporter)
		setString(&cfg.Telemetry.Endpoint, t.Endpoint)
		if t.SamplingRate != nil {
			cfg.Telemetry.SamplingRate = *t.SamplingRate
		}
	}
	if p := f.Player; p != nil {
		if err := setDuration(&cfg.Player.PrepareDelay, "player.prepareDelay", p.PrepareDelay); err != nil {
			return err
		}
		if err := setDuration(&cfg.Player.Tick, "player.tick", p.Tick); err != nil {
			return err
		}
		setString(&cfg.Player.SimulateFailure, p.SimulateFailure)
		if p.ExerciseDRM != nil {
			cfg.Player.ExerciseDRM = *p.ExerciseDRM
		}
		if p.BackgroundAudio != nil {
			cfg.Player.BackgroundAudio = *p.BackgroundAudio
		}
	}
	return nil
}

func mergeEnvConfig(cfg *AppConfig) {
	cfg.LogLevel = ParseString(EnvPrefix+"LOG_LEVEL", cfg.LogLevel)
	cfg.LogService = ParseString(EnvPrefix+"LOG_SERVICE", cfg.LogService)
	cfg.UserAgentApp = ParseString(EnvPrefix+"USER_AGENT_APP", cfg.UserAgentApp)

	cfg.Platform.SDKVersion = ParseInt(EnvPrefix+"SDK_VERSION", cfg.Platform.SDKVersion)
	cfg.Platform.StoragePermissionGranted = ParseBool(EnvPrefix+"STORAGE_PERMISSION_GRANTED", cfg.Platform.StoragePermissionGranted)

	cfg.Capabilities.Path = ParseString(EnvPrefix+"CAPABILITIES_PATH", cfg.Capabilities.Path)
	cfg.Capabilities.Debounce = ParseDuration(EnvPrefix+"CAPABILITIES_DEBOUNCE", cfg.Capabilities.Debounce)
	cfg.Samples.Path = ParseString(EnvPrefix+"SAMPLES_PATH", cfg.Samples.Path)

	cfg.Debug.Listen = ParseString(EnvPrefix+"DEBUG_LISTEN", cfg.Debug.Listen)
	cfg.Debug.RateLimit = ParseInt(EnvPrefix+"DEBUG_RATE_LIMIT", cfg.Debug.RateLimit)

	cfg.Network.Timeout = ParseDuration(EnvPrefix+"NETWORK_TIMEOUT", cfg.Network.Timeout)
	cfg.Network.CookiePolicy = ParseString(EnvPrefix+"COOKIE_POLICY", cfg.Network.CookiePolicy)

	cfg.DRM.WidevineProxyURL = ParseString(EnvPrefix+"WIDEVINE_PROXY_URL", cfg.DRM.WidevineProxyURL)
	cfg.DRM.PlayReadyLicenseURL = ParseString(EnvPrefix+"PLAYREADY_LICENSE_URL", cfg.DRM.PlayReadyLicenseURL)

	cfg.Telemetry.Enabled = ParseBool(EnvPrefix+"TELEMETRY_ENABLED", cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = ParseString(EnvPrefix+"TELEMETRY_EXPORTER", cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = ParseString(EnvPrefix+"TELEMETRY_ENDPOINT", cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = ParseFloat(EnvPrefix+"TELEMETRY_SAMPLING_RATE", cfg.Telemetry.SamplingRate)

	cfg.Player.PrepareDelay = ParseDuration(EnvPrefix+"PREPARE_DELAY", cfg.Player.PrepareDelay)
	cfg.Player.Tick = ParseDuration(EnvPrefix+"PLAYER_TICK", cfg.Player.Tick)
	cfg.Player.SimulateFailure = ParseString(EnvPrefix+"SIMULATE_FAILURE", cfg.Player.SimulateFailure)
	cfg.Player.ExerciseDRM = ParseBool(EnvPrefix+"EXERCISE_DRM", cfg.Player.ExerciseDRM)
	cfg.Player.BackgroundAudio = ParseBool(EnvPrefix+"BACKGROUND_AUDIO", cfg.Player.BackgroundAudio)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, field, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q: %w", field, v, err)
	}
	*dst = d
	return nil
}
