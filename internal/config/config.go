// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config loads the player configuration: defaults, then a strict
// YAML file, then SAMPLEPLAYER_* environment overrides, then validation.
package config

import "time"

// AppConfig is the fully resolved configuration.
type AppConfig struct {
	Version string

	LogLevel     string
	LogService   string
	UserAgentApp string

	Platform     PlatformConfig
	Capabilities CapabilitiesConfig
	Samples      SamplesConfig
	Debug        DebugConfig
	Network      NetworkConfig
	DRM          DRMConfig
	Telemetry    TelemetryConfig
	Player       PlayerConfig
}

// PlatformConfig describes the host platform the session believes it runs on.
type PlatformConfig struct {
	SDKVersion               int
	StoragePermissionGranted bool
}

// CapabilitiesConfig points at the audio capabilities file. An empty path
// uses a fixed stereo PCM report.
type CapabilitiesConfig struct {
	Path     string
	Debounce time.Duration
}

// SamplesConfig points at a sample catalog. Empty uses the built-in catalog.
type SamplesConfig struct {
	Path string
}

// DebugConfig configures the debug HTTP view. An empty Listen disables it.
type DebugConfig struct {
	Listen    string
	RateLimit int
}

// NetworkConfig configures the media and license client.
type NetworkConfig struct {
	Timeout      time.Duration
	CookiePolicy string
}

// DRMConfig holds license server endpoints.
type DRMConfig struct {
	WidevineProxyURL    string
	PlayReadyLicenseURL string
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool
	Exporter     string
	Endpoint     string
	SamplingRate float64
}

// PlayerConfig tunes the simulated player.
type PlayerConfig struct {
	PrepareDelay    time.Duration
	Tick            time.Duration
	SimulateFailure string
	ExerciseDRM     bool
	BackgroundAudio bool
}

// FileConfig mirrors the YAML file. Pointers distinguish "unset" from zero.
type FileConfig struct {
	LogLevel     string `yaml:"logLevel,omitempty"`
	LogService   string `yaml:"logService,omitempty"`
	UserAgentApp string `yaml:"userAgentApp,omitempty"`

	Platform *struct {
		SDKVersion               *int  `yaml:"sdkVersion,omitempty"`
		StoragePermissionGranted *bool `yaml:"storagePermissionGranted,omitempty"`
	} `yaml:"platform,omitempty"`

	Capabilities *struct {
		Path     string `yaml:"path,omitempty"`
		Debounce string `yaml:"debounce,omitempty"`
	} `yaml:"capabilities,omitempty"`

	Samples *struct {
		Path string `yaml:"path,omitempty"`
	} `yaml:"samples,omitempty"`

	Debug *struct {
		Listen    *string `yaml:"listen,omitempty"`
		RateLimit *int    `yaml:"rateLimit,omitempty"`
	} `yaml:"debug,omitempty"`

	Network *struct {
		Timeout      string `yaml:"timeout,omitempty"`
		CookiePolicy string `yaml:"cookiePolicy,omitempty"`
	} `yaml:"network,omitempty"`

	DRM *struct {
		WidevineProxyURL    string `yaml:"widevineProxyURL,omitempty"`
		PlayReadyLicenseURL string `yaml:"playReadyLicenseURL,omitempty"`
	} `yaml:"drm,omitempty"`

	Telemetry *struct {
		Enabled      *bool    `yaml:"enabled,omitempty"`
		Exporter     string   `yaml:"exporter,omitempty"`
		Endpoint     string   `yaml:"endpoint,omitempty"`
		SamplingRate *float64 `yaml:"samplingRate,omitempty"`
	} `yaml:"telemetry,omitempty"`

	Player *struct {
		PrepareDelay    string `yaml:"prepareDelay,omitempty"`
		Tick            string `yaml:"tick,omitempty"`
		SimulateFailure string `yaml:"simulateFailure,omitempty"`
		ExerciseDRM     *bool  `yaml:"exerciseDRM,omitempty"`
		BackgroundAudio *bool  `yaml:"backgroundAudio,omitempty"`
	} `yaml:"player,omitempty"`
}
