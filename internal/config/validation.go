// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"

	"github.com/ManuGH/sampleplayer/internal/platform/httpx"
	"github.com/ManuGH/sampleplayer/internal/validate"
	"github.com/rs/zerolog"
)

// simulatedFailures are the failure categories the simulated player can raise.
var simulatedFailures = []string{
	"",
	"drm_unsupported_scheme",
	"drm_unknown",
	"decoder_query_failed",
	"no_secure_decoder",
	"no_decoder",
	"decoder_init_failed",
	"unclassified",
}

// Validate checks the resolved configuration and reports every problem at once.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.Custom("LogLevel", cfg.LogLevel, func(value any) error {
		if _, err := zerolog.ParseLevel(value.(string)); err != nil {
			return fmt.Errorf("unknown level: %w", err)
		}
		return nil
	})
	v.NotEmpty("UserAgentApp", cfg.UserAgentApp)
	v.Range("Platform.SDKVersion", cfg.Platform.SDKVersion, 1, 100)

	if cfg.Capabilities.Path != "" {
		v.ParentDirectory("Capabilities.Path", cfg.Capabilities.Path)
		v.PositiveDuration("Capabilities.Debounce", cfg.Capabilities.Debounce)
	}
	if cfg.Samples.Path != "" {
		v.File("Samples.Path", cfg.Samples.Path)
	}

	if cfg.Debug.Listen != "" {
		v.ListenAddr("Debug.Listen", cfg.Debug.Listen)
		v.Positive("Debug.RateLimit", cfg.Debug.RateLimit)
	}

	v.PositiveDuration("Network.Timeout", cfg.Network.Timeout)
	if !httpx.CookiePolicy(cfg.Network.CookiePolicy).Valid() {
		v.AddError("Network.CookiePolicy", "must be accept_original_server, accept_all or accept_none", cfg.Network.CookiePolicy)
	}

	if cfg.DRM.WidevineProxyURL != "" {
		v.URL("DRM.WidevineProxyURL", cfg.DRM.WidevineProxyURL, []string{"http", "https"})
	}
	if cfg.DRM.PlayReadyLicenseURL != "" {
		v.URL("DRM.PlayReadyLicenseURL", cfg.DRM.PlayReadyLicenseURL, []string{"http", "https"})
	}

	if cfg.Telemetry.Enabled {
		v.OneOf("Telemetry.Exporter", cfg.Telemetry.Exporter, []string{"grpc", "http"})
		v.NotEmpty("Telemetry.Endpoint", cfg.Telemetry.Endpoint)
		v.FloatRange("Telemetry.SamplingRate", cfg.Telemetry.SamplingRate, 0, 1)
	}

	v.PositiveDuration("Player.PrepareDelay", cfg.Player.PrepareDelay)
	v.PositiveDuration("Player.Tick", cfg.Player.Tick)
	v.OneOf("Player.SimulateFailure", cfg.Player.SimulateFailure, simulatedFailures)

	return v.Err()
}
