// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/sampleplayer/internal/log"
	"github.com/rs/zerolog"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "SAMPLEPLAYER_"

// ParseString reads a string from environment variable or returns default value.
func ParseString(key, defaultValue string) string {
	return parseStringWithLogger(log.WithComponent("config"), key, defaultValue)
}

func parseStringWithLogger(logger zerolog.Logger, key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	lowerKey := strings.ToLower(key)
	switch {
	case value == "":
		logger.Debug().
			Str("key", key).
			Str("default", defaultValue).
			Str("source", "default").
			Msg("using default value (environment variable is empty)")
		return defaultValue
	case strings.Contains(lowerKey, "url"):
		logger.Debug().
			Str("key", key).
			Str("value", log.MaskURI(value)).
			Str("source", "environment").
			Msg("using environment variable")
	default:
		logger.Debug().
			Str("key", key).
			Str("value", value).
			Str("source", "environment").
			Msg("using environment variable")
	}
	return value
}

// ParseInt reads an integer from environment variable or returns default value.
// Unparsable values fall back to the default with a warning.
func ParseInt(key string, defaultValue int) int {
	v, ok := lookupNonEmpty(key)
	if !ok {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		warnInvalid(key, v, "integer")
		return defaultValue
	}
	logSource(key, v)
	return i
}

// ParseDuration reads a Go duration ("5s") from environment variable.
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	v, ok := lookupNonEmpty(key)
	if !ok {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		warnInvalid(key, v, "duration")
		return defaultValue
	}
	logSource(key, v)
	return d
}

// ParseBool reads a boolean from environment variable. It accepts "true",
// "false", "1", "0", "yes" and "no" (case-insensitive).
func ParseBool(key string, defaultValue bool) bool {
	v, ok := lookupNonEmpty(key)
	if !ok {
		return defaultValue
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		logSource(key, v)
		return true
	case "false", "0", "no":
		logSource(key, v)
		return false
	}
	warnInvalid(key, v, "boolean")
	return defaultValue
}

// ParseFloat reads a float64 from environment variable.
func ParseFloat(key string, defaultValue float64) float64 {
	v, ok := lookupNonEmpty(key)
	if !ok {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		warnInvalid(key, v, "float")
		return defaultValue
	}
	logSource(key, v)
	return f
}

func lookupNonEmpty(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func logSource(key, value string) {
	logger := log.WithComponent("config")
	logger.Debug().
		Str("key", key).
		Str("value", value).
		Str("source", "environment").
		Msg("using environment variable")
}

func warnInvalid(key, value, kind string) {
	logger := log.WithComponent("config")
	logger.Warn().
		Str("key", key).
		Str("value", value).
		Msgf("invalid %s in environment variable, using default", kind)
}
