// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package errclass

import "fmt"

// DrmReason is the sub-kind of an UnsupportedDrmError.
type DrmReason int

const (
	DrmReasonUnknown DrmReason = iota
	DrmReasonUnsupportedScheme
	DrmReasonInstantiationError
)

// UnsupportedDrmError is raised when the DRM session cannot be set up.
type UnsupportedDrmError struct {
	Reason DrmReason
	Cause  error
}

func (e *UnsupportedDrmError) Error() string {
	switch e.Reason {
	case DrmReasonUnsupportedScheme:
		return "unsupported drm: scheme not supported"
	case DrmReasonInstantiationError:
		return "unsupported drm: instantiation failed"
	default:
		return fmt.Sprintf("unsupported drm: reason %d", int(e.Reason))
	}
}

func (e *UnsupportedDrmError) Unwrap() error { return e.Cause }

// PlaybackError is the envelope the player uses for renderer failures.
type PlaybackError struct {
	Message string
	Cause   error
}

func (e *PlaybackError) Error() string {
	switch {
	case e.Message != "" && e.Cause != nil:
		return "playback failed: " + e.Message + ": " + e.Cause.Error()
	case e.Cause != nil:
		return "playback failed: " + e.Cause.Error()
	case e.Message != "":
		return "playback failed: " + e.Message
	default:
		return "playback failed"
	}
}

func (e *PlaybackError) Unwrap() error { return e.Cause }

// DecoderInitError reports that no decoder could be brought up for a track.
// An empty DecoderName means no decoder was found at all.
type DecoderInitError struct {
	MimeType       string
	DecoderName    string
	SecureRequired bool
	Cause          error
}

func (e *DecoderInitError) Error() string {
	if e.DecoderName != "" {
		return fmt.Sprintf("decoder init failed: %s (%s)", e.DecoderName, e.MimeType)
	}
	if e.SecureRequired {
		return fmt.Sprintf("decoder init failed: no secure decoder for %s", e.MimeType)
	}
	return fmt.Sprintf("decoder init failed: no decoder for %s", e.MimeType)
}

func (e *DecoderInitError) Unwrap() error { return e.Cause }

// DecoderQueryError reports that the decoder capability query itself failed.
type DecoderQueryError struct {
	Cause error
}

func (e *DecoderQueryError) Error() string {
	if e.Cause == nil {
		return "decoder query failed"
	}
	return "decoder query failed: " + e.Cause.Error()
}

func (e *DecoderQueryError) Unwrap() error { return e.Cause }
