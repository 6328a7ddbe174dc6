// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package errclass maps player failures onto a closed set of user-facing
// categories.
package errclass

import (
	"errors"
	"fmt"
)

// Category is a user-facing failure class.
type Category int

const (
	Unclassified Category = iota
	DrmNotSupported
	DrmUnsupportedScheme
	DrmUnknown
	DecoderQueryFailed
	NoSecureDecoder
	NoDecoder
	DecoderInitFailed
)

var categoryNames = map[Category]string{
	Unclassified:         "unclassified",
	DrmNotSupported:      "drm_not_supported",
	DrmUnsupportedScheme: "drm_unsupported_scheme",
	DrmUnknown:           "drm_unknown",
	DecoderQueryFailed:   "decoder_query_failed",
	NoSecureDecoder:      "no_secure_decoder",
	NoDecoder:            "no_decoder",
	DecoderInitFailed:    "decoder_init_failed",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "unclassified"
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// MinDrmSDK is the lowest platform version with DRM support.
const MinDrmSDK = 18

// Classification is the outcome of Classify. Message is empty for
// Unclassified failures; nothing is surfaced for those.
type Classification struct {
	Category Category
	Message  string
}

// Classify is a pure function of the failure's structure and the platform
// version.
func Classify(err error, sdkVersion int) Classification {
	if err == nil {
		return Classification{Category: Unclassified}
	}

	var drmErr *UnsupportedDrmError
	if errors.As(err, &drmErr) {
		switch {
		case sdkVersion < MinDrmSDK:
			return classified(DrmNotSupported, fmt.Sprintf("Protected content not supported on API levels below %d", MinDrmSDK))
		case drmErr.Reason == DrmReasonUnsupportedScheme:
			return classified(DrmUnsupportedScheme, "This device does not support the required DRM scheme")
		default:
			return classified(DrmUnknown, "An unknown DRM error occurred")
		}
	}

	var decErr *DecoderInitError
	if errors.As(err, &decErr) {
		if decErr.DecoderName != "" {
			return classified(DecoderInitFailed, "Unable to instantiate decoder "+decErr.DecoderName)
		}
		var queryErr *DecoderQueryError
		if errors.As(decErr.Cause, &queryErr) {
			return classified(DecoderQueryFailed, "Unable to query device decoders")
		}
		if decErr.SecureRequired {
			return classified(NoSecureDecoder, "This device does not provide a secure decoder for "+decErr.MimeType)
		}
		return classified(NoDecoder, "This device does not provide a decoder for "+decErr.MimeType)
	}

	return Classification{Category: Unclassified}
}

func classified(c Category, msg string) Classification {
	return Classification{Category: c, Message: msg}
}
