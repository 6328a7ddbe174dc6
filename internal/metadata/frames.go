// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package metadata models timed ID3 metadata delivered alongside playback.
package metadata

// Frame is one ID3 frame. The set of implementations is closed: every known
// frame kind has its own type and anything else arrives as UnknownFrame.
type Frame interface {
	FrameID() string
	isFrame()
}

// TxxxFrame is a user defined text information frame.
type TxxxFrame struct {
	ID          string
	Description string
	Value       string
}

// PrivFrame is a private frame identified by its owner.
type PrivFrame struct {
	ID      string
	Owner   string
	Payload []byte
}

// GeobFrame is a general encapsulated object.
type GeobFrame struct {
	ID          string
	MimeType    string
	Filename    string
	Description string
	Payload     []byte
}

// ApicFrame is an attached picture.
type ApicFrame struct {
	ID          string
	MimeType    string
	Description string
	PictureType int
	Payload     []byte
}

// TextInformationFrame is a standard T??? text frame.
type TextInformationFrame struct {
	ID          string
	Description string
}

// UnknownFrame carries any frame kind the parser did not recognise.
type UnknownFrame struct {
	ID      string
	Payload []byte
}

func (f TxxxFrame) FrameID() string            { return f.ID }
func (f PrivFrame) FrameID() string            { return f.ID }
func (f GeobFrame) FrameID() string            { return f.ID }
func (f ApicFrame) FrameID() string            { return f.ID }
func (f TextInformationFrame) FrameID() string { return f.ID }
func (f UnknownFrame) FrameID() string         { return f.ID }

func (TxxxFrame) isFrame()            {}
func (PrivFrame) isFrame()            {}
func (GeobFrame) isFrame()            {}
func (ApicFrame) isFrame()            {}
func (TextInformationFrame) isFrame() {}
func (UnknownFrame) isFrame()         {}

// Kind labels used for logs and metrics.
const (
	KindTxxx    = "TXXX"
	KindPriv    = "PRIV"
	KindGeob    = "GEOB"
	KindApic    = "APIC"
	KindText    = "TEXT"
	KindUnknown = "UNKNOWN"
)
