// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metadata

import (
	"fmt"
	"time"

	"github.com/ManuGH/sampleplayer/internal/log"
	"github.com/ManuGH/sampleplayer/internal/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Description is the loggable summary of one frame.
type Description struct {
	Kind    string
	ID      string
	Summary string
}

// Describe summarises a frame. Frames of unrecognised shape (including nil)
// are reported with KindUnknown.
func Describe(f Frame) Description {
	switch v := f.(type) {
	case TxxxFrame:
		return Description{Kind: KindTxxx, ID: v.ID, Summary: fmt.Sprintf("description=%s, value=%s", v.Description, v.Value)}
	case PrivFrame:
		return Description{Kind: KindPriv, ID: v.ID, Summary: fmt.Sprintf("owner=%s", v.Owner)}
	case GeobFrame:
		return Description{Kind: KindGeob, ID: v.ID, Summary: fmt.Sprintf("mimeType=%s, filename=%s, description=%s", v.MimeType, v.Filename, v.Description)}
	case ApicFrame:
		return Description{Kind: KindApic, ID: v.ID, Summary: fmt.Sprintf("mimeType=%s, description=%s", v.MimeType, v.Description)}
	case TextInformationFrame:
		return Description{Kind: KindText, ID: v.ID, Summary: fmt.Sprintf("description=%s", v.Description)}
	case UnknownFrame:
		return Description{Kind: KindUnknown, ID: v.ID}
	case nil:
		return Description{Kind: KindUnknown}
	default:
		return Description{Kind: KindUnknown, ID: f.FrameID()}
	}
}

// Logger writes timed metadata batches to a structured logger.
type Logger struct {
	logger  zerolog.Logger
	unknown rate.Sometimes
}

// NewLogger returns a metadata logger. Every unknown frame is logged at debug;
// the info-level notice for unknown kinds is emitted at most once per interval.
func NewLogger(logger zerolog.Logger, unknownInterval time.Duration) *Logger {
	return &Logger{
		logger:  logger,
		unknown: rate.Sometimes{First: 1, Interval: unknownInterval},
	}
}

// LogFrames logs every frame of a batch and returns the number of frames of a
// known kind. Unknown frames never abort the batch.
func (l *Logger) LogFrames(frames []Frame) int {
	known := 0
	for _, f := range frames {
		d := Describe(f)
		metrics.IncMetadataFrame(d.Kind)
		if d.Kind == KindUnknown {
			l.logger.Debug().
				Str(log.FieldEvent, "metadata.id3_unknown").
				Str(log.FieldFrameID, d.ID).
				Msg("ID3 TimedMetadata with unrecognised frame kind")
			l.unknown.Do(func() {
				l.logger.Info().
					Str(log.FieldEvent, "metadata.id3_unknown").
					Str(log.FieldFrameID, d.ID).
					Msg("ID3 TimedMetadata with unrecognised frame kind")
			})
			continue
		}
		known++
		l.logger.Info().
			Str(log.FieldEvent, "metadata.id3").
			Str(log.FieldFrameKind, d.Kind).
			Str(log.FieldFrameID, d.ID).
			Msgf("ID3 TimedMetadata %s: %s", d.ID, d.Summary)
	}
	return known
}
