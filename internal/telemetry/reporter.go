// Package telemetry reports errors to the observability backend.
package telemetry

import (
	"context"

	"github.com/rs/zerolog"
)

// Level is the severity attached to a captured error.
type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Event carries the metadata attached to a captured error.
type Event struct {
	Level Level
	Tags  map[string]string
	Extra map[string]any
}

// Reporter captures errors for later inspection.
type Reporter interface {
	CaptureException(ctx context.Context, err error, ev Event) error
}

// Capture forwards err to r. Failures of the reporter itself, including
// panics, are swallowed.
func Capture(ctx context.Context, r Reporter, err error, ev Event) {
	if r == nil || err == nil {
		return
	}
	defer func() { _ = recover() }()
	_ = r.CaptureException(ctx, err, ev)
}

// ZerologReporter writes captured errors to a zerolog logger.
type ZerologReporter struct {
	logger zerolog.Logger
}

// NewZerologReporter builds a Reporter backed by l.
func NewZerologReporter(l zerolog.Logger) *ZerologReporter {
	return &ZerologReporter{logger: l.With().Str("component", "telemetry").Logger()}
}

// CaptureException implements Reporter.
func (r *ZerologReporter) CaptureException(_ context.Context, err error, ev Event) error {
	e := r.logger.WithLevel(zerologLevel(ev.Level)).Err(err)
	for k, v := range ev.Tags {
		e = e.Str("tag."+k, v)
	}
	if len(ev.Extra) > 0 {
		e = e.Interface("extra", ev.Extra)
	}
	e.Msg("captured exception")
	return nil
}

func zerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarning:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// Nop discards every event.
type Nop struct{}

func (Nop) CaptureException(context.Context, error, Event) error { return nil }
