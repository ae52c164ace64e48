// Package telemetry is the only package in this module allowed to import
// zerolog directly. Everything else depends on core.Logger.
package telemetry

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/rs/zerolog"
)

// New creates a core.Logger backed by zerolog, writing console-formatted
// output to w at the given level.
func New(w io.Writer, level zerolog.Level) core.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}
	logger := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("lib", "vfoverlay").
		Logger()
	return &adapter{logger: &logger}
}

// Default returns a warn-level logger writing to stderr.
func Default() core.Logger {
	return New(os.Stderr, zerolog.WarnLevel)
}

// LevelFromVerbosity maps a CLI -v count to a zerolog.Level, mirroring the
// conventional 0=warn,1=info,2=debug,3+=trace staircase.
func LevelFromVerbosity(verbose int) zerolog.Level {
	switch verbose {
	case 0:
		return zerolog.WarnLevel
	case 1:
		return zerolog.InfoLevel
	case 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// LevelFromString parses a level name such as "debug" or "info".
func LevelFromString(s string) (zerolog.Level, error) {
	return zerolog.ParseLevel(strings.ToLower(s))
}

type adapter struct {
	logger *zerolog.Logger
}

func (a *adapter) Trace() core.LogEvent { return &eventAdapter{event: a.logger.Trace()} }
func (a *adapter) Debug() core.LogEvent { return &eventAdapter{event: a.logger.Debug()} }
func (a *adapter) Info() core.LogEvent  { return &eventAdapter{event: a.logger.Info()} }
func (a *adapter) Warn() core.LogEvent  { return &eventAdapter{event: a.logger.Warn()} }
func (a *adapter) Error() core.LogEvent { return &eventAdapter{event: a.logger.Error()} }

type eventAdapter struct {
	event *zerolog.Event
}

func (e *eventAdapter) Str(key, val string) core.LogEvent {
	e.event = e.event.Str(key, val)
	return e
}

func (e *eventAdapter) Int(key string, val int) core.LogEvent {
	e.event = e.event.Int(key, val)
	return e
}

func (e *eventAdapter) Bool(key string, val bool) core.LogEvent {
	e.event = e.event.Bool(key, val)
	return e
}

func (e *eventAdapter) Err(err error) core.LogEvent {
	e.event = e.event.Err(err)
	return e
}

func (e *eventAdapter) Interface(key string, val interface{}) core.LogEvent {
	e.event = e.event.Interface(key, val)
	return e
}

func (e *eventAdapter) Msg(msg string) {
	e.event.Msg(msg)
}
