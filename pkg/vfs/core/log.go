package core

// Logger is the structured logging seam used throughout the core packages.
// Concrete packages never import zerolog directly; only pkg/vfs/telemetry
// does, behind this interface.
type Logger interface {
	Trace() LogEvent
	Debug() LogEvent
	Info() LogEvent
	Warn() LogEvent
	Error() LogEvent
}

// LogEvent is a single structured log line under construction.
type LogEvent interface {
	Str(key, val string) LogEvent
	Int(key string, val int) LogEvent
	Bool(key string, val bool) LogEvent
	Err(err error) LogEvent
	Interface(key string, val interface{}) LogEvent
	Msg(msg string)
}

// NoopLogger discards everything. It is the default for any component
// constructed without an explicit Logger.
type NoopLogger struct{}

func (NoopLogger) Trace() LogEvent { return noopEvent{} }
func (NoopLogger) Debug() LogEvent { return noopEvent{} }
func (NoopLogger) Info() LogEvent  { return noopEvent{} }
func (NoopLogger) Warn() LogEvent  { return noopEvent{} }
func (NoopLogger) Error() LogEvent { return noopEvent{} }

type noopEvent struct{}

func (e noopEvent) Str(string, string) LogEvent             { return e }
func (e noopEvent) Int(string, int) LogEvent                { return e }
func (e noopEvent) Bool(string, bool) LogEvent               { return e }
func (e noopEvent) Err(error) LogEvent                        { return e }
func (e noopEvent) Interface(string, interface{}) LogEvent   { return e }
func (e noopEvent) Msg(string)                                {}
