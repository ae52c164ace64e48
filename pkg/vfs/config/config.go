// Package config carries the small set of run-time settings shared by
// every entry point (CLI today, daemon later): guard defaults, logging
// verbosity, and the root directory staged operations resolve against.
// It is populated from cobra/pflag flags the way the teacher's
// cmd/synthfs does, kept free of any cobra import itself so it stays
// usable from tests and from a future non-CLI entry point alike.
package config

import (
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/guard"
	"github.com/rs/zerolog"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/telemetry"
)

// Config is the resolved set of settings a command run needs.
type Config struct {
	// Root is the real filesystem directory staged paths are resolved
	// against. Defaults to the current directory.
	Root string
	// Merge, Overwrite and Recursive mirror the --merge/--overwrite/
	// --recursive flags, each authorizing its matching guard.Capability
	// for the whole run.
	Merge, Overwrite, Recursive bool
	// Verbosity is a CLI -v count, 0 meaning warn-level only.
	Verbosity int
}

// Default returns the zero-configuration settings: current directory,
// every capability denied, warn-level logging.
func Default() Config {
	return Config{Root: "."}
}

// Guard builds the guard.Guard this configuration implies: a PresetGuard
// fixed to exactly the capabilities the flags enabled.
func (c Config) Guard() guard.Guard {
	return guard.NewPreset(c.Merge, c.Overwrite, c.Recursive)
}

// LogLevel resolves the -v count to a zerolog.Level, for callers building
// their own telemetry.New writer.
func (c Config) LogLevel() zerolog.Level {
	return telemetry.LevelFromVerbosity(c.Verbosity)
}
