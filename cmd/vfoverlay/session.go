package main

import (
	"fmt"
	"os"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/fsys"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/stage"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/telemetry"
)

// openContainer builds the RealFs host for cfg.Root and resumes the
// previously persisted session from sessionPath, if one exists, or starts
// a fresh Container otherwise.
func openContainer() (*stage.Container, *fsys.RealFs, error) {
	host := fsys.NewRealFs(cfg.Root)
	logger := telemetry.New(os.Stderr, cfg.LogLevel())
	c := stage.New(host, cfg.Guard(), logger)

	data, err := os.ReadFile(sessionPath)
	if err != nil {
		if os.IsNotExist(err) {
			return c, host, nil
		}
		return nil, nil, fmt.Errorf("reading session file %s: %w", sessionPath, err)
	}
	if err := c.Load(host, data); err != nil {
		return nil, nil, fmt.Errorf("resuming session from %s: %w", sessionPath, err)
	}
	return c, host, nil
}

// persistContainer writes c's current staged state back to sessionPath,
// so the next invocation resumes where this one left off.
func persistContainer(c *stage.Container) error {
	data, err := c.Save("vfoverlay CLI session")
	if err != nil {
		return fmt.Errorf("serializing session: %w", err)
	}
	if err := os.WriteFile(sessionPath, data, 0644); err != nil {
		return fmt.Errorf("writing session file %s: %w", sessionPath, err)
	}
	return nil
}
