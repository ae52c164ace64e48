// Package stage implements Container, the single mutable object a caller
// holds: it owns the staged representation, the pending commit plan, and
// the guard consulted before any operation that would merge, overwrite, or
// recurse.
package stage

import (
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/delta"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/entry"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/fsys"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/guard"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/ops"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/persist"
)

// Container is the staging session: reads run through its VirtFs overlay,
// mutations extend its pending MicroOperation plan, and Commit replays
// that plan against a real WriteFs.
type Container struct {
	vfs     *fsys.VirtFs
	pending []ops.MicroOperation
	guard   guard.Guard
	logger  core.Logger
}

// New creates a Container reading through host, authorizing every
// merge/overwrite/recursive crossing with g.
func New(host fsys.ReadFs, g guard.Guard, logger core.Logger) *Container {
	if logger == nil {
		logger = core.NoopLogger{}
	}
	if g == nil {
		g = guard.ZealedGuard{}
	}
	return &Container{vfs: fsys.NewVirtFs(host), guard: g, logger: logger}
}

// Status, ReadDir and IsDirectoryEmpty are the read surface, delegating to
// the staged overlay so callers never see the pre-staging host state for a
// path that has been touched.
func (c *Container) Status(p core.Path) (entry.Entry, error) { return c.vfs.Status(p) }

func (c *Container) ReadDir(p core.Path) ([]entry.Entry, error) { return c.vfs.ReadDir(p) }

func (c *Container) IsDirectoryEmpty(p core.Path) (bool, error) { return c.vfs.IsDirectoryEmpty(p) }

// Pending returns the commit plan accumulated so far, for inspection or
// persistence. The slice is owned by the caller; it is not aliased by the
// Container after return.
func (c *Container) Pending() []ops.MicroOperation {
	out := make([]ops.MicroOperation, len(c.pending))
	copy(out, c.pending)
	return out
}

// Representation exposes the underlying two-delta representation, for
// persistence and for rendering trees.
func (c *Container) Representation() *fsys.VirtFs { return c.vfs }

// Stage runs req through its Generator using the Container's default
// guard, extending the representation and pending plan on success. On any
// error the representation is left exactly as it was before the call.
func (c *Container) Stage(req ops.Request) error {
	return c.StageWithGuard(req, c.guard)
}

// StageWithGuard is Stage with an explicit, one-off guard, used by callers
// that want a different authorization policy for a single request (for
// example a CLI flag that only applies to one invocation).
func (c *Container) StageWithGuard(req ops.Request, g guard.Guard) error {
	repr := c.vfs.Representation()
	snapshot := repr.Clone()

	gen := ops.NewGenerator(req)
	var newPending []ops.MicroOperation

	for {
		op, ok, err := gen.Next(c.vfs)
		if err != nil {
			repr.Restore(snapshot)
			c.logger.Warn().Err(err).Msg("staging failed, representation rolled back")
			return err
		}
		if !ok {
			break
		}

		if cap, needed := op.RequiredCapability(); needed {
			allowed, err := g.Authorize(op.Target(), cap)
			if err != nil {
				repr.Restore(snapshot)
				c.logger.Warn().Err(err).Str("target", string(op.Target())).Msg("guard denied operation")
				return err
			}
			if !allowed {
				c.logger.Debug().Str("target", string(op.Target())).Str("capability", cap.String()).Msg("operation skipped by guard")
				continue
			}
		}

		micro := ops.Schedule(op)
		for _, m := range micro {
			if err := m.Apply(c.vfs); err != nil {
				repr.Restore(snapshot)
				c.logger.Warn().Err(err).Msg("applying micro-operation to representation failed")
				return err
			}
		}

		if expanded, replaced, err := ops.ExpandForCommit(op, c.vfs); err != nil {
			repr.Restore(snapshot)
			return err
		} else if replaced {
			newPending = append(newPending, expanded...)
		} else {
			newPending = append(newPending, micro...)
		}
	}

	c.pending = append(c.pending, newPending...)
	c.logger.Info().Int("micro_operations", len(newPending)).Msg("request staged")
	return nil
}

// StageBatch orders reqs by cross-request dependency and stages each in
// turn. A later request's failure does not roll back requests already
// staged earlier in the same batch; only a single request's own steps are
// atomic.
func (c *Container) StageBatch(reqs []ops.Request) error {
	ordered, err := ops.OrderBatch(reqs)
	if err != nil {
		return err
	}
	for _, req := range ordered {
		if err := c.Stage(req); err != nil {
			return err
		}
	}
	return nil
}

// Commit replays the pending plan, in order, against target. It stops at
// the first failure, leaving target in whatever partial state resulted,
// and returns that error with the plan still pending (nothing is cleared
// on failure, so a caller can inspect or retry). On full success the
// pending plan and the staged representation are both cleared, since the
// host now matches what the representation had projected.
func (c *Container) Commit(target fsys.WriteFs) error {
	for i, m := range c.pending {
		if err := m.Apply(target); err != nil {
			c.logger.Error().Err(err).Int("index", i).Str("kind", m.Kind.String()).Msg("commit failed")
			return err
		}
	}
	c.logger.Info().Int("micro_operations", len(c.pending)).Msg("commit succeeded")
	c.pending = nil
	c.vfs.Representation().Reset()
	return nil
}

// Reset discards all staged mutations and the pending plan without
// touching the host.
func (c *Container) Reset() {
	c.pending = nil
	c.vfs.Representation().Reset()
}

// Save captures the current representation and pending plan as an
// indented JSON session document, suitable for writing to disk and
// resuming later with Load.
func (c *Container) Save(description string) ([]byte, error) {
	repr := c.vfs.Representation()
	session := persist.FromRepresentation(repr.Add(), repr.Sub(), c.Pending(), description)
	return persist.Save(session)
}

// Load replaces c's representation and pending plan with the contents of
// a previously Saved session document. The host and guard are left
// untouched; only the staged state is restored.
func (c *Container) Load(host fsys.ReadFs, data []byte) error {
	session, pending, err := persist.Load(data)
	if err != nil {
		return err
	}
	repr := delta.NewVirtualFsFromDeltas(session.Add, session.Sub)
	c.vfs = fsys.NewVirtFsWithRepresentation(host, repr)
	c.pending = pending
	return nil
}
