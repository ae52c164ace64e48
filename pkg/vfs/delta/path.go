// Package delta implements the additive/subtractive staging representation:
// VirtualPath nodes, the VirtualDelta tree that holds them, and VirtualFs,
// the add/sub pair with its VirtualState classifier.
package delta

import (
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
)

// VirtualPath is a single node of a delta: a staged path plus where its
// bytes come from on commit.
type VirtualPath struct {
	Identity core.Path
	// Source is the absolute path bytes are copied/moved from on commit.
	// Nil means "empty" (a fresh Create) or "existing real content"
	// (a removal marker, which carries no source).
	Source *core.Path
	Kind    core.Kind
	// Seq is the revision at which this node was last attached, drawn from
	// one counter shared by the add and sub deltas of a VirtualFs.
	// It resolves the add/sub ordering ambiguity the classifier needs to
	// distinguish Replaced from RemovedVirtually (see DESIGN.md).
	Seq uint64
}

// Equal reports whether two nodes have the same identity, matching the
// representation invariant that identity alone determines node equality.
func (v *VirtualPath) Equal(other *VirtualPath) bool {
	if v == nil || other == nil {
		return v == other
	}
	return v.Identity == other.Identity
}
