package ops

import (
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/guard"
)

// OperationKind says which Request family an Operation was generated from.
type OperationKind int

const (
	OpCreate OperationKind = iota
	OpCopy
	OpMove
	OpRemove
)

// DescendantStep is one entry of a precomputed recursive plan: a path
// relative to the operation's root, tagged with the micro-operation kind
// that applies to it. Generators compute these (they alone consult the
// filesystem); Schedule only maps them onto absolute MicroOperations.
type DescendantStep struct {
	RelPath string
	Kind    MicroKind
}

// Operation is one step yielded by a Generator: either an ancestor
// directory creation or the primary operation for the original Request.
// It carries everything Schedule needs to produce MicroOperations without
// itself touching the filesystem.
type Operation struct {
	Kind OperationKind

	CreateStrategy CreateStrategy
	CopyStrategy   CopyStrategy
	MoveStrategy   MoveStrategy
	RemoveStrategy RemoveStrategy

	Request Request

	// ResolvedSource is the real host path a Copy/Move source ultimately
	// points to, after following any chain of virtual bindings.
	ResolvedSource core.Path
	HasSource      bool

	// Descendants is populated by the Generator for strategies that need
	// an eager, per-child plan (DirectoryCopyMerge, DirectoryMoveMerge,
	// RecursiveDirectoryRemoval) instead of a single lazy binding.
	Descendants []DescendantStep

	// SourceChecksum, when set, pins the source's content as observed at
	// generation time for later re-verification at commit.
	SourceChecksum *ChecksumRecord
}

// Target returns the path this operation ultimately mutates: the create
// path, the copy/move destination, or the remove path.
func (o Operation) Target() core.Path {
	switch r := o.Request.(type) {
	case CreateRequest:
		return r.Path
	case CopyRequest:
		return r.Dst
	case MoveRequest:
		return r.Dst
	case RemoveRequest:
		return r.Path
	default:
		return core.Root
	}
}

// RequiredCapability reports the guard.Capability this operation's
// strategy needs authorization for, if any.
func (o Operation) RequiredCapability() (guard.Capability, bool) {
	switch o.Kind {
	case OpCreate:
		return o.CreateStrategy.requiredCapability()
	case OpCopy:
		return o.CopyStrategy.requiredCapability()
	case OpMove:
		return o.MoveStrategy.requiredCapability()
	case OpRemove:
		return o.RemoveStrategy.requiredCapability()
	default:
		return 0, false
	}
}
