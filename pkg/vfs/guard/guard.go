// Package guard decides whether a staged operation that would merge,
// overwrite, or recurse past a target is actually allowed to proceed.
package guard

import "github.com/mkontsevoy/vfoverlay/pkg/vfs/core"

// Capability names a single crossing a Generator may ask permission for.
type Capability int

const (
	// CapMerge is required to fold new content into an existing directory.
	CapMerge Capability = 1 << iota
	// CapOverwrite is required to replace an existing file.
	CapOverwrite
	// CapRecursive is required to remove a non-empty directory.
	CapRecursive
)

func (c Capability) String() string {
	switch c {
	case CapMerge:
		return "merge"
	case CapOverwrite:
		return "overwrite"
	case CapRecursive:
		return "recursive"
	default:
		return "unknown capability"
	}
}

// Guard authorizes a single capability crossing at target. It returns
// (true, nil) to proceed, (false, nil) to silently skip the operation, or
// a non-nil error to abort the whole batch.
type Guard interface {
	Authorize(target core.Path, cap Capability) (bool, error)
}
