// Package ops translates a user Request into a typed Strategy, a sequence
// of Operations (via a lazy Generator), and finally an ordered list of
// MicroOperations (via the Scheduler).
package ops

import "github.com/mkontsevoy/vfoverlay/pkg/vfs/core"

// Request is an immutable, per-intent value describing what the user asked
// for, before any filesystem inspection has happened.
type Request interface {
	requestMarker()
}

// CreateRequest asks for path to exist with the given kind.
type CreateRequest struct {
	Path core.Path
	Kind core.Kind
}

func (CreateRequest) requestMarker() {}

// CopyRequest asks for src's content to also exist at dst.
type CopyRequest struct {
	Src core.Path
	Dst core.Path
}

func (CopyRequest) requestMarker() {}

// MoveRequest asks for src's content to exist at dst and src to no longer
// exist.
type MoveRequest struct {
	Src core.Path
	Dst core.Path
}

func (MoveRequest) requestMarker() {}

// RemoveRequest asks for path to no longer exist.
type RemoveRequest struct {
	Path core.Path
}

func (RemoveRequest) requestMarker() {}
