// Package fsys defines the ReadFs/WriteFs capability traits and their two
// implementations: RealFs (the host) and VirtFs (the staged overlay).
package fsys

import (
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/entry"
)

// ReadFs is the read-only capability trait consulted by Generators.
type ReadFs interface {
	// ReadDir returns the ordered children of p. Fails with a QueryError
	// (ErrReadTargetDoesNotExist, ErrQueryIsNotADirectory) if p is absent
	// or not a directory.
	ReadDir(p core.Path) ([]entry.Entry, error)
	// Status never fails for a syntactically valid path; Exists() on the
	// returned Entry carries presence.
	Status(p core.Path) (entry.Entry, error)
	// IsDirectoryEmpty fails the same way as ReadDir for non-directories.
	IsDirectoryEmpty(p core.Path) (bool, error)
}

// WriteFs adds the concrete mutators every MicroOperation targets. Both
// RealFs (host syscalls) and VirtFs (delta mutation) implement it, so a
// single MicroOperation.Apply can run against either.
type WriteFs interface {
	ReadFs

	CreateEmptyDirectory(p core.Path) error
	CreateEmptyFile(p core.Path) error
	BindDirectoryToDirectory(src, dst core.Path) error
	CopyFileToFile(src, dst core.Path) error
	MoveFileToFile(src, dst core.Path) error
	RemoveFile(p core.Path) error
	RemoveEmptyDirectory(p core.Path) error
	RemoveMaintainedEmptyDirectory(p core.Path) error
}

// SourceResolver is an optional capability exposing a single hop of a
// staged path's binding chain, consulted when resolving a copy/move
// source that is itself a virtual path staged earlier in the same batch
// (for example the /Z in "mv /A /Z; mv /Z /C"). VirtFs implements it;
// RealFs does not, since every host path is already its own terminus.
//
// SourceOf also reports the Seq the binding was last (re)attached at, so
// a chain walker can tell a genuine rename hop from a path identity that
// was reused as an unrelated destination by a later request in the same
// batch: if p's current binding was stamped after the edge that led a
// walker to p, that binding describes a different fact than the one the
// walker is tracing and must not be followed.
type SourceResolver interface {
	SourceOf(p core.Path) (core.Path, uint64, bool)
}

// ByteReader is an optional capability for reading a file's raw bytes,
// consulted when a MicroOperation carries a checksum to verify before a
// copy or move is replayed. RealFs implements it directly; VirtFs
// delegates through any directory binding to the underlying host.
type ByteReader interface {
	ReadFile(p core.Path) ([]byte, error)
}
