// Package entry implements Entry, the uniform polymorphic view over
// representation nodes and host paths used by reads and listings.
package entry

import (
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
)

// Origin discriminates what produced an Entry, used instead of an
// inheritance hierarchy so consumers switch on a tag rather than type-assert.
type Origin int

const (
	// OriginHost means the entry reflects an unmodified host path.
	OriginHost Origin = iota
	// OriginVirtual means the entry reflects a staged (add/sub) path.
	OriginVirtual
)

// Entry is a short-lived value produced by listings and status queries. It
// does not own the representation it was read from.
type Entry struct {
	path   core.Path
	kind   core.Kind
	exists bool
	origin Origin
	source *core.Path
}

// New constructs an Entry.
func New(path core.Path, kind core.Kind, exists bool, origin Origin, source *core.Path) Entry {
	return Entry{path: path, kind: kind, exists: exists, origin: origin, source: source}
}

// Path returns the entry's absolute path.
func (e Entry) Path() core.Path { return e.path }

// Name returns the last path component, or "" for root.
func (e Entry) Name() string { return e.path.Name() }

// IsFile reports whether the entry's kind is File.
func (e Entry) IsFile() bool { return e.kind == core.File }

// IsDir reports whether the entry's kind is Directory.
func (e Entry) IsDir() bool { return e.kind == core.Directory }

// Kind returns the entry's kind.
func (e Entry) Kind() core.Kind { return e.kind }

// Exists reports whether the entry is present in the current projection.
func (e Entry) Exists() bool { return e.exists }

// IsVirtual reports whether this entry was produced from the staging
// layer rather than an unmodified host path.
func (e Entry) IsVirtual() bool { return e.origin == OriginVirtual }

// Source returns the path this entry's bytes are bound to on commit, if any.
func (e Entry) Source() (core.Path, bool) {
	if e.source == nil {
		return "", false
	}
	return *e.source, true
}

// IsContainedBy reports whether other is an ancestor of e's path, or equal.
func (e Entry) IsContainedBy(other core.Path) bool {
	return other.IsAncestorOf(e.path)
}

// ToPath returns an owned copy of the entry's path.
func (e Entry) ToPath() core.Path { return e.path }
