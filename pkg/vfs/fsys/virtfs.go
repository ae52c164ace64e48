package fsys

import (
	"sort"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/delta"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/entry"
)

// VirtFs composes a host ReadFs with a delta.VirtualFs representation to
// answer reads as if staged mutations were already applied. Its mutators
// update the representation rather than touching the host.
type VirtFs struct {
	host ReadFs
	repr *delta.VirtualFs
}

// NewVirtFs creates a VirtFs backed by host and an empty representation.
func NewVirtFs(host ReadFs) *VirtFs {
	return &VirtFs{host: host, repr: delta.NewVirtualFs()}
}

// NewVirtFsWithRepresentation creates a VirtFs backed by host, adopting an
// already-built representation instead of starting empty. Used to resume a
// persisted staging session.
func NewVirtFsWithRepresentation(host ReadFs, repr *delta.VirtualFs) *VirtFs {
	return &VirtFs{host: host, repr: repr}
}

// Representation exposes the underlying VirtualFs for the Container and
// for serialization.
func (v *VirtFs) Representation() *delta.VirtualFs { return v.repr }

// boundAncestor finds the nearest (deepest) ancestor of p, or p itself,
// that carries a directory source binding in add. It returns the bound
// identity, its source, and whether one was found.
func (v *VirtFs) boundAncestor(p core.Path) (core.Path, core.Path, bool) {
	candidates := append(append([]core.Path{}, p.Ancestors()...), p)
	for i := len(candidates) - 1; i >= 0; i-- {
		anc := candidates[i]
		if n, ok := v.repr.Add().Get(anc); ok && n.Source != nil && n.Kind == core.Directory {
			return anc, *n.Source, true
		}
	}
	return "", "", false
}

// Status classifies p and synthesizes an Entry for it.
func (v *VirtFs) Status(p core.Path) (entry.Entry, error) {
	hostPath := p
	if anc, src, ok := v.boundAncestor(p); ok && anc != p {
		hostPath = p.Rebase(anc, src)
	} else if ok && anc == p {
		hostPath = src
	}

	hostEnt, err := v.host.Status(hostPath)
	if err != nil {
		return entry.Entry{}, err
	}

	state := v.repr.Status(p, hostEnt.Exists())

	switch state {
	case delta.ExistsVirtually, delta.Replaced:
		node, _ := v.repr.Add().Get(p)
		return entry.New(p, node.Kind, true, entry.OriginVirtual, node.Source), nil
	case delta.Exists:
		return entry.New(p, hostEnt.Kind(), true, entry.OriginHost, nil), nil
	case delta.ExistsThroughVirtualParent:
		src := hostPath
		return entry.New(p, hostEnt.Kind(), hostEnt.Exists(), entry.OriginVirtual, &src), nil
	default:
		return entry.New(p, core.Unknown, false, entry.OriginHost, nil), nil
	}
}

// ReadDir merges host children (rebased through any directory binding),
// add's direct children, and sub's removals, sorted by path.
func (v *VirtFs) ReadDir(p core.Path) ([]entry.Entry, error) {
	self, err := v.Status(p)
	if err != nil {
		return nil, err
	}
	if !self.Exists() && !p.IsRoot() {
		return nil, &core.QueryError{Kind: core.ErrReadTargetDoesNotExist, Path: string(p)}
	}
	if self.Exists() && self.IsFile() {
		return nil, &core.QueryError{Kind: core.ErrQueryIsNotADirectory, Path: string(p)}
	}

	merged := make(map[core.Path]entry.Entry)

	hostPath := p
	rebase := false
	if anc, src, ok := v.boundAncestor(p); ok {
		if anc == p {
			hostPath = src
		} else {
			hostPath = p.Rebase(anc, src)
		}
		rebase = true
	}

	if hostEnts, err := v.host.ReadDir(hostPath); err == nil {
		for _, e := range hostEnts {
			childPath := e.Path()
			if rebase {
				childPath = e.Path().Rebase(hostPath, p)
			}
			merged[childPath] = entry.New(childPath, e.Kind(), true, entry.OriginHost, nil)
		}
	}

	// A rebind (boundAncestor found a binding at p or one of its
	// ancestors) can leave staged content parented under the binding's
	// *source* path rather than under p itself: e.g. after
	// "mv /A /B/A; cp /B /A", /A rebinds to source /B, but the nested
	// binding created by the first move is attached at /B/A in add, not
	// at /A. Reading /A through the host-child merge above alone would
	// never surface it, so also pull add's children of the source side
	// and rebase them onto p the same way host children are rebased.
	if rebase {
		for _, child := range v.repr.Add().Children(hostPath) {
			childPath := child.Identity.Rebase(hostPath, p)
			if _, ok := merged[childPath]; ok {
				continue
			}
			merged[childPath] = entry.New(childPath, child.Kind, true, entry.OriginVirtual, child.Source)
		}
	}

	for _, child := range v.repr.Add().Children(p) {
		merged[child.Identity] = entry.New(child.Identity, child.Kind, true, entry.OriginVirtual, child.Source)
	}

	for childPath := range merged {
		if _, removed := v.repr.Sub().Get(childPath); removed {
			delete(merged, childPath)
		}
	}

	out := make([]entry.Entry, 0, len(merged))
	for _, e := range merged {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path() < out[j].Path() })
	return out, nil
}

// IsDirectoryEmpty reports whether p, read through the overlay, has no
// visible children.
func (v *VirtFs) IsDirectoryEmpty(p core.Path) (bool, error) {
	children, err := v.ReadDir(p)
	if err != nil {
		return false, err
	}
	return len(children) == 0, nil
}

// CreateEmptyDirectory stages a fresh directory at p.
func (v *VirtFs) CreateEmptyDirectory(p core.Path) error {
	return v.repr.AttachAdd(p, nil, core.Directory)
}

// CreateEmptyFile stages a fresh empty file at p.
func (v *VirtFs) CreateEmptyFile(p core.Path) error {
	return v.repr.AttachAdd(p, nil, core.File)
}

// BindDirectoryToDirectory stages dst as a directory whose content is
// lazily materialized from src.
func (v *VirtFs) BindDirectoryToDirectory(src, dst core.Path) error {
	s := src
	return v.repr.AttachAdd(dst, &s, core.Directory)
}

// CopyFileToFile stages dst as a file bound to src's bytes.
func (v *VirtFs) CopyFileToFile(src, dst core.Path) error {
	s := src
	return v.repr.AttachAdd(dst, &s, core.File)
}

// MoveFileToFile stages dst bound to src's bytes and marks src removed.
func (v *VirtFs) MoveFileToFile(src, dst core.Path) error {
	s := src
	if err := v.repr.AttachAdd(dst, &s, core.File); err != nil {
		return err
	}
	srcEnt, err := v.Status(src)
	if err != nil {
		return err
	}
	return v.repr.AttachSub(src, nil, srcEnt.Kind())
}

// RemoveFile and RemoveEmptyDirectory both stage a removal marker and,
// if the path was itself a pending addition, retract that addition too.
func (v *VirtFs) RemoveFile(p core.Path) error { return v.remove(p) }

func (v *VirtFs) RemoveEmptyDirectory(p core.Path) error { return v.remove(p) }

func (v *VirtFs) remove(p core.Path) error {
	ent, err := v.Status(p)
	if err != nil {
		return err
	}
	// p may already sit in sub as the implicit ancestor of removed
	// children; keep that node's kind so re-attaching it does not conflict.
	kind := ent.Kind()
	if node, ok := v.repr.Sub().Get(p); ok {
		kind = node.Kind
	}
	if err := v.repr.AttachSub(p, nil, kind); err != nil {
		return err
	}
	if _, ok := v.repr.Add().Get(p); ok {
		return v.repr.DetachAdd(p)
	}
	return nil
}

// RemoveMaintainedEmptyDirectory marks p removed without retracting any
// pending addition at p, preserving bookkeeping for Move's "after" phase
// where descendants were already re-bound under the destination.
func (v *VirtFs) RemoveMaintainedEmptyDirectory(p core.Path) error {
	ent, err := v.Status(p)
	if err != nil {
		return err
	}
	return v.repr.AttachSub(p, nil, ent.Kind())
}

// SourceOf reports the single binding hop staged for p in add, if any,
// plus the Seq it was last attached at, ignoring whether p itself
// currently reads as removed: removal-after-move bookkeeping hides a path
// from reads without erasing the real bytes it once pointed at.
func (v *VirtFs) SourceOf(p core.Path) (core.Path, uint64, bool) {
	node, ok := v.repr.Add().Get(p)
	if !ok || node.Source == nil {
		return "", 0, false
	}
	return *node.Source, node.Seq, true
}

// ReadFile resolves p through any directory binding and delegates to the
// host, if it exposes ByteReader. It is consulted only for checksum
// verification, never for ordinary reads.
func (v *VirtFs) ReadFile(p core.Path) ([]byte, error) {
	reader, ok := v.host.(ByteReader)
	if !ok {
		return nil, &core.InfrastructureError{Op: "checksum-read", Path: string(p), Cause: errHostNotReadable}
	}
	hostPath := p
	if anc, src, ok := v.boundAncestor(p); ok {
		if anc == p {
			hostPath = src
		} else {
			hostPath = p.Rebase(anc, src)
		}
	}
	return reader.ReadFile(hostPath)
}

var errHostNotReadable = &hostNotReadableErr{}

type hostNotReadableErr struct{}

func (*hostNotReadableErr) Error() string { return "host does not support byte reads" }
