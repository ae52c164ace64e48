package delta

import (
	"sort"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
)

// VirtualDelta is a path-keyed tree: a mapping from absolute path to the
// set of its direct children, plus the node stored at each path. A path
// exists in the delta only if every strict ancestor also does; a given
// identity appears at most once.
type VirtualDelta struct {
	nodes    map[core.Path]*VirtualPath
	children map[core.Path]map[core.Path]struct{}
}

// NewVirtualDelta creates an empty delta.
func NewVirtualDelta() *VirtualDelta {
	return &VirtualDelta{
		nodes:    make(map[core.Path]*VirtualPath),
		children: make(map[core.Path]map[core.Path]struct{}),
	}
}

// IsEmpty reports whether the delta holds no nodes.
func (d *VirtualDelta) IsEmpty() bool {
	return len(d.nodes) == 0
}

// Get returns the node at path, if any.
func (d *VirtualDelta) Get(path core.Path) (*VirtualPath, bool) {
	n, ok := d.nodes[path]
	return n, ok
}

// Children returns the direct children of path, sorted by identity for
// determinism. Returns an empty slice if path has no children (including
// if path itself is absent).
func (d *VirtualDelta) Children(path core.Path) []*VirtualPath {
	set, ok := d.children[path]
	if !ok {
		return nil
	}
	out := make([]*VirtualPath, 0, len(set))
	for childPath := range set {
		out = append(out, d.nodes[childPath])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identity < out[j].Identity })
	return out
}

// Walk returns every descendant of path, depth-first, pre-order.
func (d *VirtualDelta) Walk(path core.Path) []*VirtualPath {
	var out []*VirtualPath
	var visit func(core.Path)
	visit = func(p core.Path) {
		for _, child := range d.Children(p) {
			out = append(out, child)
			visit(child.Identity)
		}
	}
	visit(path)
	return out
}

// Attach inserts path with the given source/kind/seq, implicitly attaching
// any missing ancestors as directories. It fails if an ancestor already
// exists as a non-directory, or if path already exists with a conflicting
// kind.
func (d *VirtualDelta) Attach(path core.Path, source *core.Path, kind core.Kind, seq uint64) error {
	if existing, ok := d.nodes[path]; ok {
		if existing.Kind != kind {
			return &core.RepresentationError{Kind: core.ErrAlreadyExists, Path: string(path)}
		}
		existing.Source = source
		existing.Seq = seq
		return nil
	}

	ancestors := path.Ancestors()
	for _, anc := range ancestors {
		if n, ok := d.nodes[anc]; ok {
			if n.Kind != core.Directory {
				return &core.RepresentationError{Kind: core.ErrVirtualParentIsAFile, Path: string(path), Hint: string(anc)}
			}
			continue
		}
		if err := d.insert(anc, nil, core.Directory, seq); err != nil {
			return err
		}
	}

	return d.insert(path, source, kind, seq)
}

// insert places a single node, assuming ancestors are already present.
func (d *VirtualDelta) insert(path core.Path, source *core.Path, kind core.Kind, seq uint64) error {
	node := &VirtualPath{Identity: path, Source: source, Kind: kind, Seq: seq}
	d.nodes[path] = node
	if parent, ok := path.Parent(); ok {
		set, ok := d.children[parent]
		if !ok {
			set = make(map[core.Path]struct{})
			d.children[parent] = set
		}
		set[path] = struct{}{}
	}
	return nil
}

// Detach removes path and all of its descendants. Fails ErrDoesNotExist if
// path is absent.
func (d *VirtualDelta) Detach(path core.Path) error {
	if _, ok := d.nodes[path]; !ok {
		return &core.RepresentationError{Kind: core.ErrDoesNotExist, Path: string(path)}
	}
	for _, desc := range d.Walk(path) {
		delete(d.nodes, desc.Identity)
		delete(d.children, desc.Identity)
	}
	delete(d.nodes, path)
	delete(d.children, path)
	if parent, ok := path.Parent(); ok {
		if set, ok := d.children[parent]; ok {
			delete(set, path)
		}
	}
	return nil
}

// Sub computes a - b: every node of a whose identity, and every ancestor's
// identity, is absent from b. The root, which every non-empty delta holds
// as an implicit ancestor, is not counted as a match. It is referentially
// transparent and order-independent, and idempotent: a.Sub(b).Sub(b) == a.Sub(b).
func (d *VirtualDelta) Sub(b *VirtualDelta) *VirtualDelta {
	out := NewVirtualDelta()

	excluded := func(p core.Path) bool {
		if p.IsRoot() {
			return false
		}
		if _, ok := b.nodes[p]; ok {
			return true
		}
		for _, anc := range p.Ancestors() {
			if anc.IsRoot() {
				continue
			}
			if _, ok := b.nodes[anc]; ok {
				return true
			}
		}
		return false
	}

	all := make([]*VirtualPath, 0, len(d.nodes))
	for _, n := range d.nodes {
		all = append(all, n)
	}
	sort.Slice(all, func(i, j int) bool {
		return depth(all[i].Identity) < depth(all[j].Identity)
	})

	for _, n := range all {
		if excluded(n.Identity) {
			continue
		}
		// Ancestors of n are guaranteed already attached in out: exclusion
		// is monotonic down the tree, so if n survives, every ancestor of
		// n survived the same test earlier in this shallow-to-deep pass.
		if err := out.Attach(n.Identity, n.Source, n.Kind, n.Seq); err != nil {
			// Cannot happen: ancestors were inserted as directories with
			// matching kind by the same pass, or n.Identity is itself an
			// ancestor directory already inserted for a deeper sibling.
			continue
		}
	}
	return out
}

func depth(p core.Path) int {
	return len(p.Ancestors())
}

// Clone returns a deep copy, used by the Container to snapshot the
// representation before a multi-step request and roll it back whole if any
// step fails partway through.
func (d *VirtualDelta) Clone() *VirtualDelta {
	out := NewVirtualDelta()
	for p, n := range d.nodes {
		cp := *n
		out.nodes[p] = &cp
	}
	for p, set := range d.children {
		clone := make(map[core.Path]struct{}, len(set))
		for c := range set {
			clone[c] = struct{}{}
		}
		out.children[p] = clone
	}
	return out
}
