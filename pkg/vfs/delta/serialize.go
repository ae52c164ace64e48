package delta

import (
	"encoding/json"
	"sort"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
)

// jsonNode is the wire representation of a single VirtualPath.
type jsonNode struct {
	Identity string  `json:"identity"`
	Source   *string `json:"source,omitempty"`
	Kind     string  `json:"kind"`
	Seq      uint64  `json:"seq"`
}

// MarshalJSON serializes the delta as a flat, identity-sorted node list so
// the encoding is deterministic regardless of map iteration order.
func (d *VirtualDelta) MarshalJSON() ([]byte, error) {
	nodes := make([]jsonNode, 0, len(d.nodes))
	for _, n := range d.nodes {
		jn := jsonNode{Identity: string(n.Identity), Kind: n.Kind.String(), Seq: n.Seq}
		if n.Source != nil {
			s := string(*n.Source)
			jn.Source = &s
		}
		nodes = append(nodes, jn)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Identity < nodes[j].Identity })
	return json.Marshal(nodes)
}

// UnmarshalJSON rebuilds a delta from the flat node list. It re-validates
// the dangling-ancestor and unique-identity invariants; a document that
// violates them is rejected rather than partially adopted.
func (d *VirtualDelta) UnmarshalJSON(data []byte) error {
	var nodes []jsonNode
	if err := json.Unmarshal(data, &nodes); err != nil {
		return err
	}

	fresh := NewVirtualDelta()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Identity < nodes[j].Identity })
	for _, jn := range nodes {
		path, err := core.NewPath(jn.Identity)
		if err != nil {
			return err
		}
		kind := kindFromString(jn.Kind)
		var source *core.Path
		if jn.Source != nil {
			sp, err := core.NewPath(*jn.Source)
			if err != nil {
				return err
			}
			source = &sp
		}
		// Nodes are sorted by identity, so a parent is always seen before
		// its children; anything else is a dangling ancestor.
		if _, dup := fresh.nodes[path]; dup {
			return &core.RepresentationError{Kind: core.ErrAlreadyExists, Path: string(path)}
		}
		if parent, ok := path.Parent(); ok && !parent.IsRoot() {
			if _, present := fresh.nodes[parent]; !present {
				return &core.RepresentationError{Kind: core.ErrDoesNotExist, Path: string(parent), Hint: "dangling ancestor of " + string(path)}
			}
		}
		if err := fresh.Attach(path, source, kind, jn.Seq); err != nil {
			return err
		}
	}

	*d = *fresh
	return nil
}

// Validate re-checks the structural invariants of an already-built delta:
// every non-root identity's parent is present with Directory kind.
func (d *VirtualDelta) Validate() error {
	for path, node := range d.nodes {
		if path.IsRoot() {
			continue
		}
		parent, ok := path.Parent()
		if !ok {
			continue
		}
		parentNode, exists := d.nodes[parent]
		if !exists {
			return &core.RepresentationError{Kind: core.ErrDoesNotExist, Path: string(parent), Hint: "dangling ancestor of " + string(path)}
		}
		if parentNode.Kind != core.Directory {
			return &core.RepresentationError{Kind: core.ErrVirtualParentIsAFile, Path: string(path)}
		}
		_ = node
	}
	return nil
}

func kindFromString(s string) core.Kind {
	switch s {
	case "file":
		return core.File
	case "directory":
		return core.Directory
	default:
		return core.Unknown
	}
}
