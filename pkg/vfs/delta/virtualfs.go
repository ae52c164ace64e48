package delta

import (
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
)

// VirtualFs is the two-layer representation: an additive delta and a
// subtractive delta, plus the monotonic revision counter that lets the
// classifier tell a recreate-after-remove (Replaced) apart from a
// remove-after-virtual-create (RemovedVirtually) at the same identity.
type VirtualFs struct {
	add *VirtualDelta
	sub *VirtualDelta
	seq uint64
}

// NewVirtualFs creates an empty representation.
func NewVirtualFs() *VirtualFs {
	return &VirtualFs{add: NewVirtualDelta(), sub: NewVirtualDelta()}
}

// NewVirtualFsFromDeltas rebuilds a representation from a previously
// persisted add/sub pair, resuming the revision counter from the highest
// Seq found in either delta so freshly staged nodes keep sorting after
// every restored one.
func NewVirtualFsFromDeltas(add, sub *VirtualDelta) *VirtualFs {
	var maxSeq uint64
	for _, n := range add.nodes {
		if n.Seq > maxSeq {
			maxSeq = n.Seq
		}
	}
	for _, n := range sub.nodes {
		if n.Seq > maxSeq {
			maxSeq = n.Seq
		}
	}
	return &VirtualFs{add: add, sub: sub, seq: maxSeq}
}

// Add returns the additive delta.
func (v *VirtualFs) Add() *VirtualDelta { return v.add }

// Sub returns the subtractive delta.
func (v *VirtualFs) Sub() *VirtualDelta { return v.sub }

// HasAddition reports whether anything has been staged as added.
func (v *VirtualFs) HasAddition() bool { return !v.add.IsEmpty() }

// HasSubtraction reports whether anything has been staged as removed.
func (v *VirtualFs) HasSubtraction() bool { return !v.sub.IsEmpty() }

// VirtualProjection is the forward overlay: add - sub.
func (v *VirtualFs) VirtualProjection() *VirtualDelta { return v.add.Sub(v.sub) }

// ReverseProjection is the reverse overlay: sub - add.
func (v *VirtualFs) ReverseProjection() *VirtualDelta { return v.sub.Sub(v.add) }

// nextSeq advances and returns the shared revision counter.
func (v *VirtualFs) nextSeq() uint64 {
	v.seq++
	return v.seq
}

// AttachAdd stages path into the additive delta.
func (v *VirtualFs) AttachAdd(path core.Path, source *core.Path, kind core.Kind) error {
	return v.add.Attach(path, source, kind, v.nextSeq())
}

// AttachSub stages path into the subtractive delta.
func (v *VirtualFs) AttachSub(path core.Path, source *core.Path, kind core.Kind) error {
	return v.sub.Attach(path, source, kind, v.nextSeq())
}

// DetachAdd removes path (and descendants) from the additive delta.
func (v *VirtualFs) DetachAdd(path core.Path) error { return v.add.Detach(path) }

// DetachSub removes path (and descendants) from the subtractive delta.
func (v *VirtualFs) DetachSub(path core.Path) error { return v.sub.Detach(path) }

// Reset clears both deltas and the revision counter.
func (v *VirtualFs) Reset() {
	v.add = NewVirtualDelta()
	v.sub = NewVirtualDelta()
	v.seq = 0
}

// Clone returns a deep copy of the representation, including the revision
// counter, so a rolled-back request resumes issuing Seq values exactly
// where the snapshot left off.
func (v *VirtualFs) Clone() *VirtualFs {
	return &VirtualFs{add: v.add.Clone(), sub: v.sub.Clone(), seq: v.seq}
}

// Restore replaces v's deltas and revision counter with snapshot's,
// in place, so existing references to v observe the rollback.
func (v *VirtualFs) Restore(snapshot *VirtualFs) {
	v.add = snapshot.add
	v.sub = snapshot.sub
	v.seq = snapshot.seq
}

// Status classifies path given whether it is present on the host. It
// consults add and sub in the fixed order described in the data model:
// both-present paths are disambiguated by the add/sub revision counters.
func (v *VirtualFs) Status(path core.Path, hostExists bool) VirtualState {
	addNode, inAdd := v.add.Get(path)
	subNode, inSub := v.sub.Get(path)

	switch {
	case inAdd && inSub:
		if addNode.Seq > subNode.Seq {
			return Replaced
		}
		return RemovedVirtually
	case inAdd:
		return ExistsVirtually
	case inSub:
		if hostExists {
			return Removed
		}
		return NotExists
	case hostExists:
		return Exists
	default:
		for _, anc := range path.Ancestors() {
			if n, ok := v.add.Get(anc); ok && n.Source != nil && n.Kind == core.Directory {
				return ExistsThroughVirtualParent
			}
		}
		return NotExists
	}
}
