package delta

// VirtualState classifies how a queried path relates to the host
// filesystem and the staged add/sub deltas. Exactly one of these holds for
// any path at any point in a staging session.
type VirtualState int

const (
	// NotExists: neither host nor staged presence.
	NotExists VirtualState = iota
	// Exists: present on host, unaffected by staging.
	Exists
	// ExistsVirtually: directly present in add.
	ExistsVirtually
	// ExistsThroughVirtualParent: present because an ancestor in add is a
	// bound directory source.
	ExistsThroughVirtualParent
	// Replaced: present in add and sub, with add the more recent write —
	// the path was staged-removed and then recreated; final content wins
	// from add.
	Replaced
	// Removed: present on host, present in sub.
	Removed
	// RemovedVirtually: present in add, present in sub, with sub the more
	// recent write — final state is absent.
	RemovedVirtually
)

func (s VirtualState) String() string {
	switch s {
	case Exists:
		return "Exists"
	case ExistsVirtually:
		return "ExistsVirtually"
	case ExistsThroughVirtualParent:
		return "ExistsThroughVirtualParent"
	case Replaced:
		return "Replaced"
	case Removed:
		return "Removed"
	case RemovedVirtually:
		return "RemovedVirtually"
	default:
		return "NotExists"
	}
}

// IsPresent reports whether this state implies a visible, readable path in
// the virtual projection.
func (s VirtualState) IsPresent() bool {
	switch s {
	case Exists, ExistsVirtually, ExistsThroughVirtualParent, Replaced:
		return true
	default:
		return false
	}
}
