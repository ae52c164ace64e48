package guard

import "github.com/mkontsevoy/vfoverlay/pkg/vfs/core"

// BlindGuard authorizes every capability unconditionally. Used by
// programmatic callers that have already decided to proceed regardless.
type BlindGuard struct{}

func (BlindGuard) Authorize(core.Path, Capability) (bool, error) { return true, nil }

// ZealedGuard denies every capability crossing, turning each one into the
// matching DomainError instead of silently skipping or prompting.
type ZealedGuard struct{}

func (ZealedGuard) Authorize(target core.Path, cap Capability) (bool, error) {
	return false, capabilityError(target, cap)
}

// SkipGuard silently skips any operation that would need a capability,
// without raising an error. The batch continues around the gap.
type SkipGuard struct{}

func (SkipGuard) Authorize(core.Path, Capability) (bool, error) { return false, nil }

// PresetGuard authorizes exactly the capabilities fixed in advance (for
// example from CLI flags --merge/--overwrite/--recursive) and turns any
// other capability crossing into the matching DomainError.
type PresetGuard struct {
	Allowed Capability
}

// NewPreset builds a PresetGuard from individual capability flags, the
// shape CLI boolean flags naturally produce.
func NewPreset(merge, overwrite, recursive bool) PresetGuard {
	var allowed Capability
	if merge {
		allowed |= CapMerge
	}
	if overwrite {
		allowed |= CapOverwrite
	}
	if recursive {
		allowed |= CapRecursive
	}
	return PresetGuard{Allowed: allowed}
}

func (g PresetGuard) Authorize(target core.Path, cap Capability) (bool, error) {
	if g.Allowed&cap != 0 {
		return true, nil
	}
	return false, capabilityError(target, cap)
}

func capabilityError(target core.Path, cap Capability) error {
	switch cap {
	case CapMerge:
		return &core.DomainError{Kind: core.ErrMergeNotAllowed, Target: string(target)}
	case CapOverwrite:
		return &core.DomainError{Kind: core.ErrOverwriteNotAllowed, Target: string(target)}
	case CapRecursive:
		return &core.DomainError{Kind: core.ErrRecursiveNotAllowed, Target: string(target)}
	default:
		return &core.DomainError{Kind: core.ErrOverwriteNotAllowed, Target: string(target)}
	}
}
