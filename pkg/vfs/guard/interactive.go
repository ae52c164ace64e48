package guard

import "github.com/mkontsevoy/vfoverlay/pkg/vfs/core"

// Decision is a user's answer to a single capability prompt.
type Decision int

const (
	DecisionSkip Decision = iota
	DecisionSkipAll
	DecisionAllow
	DecisionAllowAll
	DecisionCancel
)

// Prompter asks the operator whether a single capability crossing at
// target should proceed. Implementations back this with a terminal
// prompt, a scripted answer queue in tests, or any other front end.
type Prompter interface {
	Prompt(target core.Path, cap Capability) (Decision, error)
}

// InteractiveGuard asks a Prompter once per crossing, remembering any
// "all" answer for the remainder of the batch.
type InteractiveGuard struct {
	Prompter Prompter

	allowAll Capability
	skipAll  Capability
}

func (g *InteractiveGuard) Authorize(target core.Path, cap Capability) (bool, error) {
	if g.allowAll&cap != 0 {
		return true, nil
	}
	if g.skipAll&cap != 0 {
		return false, nil
	}

	decision, err := g.Prompter.Prompt(target, cap)
	if err != nil {
		return false, err
	}

	switch decision {
	case DecisionAllow:
		return true, nil
	case DecisionAllowAll:
		g.allowAll |= cap
		return true, nil
	case DecisionSkip:
		return false, nil
	case DecisionSkipAll:
		g.skipAll |= cap
		return false, nil
	case DecisionCancel:
		return false, &core.DomainError{Kind: core.ErrUserCancelled, Target: string(target)}
	default:
		return false, nil
	}
}
