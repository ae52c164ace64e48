package guard_test

import (
	"testing"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/guard"
)

func TestBlindGuard_AlwaysAllows(t *testing.T) {
	g := guard.BlindGuard{}
	ok, err := g.Authorize(core.MustPath("/a"), guard.CapOverwrite)
	if err != nil || !ok {
		t.Fatalf("expected allowed, got ok=%v err=%v", ok, err)
	}
}

func TestZealedGuard_AlwaysErrors(t *testing.T) {
	g := guard.ZealedGuard{}
	ok, err := g.Authorize(core.MustPath("/a"), guard.CapMerge)
	if ok || err == nil {
		t.Fatalf("expected denial with error, got ok=%v err=%v", ok, err)
	}
}

func TestSkipGuard_SilentlySkips(t *testing.T) {
	g := guard.SkipGuard{}
	ok, err := g.Authorize(core.MustPath("/a"), guard.CapRecursive)
	if ok || err != nil {
		t.Fatalf("expected silent skip, got ok=%v err=%v", ok, err)
	}
}

func TestPresetGuard_AllowsOnlyFixedCapabilities(t *testing.T) {
	g := guard.PresetGuard{Allowed: guard.CapMerge | guard.CapOverwrite}

	if ok, err := g.Authorize(core.MustPath("/a"), guard.CapMerge); err != nil || !ok {
		t.Fatalf("expected merge allowed, got ok=%v err=%v", ok, err)
	}
	if ok, err := g.Authorize(core.MustPath("/a"), guard.CapRecursive); ok || err == nil {
		t.Fatalf("expected recursive denied with error, got ok=%v err=%v", ok, err)
	}
}

type scriptedPrompter struct {
	decisions []guard.Decision
	i         int
}

func (p *scriptedPrompter) Prompt(core.Path, guard.Capability) (guard.Decision, error) {
	d := p.decisions[p.i]
	p.i++
	return d, nil
}

func TestInteractiveGuard_AllowAllRemembered(t *testing.T) {
	g := &guard.InteractiveGuard{Prompter: &scriptedPrompter{decisions: []guard.Decision{guard.DecisionAllowAll}}}

	ok, err := g.Authorize(core.MustPath("/a"), guard.CapOverwrite)
	if err != nil || !ok {
		t.Fatalf("first prompt: ok=%v err=%v", ok, err)
	}
	ok, err = g.Authorize(core.MustPath("/b"), guard.CapOverwrite)
	if err != nil || !ok {
		t.Fatalf("second crossing should reuse allow-all without prompting: ok=%v err=%v", ok, err)
	}
}

func TestInteractiveGuard_Cancel(t *testing.T) {
	g := &guard.InteractiveGuard{Prompter: &scriptedPrompter{decisions: []guard.Decision{guard.DecisionCancel}}}
	ok, err := g.Authorize(core.MustPath("/a"), guard.CapMerge)
	if ok || err == nil {
		t.Fatalf("expected cancel to error out, got ok=%v err=%v", ok, err)
	}
}
