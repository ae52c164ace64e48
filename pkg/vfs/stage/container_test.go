package stage_test

import (
	"testing"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/fsys"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/guard"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/ops"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/stage"
)

func TestContainer_StageThenCommit(t *testing.T) {
	host := fsys.NewMemFs()
	c := stage.New(host, guard.BlindGuard{}, nil)

	if err := c.Stage(ops.CreateRequest{Path: core.MustPath("/a/b"), Kind: core.File}); err != nil {
		t.Fatalf("stage: %v", err)
	}
	ent, err := c.Status(core.MustPath("/a/b"))
	if err != nil || !ent.Exists() {
		t.Fatalf("expected staged path visible before commit, err=%v ent=%+v", err, ent)
	}
	if _, err := host.Status(core.MustPath("/a/b")); err != nil {
		t.Fatalf("host status should never error: %v", err)
	}
	if hostEnt, _ := host.Status(core.MustPath("/a/b")); hostEnt.Exists() {
		t.Fatal("host should not see the change before commit")
	}

	if err := c.Commit(host); err != nil {
		t.Fatalf("commit: %v", err)
	}
	hostEnt, err := host.Status(core.MustPath("/a/b"))
	if err != nil || !hostEnt.Exists() {
		t.Fatalf("expected host to have the committed path, err=%v ent=%+v", err, hostEnt)
	}
	if len(c.Pending()) != 0 {
		t.Fatal("pending plan should be empty after commit")
	}
}

func TestContainer_GuardDeniesOverwrite(t *testing.T) {
	host := fsys.NewMemFs()
	host.Touch(core.MustPath("/f"))
	c := stage.New(host, guard.SkipGuard{}, nil)

	if err := c.Stage(ops.CreateRequest{Path: core.MustPath("/f"), Kind: core.File}); err != nil {
		t.Fatalf("stage should not error under SkipGuard: %v", err)
	}
	if len(c.Pending()) != 0 {
		t.Fatal("expected the overwrite to be silently skipped, leaving nothing pending")
	}
}

func TestContainer_ZealedGuardErrorsAndRollsBack(t *testing.T) {
	host := fsys.NewMemFs()
	host.Touch(core.MustPath("/f"))
	c := stage.New(host, guard.ZealedGuard{}, nil)

	err := c.Stage(ops.CreateRequest{Path: core.MustPath("/f"), Kind: core.File})
	if err == nil {
		t.Fatal("expected ZealedGuard to error on overwrite")
	}
	ent, statusErr := c.Status(core.MustPath("/f"))
	if statusErr != nil || !ent.Exists() || ent.IsVirtual() {
		t.Fatalf("expected /f to remain the plain host entry after rollback, err=%v ent=%+v", statusErr, ent)
	}
}

func TestContainer_Reset(t *testing.T) {
	host := fsys.NewMemFs()
	c := stage.New(host, guard.BlindGuard{}, nil)

	if err := c.Stage(ops.CreateRequest{Path: core.MustPath("/a"), Kind: core.Directory}); err != nil {
		t.Fatalf("stage: %v", err)
	}
	c.Reset()
	if len(c.Pending()) != 0 {
		t.Fatal("expected no pending operations after reset")
	}
	ent, err := c.Status(core.MustPath("/a"))
	if err != nil || ent.Exists() {
		t.Fatalf("expected /a to no longer exist after reset, err=%v ent=%+v", err, ent)
	}
}

func TestContainer_SaveLoadResume(t *testing.T) {
	host := fsys.NewMemFs()
	c := stage.New(host, guard.BlindGuard{}, nil)

	if err := c.Stage(ops.CreateRequest{Path: core.MustPath("/a/b"), Kind: core.File}); err != nil {
		t.Fatalf("stage: %v", err)
	}
	data, err := c.Save("resume test")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	resumed := stage.New(host, guard.BlindGuard{}, nil)
	if err := resumed.Load(host, data); err != nil {
		t.Fatalf("load: %v", err)
	}
	ent, err := resumed.Status(core.MustPath("/a/b"))
	if err != nil || !ent.Exists() {
		t.Fatalf("expected resumed session to see staged path, err=%v ent=%+v", err, ent)
	}
	if len(resumed.Pending()) != 2 {
		t.Fatalf("expected 2 pending micro-operations (mkdir /a, create /a/b) after resume, got %d", len(resumed.Pending()))
	}

	if err := resumed.Commit(host); err != nil {
		t.Fatalf("commit after resume: %v", err)
	}
	hostEnt, err := host.Status(core.MustPath("/a/b"))
	if err != nil || !hostEnt.Exists() {
		t.Fatalf("expected host to have committed path after resume, err=%v ent=%+v", err, hostEnt)
	}
}

// TestContainer_S6_GuardRefusal covers spec scenario S6: /dst is a plain
// host file, and staging cp /src /dst under ZealedGuard must fail with
// OverwriteNotAllowed(/dst) before any mutation, leaving the session with
// nothing pending and the representation untouched.
func TestContainer_S6_GuardRefusal(t *testing.T) {
	host := fsys.NewMemFs()
	host.Touch(core.MustPath("/src"))
	host.Touch(core.MustPath("/dst"))
	c := stage.New(host, guard.ZealedGuard{}, nil)

	err := c.Stage(ops.CopyRequest{Src: core.MustPath("/src"), Dst: core.MustPath("/dst")})
	if err == nil {
		t.Fatal("expected ZealedGuard to refuse the overwrite")
	}
	domainErr, ok := err.(*core.DomainError)
	if !ok || domainErr.Kind != core.ErrOverwriteNotAllowed {
		t.Fatalf("expected OverwriteNotAllowed domain error, got %v", err)
	}
	if len(c.Pending()) != 0 {
		t.Fatal("expected nothing pending after a refused stage")
	}
	ent, statusErr := c.Status(core.MustPath("/dst"))
	if statusErr != nil || !ent.Exists() || ent.IsVirtual() {
		t.Fatalf("expected /dst to remain the plain host entry, err=%v ent=%+v", statusErr, ent)
	}
}

func TestContainer_DirectoryCopyExpandsForCommit(t *testing.T) {
	host := fsys.NewMemFs()
	host.Mkdir(core.MustPath("/src"))
	host.Touch(core.MustPath("/src/a"))
	c := stage.New(host, guard.BlindGuard{}, nil)

	if err := c.Stage(ops.CopyRequest{Src: core.MustPath("/src"), Dst: core.MustPath("/dst")}); err != nil {
		t.Fatalf("stage: %v", err)
	}
	if err := c.Commit(host); err != nil {
		t.Fatalf("commit: %v", err)
	}
	ents, err := host.ReadDir(core.MustPath("/dst"))
	if err != nil || len(ents) != 1 {
		t.Fatalf("expected dst to really hold 1 file on host after commit, err=%v ents=%+v", err, ents)
	}
}
