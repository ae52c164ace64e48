package ops_test

import (
	"testing"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/fsys"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/ops"
)

// stageRequest drives a Generator to exhaustion against vfs, applying each
// yielded Operation's Schedule to vfs as it goes (the same sequencing the
// stage.Container performs), and returns every Operation produced.
func stageRequest(t *testing.T, vfs *fsys.VirtFs, req ops.Request) ([]ops.Operation, error) {
	t.Helper()
	gen := ops.NewGenerator(req)
	var produced []ops.Operation
	for {
		op, ok, err := gen.Next(vfs)
		if err != nil {
			return produced, err
		}
		if !ok {
			return produced, nil
		}
		produced = append(produced, op)
		for _, micro := range ops.Schedule(op) {
			if err := micro.Apply(vfs); err != nil {
				t.Fatalf("applying %v to vfs: %v", micro.Kind, err)
			}
		}
	}
}

func TestCreateGenerator_ImplicitAncestors(t *testing.T) {
	host := fsys.NewMemFs()
	vfs := fsys.NewVirtFs(host)

	produced, err := stageRequest(t, vfs, ops.CreateRequest{Path: core.MustPath("/a/b/c"), Kind: core.File})
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	if len(produced) != 3 {
		t.Fatalf("expected 3 operations (2 ancestors + primary), got %d", len(produced))
	}
	if produced[len(produced)-1].Target() != core.MustPath("/a/b/c") {
		t.Fatalf("last operation must target the request path, got %v", produced[len(produced)-1].Target())
	}

	ent, err := vfs.Status(core.MustPath("/a/b/c"))
	if err != nil || !ent.Exists() {
		t.Fatalf("expected /a/b/c to exist, err=%v ent=%+v", err, ent)
	}
}

func TestCreateGenerator_OverwriteNeedsCapability(t *testing.T) {
	host := fsys.NewMemFs()
	host.Touch(core.MustPath("/f"))
	vfs := fsys.NewVirtFs(host)

	produced, err := stageRequest(t, vfs, ops.CreateRequest{Path: core.MustPath("/f"), Kind: core.File})
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	op := produced[len(produced)-1]
	cap, needsCap := op.RequiredCapability()
	if !needsCap {
		t.Fatal("expected overwrite capability to be required")
	}
	if cap.String() != "overwrite" {
		t.Fatalf("expected overwrite capability, got %v", cap)
	}
}

func TestCopyGenerator_FreshDirectory_LazyBind(t *testing.T) {
	host := fsys.NewMemFs()
	host.Mkdir(core.MustPath("/src"))
	host.Touch(core.MustPath("/src/a"))
	vfs := fsys.NewVirtFs(host)

	produced, err := stageRequest(t, vfs, ops.CopyRequest{Src: core.MustPath("/src"), Dst: core.MustPath("/dst")})
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	op := produced[len(produced)-1]
	if op.CopyStrategy != ops.DirectoryCopy {
		t.Fatalf("expected DirectoryCopy, got %v", op.CopyStrategy)
	}

	ents, err := vfs.ReadDir(core.MustPath("/dst"))
	if err != nil || len(ents) != 1 {
		t.Fatalf("expected dst to lazily show 1 child, err=%v ents=%+v", err, ents)
	}
}

func TestCopyGenerator_CopyIntoItself(t *testing.T) {
	host := fsys.NewMemFs()
	host.Mkdir(core.MustPath("/a"))
	vfs := fsys.NewVirtFs(host)

	_, err := stageRequest(t, vfs, ops.CopyRequest{Src: core.MustPath("/a"), Dst: core.MustPath("/a/b")})
	if err == nil {
		t.Fatal("expected copy-into-itself to fail")
	}
}

func TestCopyGenerator_MergeExistingDirectory(t *testing.T) {
	host := fsys.NewMemFs()
	host.Mkdir(core.MustPath("/src"))
	host.Touch(core.MustPath("/src/a"))
	host.Mkdir(core.MustPath("/dst"))
	host.Touch(core.MustPath("/dst/existing"))
	vfs := fsys.NewVirtFs(host)

	produced, err := stageRequest(t, vfs, ops.CopyRequest{Src: core.MustPath("/src"), Dst: core.MustPath("/dst")})
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	op := produced[len(produced)-1]
	if op.CopyStrategy != ops.DirectoryCopyMerge {
		t.Fatalf("expected DirectoryCopyMerge, got %v", op.CopyStrategy)
	}
	if _, needsCap := op.RequiredCapability(); !needsCap {
		t.Fatal("expected merge capability to be required")
	}

	ents, err := vfs.ReadDir(core.MustPath("/dst"))
	if err != nil || len(ents) != 2 {
		t.Fatalf("expected merged dst to show 2 entries, err=%v ents=%+v", err, ents)
	}
}

func TestRemoveGenerator_RecursiveNeedsCapability(t *testing.T) {
	host := fsys.NewMemFs()
	host.Mkdir(core.MustPath("/d"))
	host.Touch(core.MustPath("/d/a"))
	host.Touch(core.MustPath("/d/b"))
	vfs := fsys.NewVirtFs(host)

	produced, err := stageRequest(t, vfs, ops.RemoveRequest{Path: core.MustPath("/d")})
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	op := produced[0]
	if op.RemoveStrategy != ops.RecursiveDirectoryRemoval {
		t.Fatalf("expected RecursiveDirectoryRemoval, got %v", op.RemoveStrategy)
	}
	if cap, needsCap := op.RequiredCapability(); !needsCap || cap.String() != "recursive" {
		t.Fatalf("expected recursive capability to be required, got %v (needed=%v)", cap, needsCap)
	}
	micro := ops.Schedule(op)
	if len(micro) != 3 {
		t.Fatalf("expected 2 descendant removals + 1 self removal, got %d", len(micro))
	}
}

func TestRemoveGenerator_EmptyDirectoryNoCapability(t *testing.T) {
	host := fsys.NewMemFs()
	host.Mkdir(core.MustPath("/d"))
	vfs := fsys.NewVirtFs(host)

	produced, err := stageRequest(t, vfs, ops.RemoveRequest{Path: core.MustPath("/d")})
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	if _, needsCap := produced[0].RequiredCapability(); needsCap {
		t.Fatal("empty directory removal should not require a capability")
	}
}
