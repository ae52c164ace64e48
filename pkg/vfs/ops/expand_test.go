package ops_test

import (
	"testing"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/fsys"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/ops"
)

func TestExpandForCommit_DirectoryCopy(t *testing.T) {
	host := fsys.NewMemFs()
	host.Mkdir(core.MustPath("/src"))
	host.Touch(core.MustPath("/src/a"))
	host.Mkdir(core.MustPath("/src/sub"))
	host.Touch(core.MustPath("/src/sub/b"))
	vfs := fsys.NewVirtFs(host)

	produced, err := stageRequest(t, vfs, ops.CopyRequest{Src: core.MustPath("/src"), Dst: core.MustPath("/dst")})
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	op := produced[len(produced)-1]

	expanded, replaced, err := ops.ExpandForCommit(op, host)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if !replaced {
		t.Fatal("expected DirectoryCopy to be replaced for commit")
	}

	kinds := map[ops.MicroKind]int{}
	for _, m := range expanded {
		kinds[m.Kind]++
	}
	if kinds[ops.MkCreateEmptyDirectory] != 2 {
		t.Fatalf("expected 2 directory creations (dst + sub), got %d", kinds[ops.MkCreateEmptyDirectory])
	}
	if kinds[ops.MkCopyFileToFile] != 2 {
		t.Fatalf("expected 2 file copies, got %d", kinds[ops.MkCopyFileToFile])
	}
}

func TestExpandForCommit_NonDirectoryStrategyUnaffected(t *testing.T) {
	host := fsys.NewMemFs()
	host.Touch(core.MustPath("/a"))
	vfs := fsys.NewVirtFs(host)

	produced, err := stageRequest(t, vfs, ops.CopyRequest{Src: core.MustPath("/a"), Dst: core.MustPath("/b")})
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	_, replaced, err := ops.ExpandForCommit(produced[len(produced)-1], host)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if replaced {
		t.Fatal("plain file copy should not need commit expansion")
	}
}
