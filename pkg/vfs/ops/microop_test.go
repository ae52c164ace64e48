package ops_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/fsys"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/ops"
)

func TestMicroOperation_ChecksumMismatchAborts(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "src"), []byte("original"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	rfs := fsys.NewRealFs(root)

	stale := ops.ComputeChecksum([]byte("not what's there anymore"))
	micro := ops.MicroOperation{Kind: ops.MkCopyFileToFile, Src: core.MustPath("/src"), Dst: core.MustPath("/dst"), Checksum: &stale}

	err := micro.Apply(rfs)
	if err == nil {
		t.Fatal("expected checksum mismatch to abort the copy")
	}
	if !errors.Is(err, ops.ErrChecksumMismatch) {
		t.Fatalf("expected ErrChecksumMismatch, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(root, "dst")); !os.IsNotExist(statErr) {
		t.Fatal("dst should not have been created after a checksum mismatch")
	}
}

func TestMicroOperation_ChecksumMatchProceeds(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "src"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	rfs := fsys.NewRealFs(root)

	rec := ops.ComputeChecksum([]byte("hello"))
	micro := ops.MicroOperation{Kind: ops.MkCopyFileToFile, Src: core.MustPath("/src"), Dst: core.MustPath("/dst"), Checksum: &rec}

	if err := micro.Apply(rfs); err != nil {
		t.Fatalf("expected checksum match to proceed, got %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "dst"))
	if err != nil || string(data) != "hello" {
		t.Fatalf("expected copied content, err=%v data=%q", err, data)
	}
}
