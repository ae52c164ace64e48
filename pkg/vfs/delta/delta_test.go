package delta_test

import (
	"testing"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/delta"
)

func TestAttach_ImplicitAncestors(t *testing.T) {
	d := delta.NewVirtualDelta()
	if err := d.Attach(core.MustPath("/a/b/c"), nil, core.File, 1); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if _, ok := d.Get(core.MustPath("/a")); !ok {
		t.Fatal("expected implicit ancestor /a")
	}
	if _, ok := d.Get(core.MustPath("/a/b")); !ok {
		t.Fatal("expected implicit ancestor /a/b")
	}
	n, ok := d.Get(core.MustPath("/a/b/c"))
	if !ok || n.Kind != core.File {
		t.Fatalf("expected /a/b/c as file, got %+v", n)
	}
}

func TestAttach_VirtualParentIsAFile(t *testing.T) {
	d := delta.NewVirtualDelta()
	if err := d.Attach(core.MustPath("/a"), nil, core.File, 1); err != nil {
		t.Fatalf("attach: %v", err)
	}
	err := d.Attach(core.MustPath("/a/b"), nil, core.File, 2)
	if err == nil {
		t.Fatal("expected error")
	}
	repErr, ok := err.(*core.RepresentationError)
	if !ok || repErr.Kind != core.ErrVirtualParentIsAFile {
		t.Fatalf("expected VirtualParentIsAFile, got %v", err)
	}
}

func TestAttach_AlreadyExistsConflictingKind(t *testing.T) {
	d := delta.NewVirtualDelta()
	if err := d.Attach(core.MustPath("/a"), nil, core.File, 1); err != nil {
		t.Fatalf("attach: %v", err)
	}
	err := d.Attach(core.MustPath("/a"), nil, core.Directory, 2)
	repErr, ok := err.(*core.RepresentationError)
	if !ok || repErr.Kind != core.ErrAlreadyExists {
		t.Fatalf("expected AlreadyExists, got %v", err)
	}
}

func TestDetach_RemovesDescendants(t *testing.T) {
	d := delta.NewVirtualDelta()
	_ = d.Attach(core.MustPath("/a/b/c"), nil, core.File, 1)
	if err := d.Detach(core.MustPath("/a")); err != nil {
		t.Fatalf("detach: %v", err)
	}
	for _, p := range []string{"/a", "/a/b", "/a/b/c"} {
		if _, ok := d.Get(core.MustPath(p)); ok {
			t.Fatalf("expected %s removed", p)
		}
	}
}

func TestDetach_DoesNotExist(t *testing.T) {
	d := delta.NewVirtualDelta()
	err := d.Detach(core.MustPath("/missing"))
	repErr, ok := err.(*core.RepresentationError)
	if !ok || repErr.Kind != core.ErrDoesNotExist {
		t.Fatalf("expected DoesNotExist, got %v", err)
	}
}

func TestChildren_SortedAndScoped(t *testing.T) {
	d := delta.NewVirtualDelta()
	_ = d.Attach(core.MustPath("/a/z"), nil, core.File, 1)
	_ = d.Attach(core.MustPath("/a/b"), nil, core.File, 2)
	children := d.Children(core.MustPath("/a"))
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children))
	}
	if children[0].Identity != core.MustPath("/a/b") || children[1].Identity != core.MustPath("/a/z") {
		t.Fatalf("expected sorted order, got %v, %v", children[0].Identity, children[1].Identity)
	}
}

func TestSub_Idempotent(t *testing.T) {
	a := delta.NewVirtualDelta()
	_ = a.Attach(core.MustPath("/x/y"), nil, core.File, 1)
	_ = a.Attach(core.MustPath("/z"), nil, core.File, 2)

	b := delta.NewVirtualDelta()
	_ = b.Attach(core.MustPath("/x"), nil, core.Directory, 1)

	once := a.Sub(b)
	twice := once.Sub(b)

	if _, ok := once.Get(core.MustPath("/z")); !ok {
		t.Fatal("expected /z to survive subtraction")
	}
	if _, ok := once.Get(core.MustPath("/x/y")); ok {
		t.Fatal("expected /x/y excluded: ancestor /x is in b")
	}
	if len(twice.Walk(core.Root)) != len(once.Walk(core.Root)) {
		t.Fatalf("expected idempotent subtraction, got %d vs %d", len(twice.Walk(core.Root)), len(once.Walk(core.Root)))
	}
}

func TestWalk_DepthFirst(t *testing.T) {
	d := delta.NewVirtualDelta()
	_ = d.Attach(core.MustPath("/a/b"), nil, core.File, 1)
	_ = d.Attach(core.MustPath("/a/c"), nil, core.File, 2)
	nodes := d.Walk(core.MustPath("/a"))
	if len(nodes) != 2 {
		t.Fatalf("expected 2 descendants, got %d", len(nodes))
	}
}
