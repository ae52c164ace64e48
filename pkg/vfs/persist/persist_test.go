package persist_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/delta"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/ops"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/persist"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	add := delta.NewVirtualDelta()
	if err := add.Attach(core.MustPath("/a/b"), nil, core.File, 1); err != nil {
		t.Fatalf("attach: %v", err)
	}
	sub := delta.NewVirtualDelta()

	checksum := ops.ComputeChecksum([]byte("hello"))
	pending := []ops.MicroOperation{
		{Kind: ops.MkCreateEmptyDirectory, Path: core.MustPath("/a")},
		{Kind: ops.MkCopyFileToFile, Src: core.MustPath("/x"), Dst: core.MustPath("/a/b"), Checksum: &checksum},
	}

	session := persist.FromRepresentation(add, sub, pending, "round trip test")
	data, err := persist.Save(session)
	require.NoError(t, err)

	loaded, loadedPending, err := persist.Load(data)
	require.NoError(t, err)

	_, ok := loaded.Add.Get(core.MustPath("/a/b"))
	require.True(t, ok, "expected /a/b restored in add delta")
	require.Equal(t, pending, loadedPending, "pending plan should round-trip structurally unchanged")
}

func TestLoad_RejectsFileAncestor(t *testing.T) {
	data := []byte(`{
		"metadata": {"version": "1.0"},
		"add": [
			{"identity": "/a", "source": null, "kind": "file", "seq": 1},
			{"identity": "/a/b", "source": null, "kind": "file", "seq": 2}
		],
		"sub": [],
		"pending": []
	}`)

	if _, _, err := persist.Load(data); err == nil {
		t.Fatal("expected error for a document where /a/b's parent /a is a file")
	}
}

func TestLoad_RejectsUnknownMicroKind(t *testing.T) {
	data := []byte(`{
		"metadata": {"version": "1.0"},
		"add": [],
		"sub": [],
		"pending": [{"kind": "do-something-unknown", "path": "/a"}]
	}`)

	if _, _, err := persist.Load(data); err == nil {
		t.Fatal("expected error for an unrecognized micro-operation kind")
	}
}
