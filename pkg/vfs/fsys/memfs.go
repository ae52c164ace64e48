package fsys

import (
	"sort"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/entry"
)

// MemFs is an in-memory WriteFs used by tests in place of the real host
// filesystem, grounded on the teacher's fstest.MapFS-backed TestFileSystem.
type MemFs struct {
	nodes    map[core.Path]core.Kind
	children map[core.Path]map[core.Path]struct{}
}

// NewMemFs creates an empty MemFs with just the root directory.
func NewMemFs() *MemFs {
	m := &MemFs{
		nodes:    map[core.Path]core.Kind{core.Root: core.Directory},
		children: map[core.Path]map[core.Path]struct{}{},
	}
	return m
}

func (m *MemFs) link(p core.Path) {
	parent, ok := p.Parent()
	if !ok {
		return
	}
	set, ok := m.children[parent]
	if !ok {
		set = make(map[core.Path]struct{})
		m.children[parent] = set
	}
	set[p] = struct{}{}
}

func (m *MemFs) unlink(p core.Path) {
	if parent, ok := p.Parent(); ok {
		delete(m.children[parent], p)
	}
}

// Mkdir seeds a directory (and implicitly its ancestors) for test setup.
func (m *MemFs) Mkdir(p core.Path) {
	for _, anc := range append(p.Ancestors(), p) {
		if _, ok := m.nodes[anc]; !ok {
			m.nodes[anc] = core.Directory
			m.link(anc)
		}
	}
}

// Touch seeds a file (and implicitly its ancestor directories).
func (m *MemFs) Touch(p core.Path) {
	if parent, ok := p.Parent(); ok {
		m.Mkdir(parent)
	}
	m.nodes[p] = core.File
	m.link(p)
}

func (m *MemFs) ReadDir(p core.Path) ([]entry.Entry, error) {
	kind, ok := m.nodes[p]
	if !ok {
		return nil, &core.QueryError{Kind: core.ErrReadTargetDoesNotExist, Path: string(p)}
	}
	if kind != core.Directory {
		return nil, &core.QueryError{Kind: core.ErrQueryIsNotADirectory, Path: string(p)}
	}
	set := m.children[p]
	out := make([]entry.Entry, 0, len(set))
	for childPath := range set {
		out = append(out, entry.New(childPath, m.nodes[childPath], true, entry.OriginHost, nil))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path() < out[j].Path() })
	return out, nil
}

func (m *MemFs) Status(p core.Path) (entry.Entry, error) {
	kind, ok := m.nodes[p]
	if !ok {
		return entry.New(p, core.Unknown, false, entry.OriginHost, nil), nil
	}
	return entry.New(p, kind, true, entry.OriginHost, nil), nil
}

func (m *MemFs) IsDirectoryEmpty(p core.Path) (bool, error) {
	ents, err := m.ReadDir(p)
	if err != nil {
		return false, err
	}
	return len(ents) == 0, nil
}

func (m *MemFs) CreateEmptyDirectory(p core.Path) error {
	if _, ok := m.nodes[p]; ok {
		return &core.InfrastructureError{Op: "mkdir", Path: string(p), Cause: errAlreadyExists}
	}
	m.nodes[p] = core.Directory
	m.link(p)
	return nil
}

func (m *MemFs) CreateEmptyFile(p core.Path) error {
	if _, ok := m.nodes[p]; ok {
		return &core.InfrastructureError{Op: "create", Path: string(p), Cause: errAlreadyExists}
	}
	m.nodes[p] = core.File
	m.link(p)
	return nil
}

func (m *MemFs) BindDirectoryToDirectory(src, dst core.Path) error {
	return m.CreateEmptyDirectory(dst)
}

func (m *MemFs) CopyFileToFile(src, dst core.Path) error {
	if _, ok := m.nodes[src]; !ok {
		return &core.InfrastructureError{Op: "copy", Path: string(src), Cause: errNotExist}
	}
	m.nodes[dst] = core.File
	m.link(dst)
	return nil
}

func (m *MemFs) MoveFileToFile(src, dst core.Path) error {
	if err := m.CopyFileToFile(src, dst); err != nil {
		return err
	}
	return m.RemoveFile(src)
}

func (m *MemFs) RemoveFile(p core.Path) error {
	if _, ok := m.nodes[p]; !ok {
		return &core.InfrastructureError{Op: "remove", Path: string(p), Cause: errNotExist}
	}
	delete(m.nodes, p)
	m.unlink(p)
	return nil
}

func (m *MemFs) RemoveEmptyDirectory(p core.Path) error { return m.RemoveFile(p) }

func (m *MemFs) RemoveMaintainedEmptyDirectory(p core.Path) error { return m.RemoveFile(p) }

var errAlreadyExists = &simpleErr{"already exists"}
var errNotExist = &simpleErr{"does not exist"}

type simpleErr struct{ msg string }

func (e *simpleErr) Error() string { return e.msg }
