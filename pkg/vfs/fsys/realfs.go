package fsys

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/entry"
)

// RealFs is a WriteFs backed directly by the host filesystem, rooted at a
// base directory. It caches nothing and assumes no concurrent external
// access during a commit.
type RealFs struct {
	root string
}

// NewRealFs creates a RealFs rooted at root.
func NewRealFs(root string) *RealFs {
	return &RealFs{root: root}
}

func (r *RealFs) native(p core.Path) string {
	return filepath.Join(r.root, filepath.FromSlash(string(p)))
}

// ReadDir reads the host directory at p.
func (r *RealFs) ReadDir(p core.Path) ([]entry.Entry, error) {
	ents, err := os.ReadDir(r.native(p))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &core.QueryError{Kind: core.ErrReadTargetDoesNotExist, Path: string(p), Cause: err}
		}
		return nil, &core.QueryError{Kind: core.ErrQueryIsNotADirectory, Path: string(p), Cause: err}
	}
	out := make([]entry.Entry, 0, len(ents))
	for _, de := range ents {
		kind := core.File
		if de.IsDir() {
			kind = core.Directory
		}
		out = append(out, entry.New(p.Join(de.Name()), kind, true, entry.OriginHost, nil))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path() < out[j].Path() })
	return out, nil
}

// Status returns a host-path Entry. It never fails for a syntactically
// valid path: a missing path yields Exists()==false.
func (r *RealFs) Status(p core.Path) (entry.Entry, error) {
	info, err := os.Stat(r.native(p))
	if err != nil {
		return entry.New(p, core.Unknown, false, entry.OriginHost, nil), nil
	}
	kind := core.File
	if info.IsDir() {
		kind = core.Directory
	}
	return entry.New(p, kind, true, entry.OriginHost, nil), nil
}

// IsDirectoryEmpty reports whether p is an empty directory.
func (r *RealFs) IsDirectoryEmpty(p core.Path) (bool, error) {
	f, err := os.Open(r.native(p))
	if err != nil {
		if os.IsNotExist(err) {
			return false, &core.QueryError{Kind: core.ErrReadTargetDoesNotExist, Path: string(p), Cause: err}
		}
		return false, &core.QueryError{Kind: core.ErrQueryIsNotADirectory, Path: string(p), Cause: err}
	}
	defer f.Close()
	names, err := f.Readdirnames(1)
	if err != nil && err != io.EOF {
		return false, &core.QueryError{Kind: core.ErrQueryIsNotADirectory, Path: string(p), Cause: err}
	}
	return len(names) == 0, nil
}

// CreateEmptyDirectory makes an empty directory at p.
func (r *RealFs) CreateEmptyDirectory(p core.Path) error {
	if err := os.Mkdir(r.native(p), 0o755); err != nil {
		return &core.InfrastructureError{Op: "mkdir", Path: string(p), Cause: err}
	}
	return nil
}

// CreateEmptyFile creates an empty file at p.
func (r *RealFs) CreateEmptyFile(p core.Path) error {
	f, err := os.OpenFile(r.native(p), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return &core.InfrastructureError{Op: "create", Path: string(p), Cause: err}
	}
	return f.Close()
}

// BindDirectoryToDirectory creates dst as an empty directory; it does not
// copy src's contents (commit expansion schedules those as separate
// per-file micro-operations).
func (r *RealFs) BindDirectoryToDirectory(src, dst core.Path) error {
	if err := os.Mkdir(r.native(dst), 0o755); err != nil {
		return &core.InfrastructureError{Op: "mkdir", Path: string(dst), Cause: err}
	}
	return nil
}

// CopyFileToFile copies the bytes of src to dst.
func (r *RealFs) CopyFileToFile(src, dst core.Path) error {
	in, err := os.Open(r.native(src))
	if err != nil {
		return &core.InfrastructureError{Op: "copy-open", Path: string(src), Cause: err}
	}
	defer in.Close()
	out, err := os.OpenFile(r.native(dst), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return &core.InfrastructureError{Op: "copy-create", Path: string(dst), Cause: err}
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return &core.InfrastructureError{Op: "copy", Path: string(dst), Cause: err}
	}
	return nil
}

// MoveFileToFile renames src to dst, falling back to copy+remove across
// devices the way os.Rename's callers conventionally do.
func (r *RealFs) MoveFileToFile(src, dst core.Path) error {
	if err := os.Rename(r.native(src), r.native(dst)); err != nil {
		if linkErr, ok := err.(*os.LinkError); ok && isCrossDevice(linkErr) {
			if copyErr := r.CopyFileToFile(src, dst); copyErr != nil {
				return copyErr
			}
			return r.RemoveFile(src)
		}
		return &core.InfrastructureError{Op: "rename", Path: string(dst), Cause: err}
	}
	return nil
}

func isCrossDevice(err *os.LinkError) bool {
	return err.Err != nil && err.Err.Error() == "invalid cross-device link"
}

// RemoveFile removes a single file.
func (r *RealFs) RemoveFile(p core.Path) error {
	if err := os.Remove(r.native(p)); err != nil {
		return &core.InfrastructureError{Op: "remove", Path: string(p), Cause: err}
	}
	return nil
}

// RemoveEmptyDirectory removes a directory known to be empty.
func (r *RealFs) RemoveEmptyDirectory(p core.Path) error {
	if err := os.Remove(r.native(p)); err != nil {
		return &core.InfrastructureError{Op: "rmdir", Path: string(p), Cause: err}
	}
	return nil
}

// RemoveMaintainedEmptyDirectory is identical to RemoveEmptyDirectory on
// the host: the "maintained" distinction only matters to the in-memory
// representation, where it preserves Move's "after" phase bookkeeping.
func (r *RealFs) RemoveMaintainedEmptyDirectory(p core.Path) error {
	return r.RemoveEmptyDirectory(p)
}

// ReadFile reads p's full content, used to verify a MicroOperation's
// checksum immediately before a copy or move is replayed at commit.
func (r *RealFs) ReadFile(p core.Path) ([]byte, error) {
	data, err := os.ReadFile(r.native(p))
	if err != nil {
		return nil, &core.InfrastructureError{Op: "checksum-read", Path: string(p), Cause: err}
	}
	return data, nil
}
