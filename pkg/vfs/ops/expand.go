package ops

import (
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/fsys"
)

// ExpandForCommit replaces a lazily-bound directory operation's staging
// Scheduling with the concrete per-file plan a real host replay needs.
// DirectoryCopy and DirectoryMove stage a single BindDirectoryToDirectory,
// sufficient for the overlay's lazy reads but not for RealFs, which has no
// notion of a bound directory: committing it requires walking the source
// subtree and emitting a directory creation and file copy/move per entry.
// It returns (nil, false, nil) for every other strategy, signaling the
// caller to keep using Schedule's output unchanged.
func ExpandForCommit(op Operation, rfs fsys.ReadFs) ([]MicroOperation, bool, error) {
	switch {
	case op.Kind == OpCopy && op.CopyStrategy == DirectoryCopy:
		req := op.Request.(CopyRequest)
		out, err := walkDirectoryCopy(rfs, op.ResolvedSource, req.Dst)
		return out, true, err
	case op.Kind == OpMove && op.MoveStrategy == DirectoryMove:
		req := op.Request.(MoveRequest)
		out, err := walkDirectoryMove(rfs, op.ResolvedSource, req.Dst, req.Src)
		return out, true, err
	default:
		return nil, false, nil
	}
}

func walkDirectoryCopy(rfs fsys.ReadFs, src, dst core.Path) ([]MicroOperation, error) {
	out := []MicroOperation{{Kind: MkCreateEmptyDirectory, Path: dst}}
	var walk func(s, d core.Path) error
	walk = func(s, d core.Path) error {
		children, err := rfs.ReadDir(s)
		if err != nil {
			return err
		}
		for _, c := range children {
			cd := d.Join(c.Name())
			if c.IsDir() {
				out = append(out, MicroOperation{Kind: MkCreateEmptyDirectory, Path: cd})
				if err := walk(c.Path(), cd); err != nil {
					return err
				}
			} else {
				out = append(out, MicroOperation{Kind: MkCopyFileToFile, Src: c.Path(), Dst: cd})
			}
		}
		return nil
	}
	if err := walk(src, dst); err != nil {
		return nil, err
	}
	return out, nil
}

func walkDirectoryMove(rfs fsys.ReadFs, src, dst, srcRoot core.Path) ([]MicroOperation, error) {
	out := []MicroOperation{{Kind: MkCreateEmptyDirectory, Path: dst}}
	var dirsPostOrder []core.Path
	var walk func(s, d core.Path) error
	walk = func(s, d core.Path) error {
		children, err := rfs.ReadDir(s)
		if err != nil {
			return err
		}
		for _, c := range children {
			cd := d.Join(c.Name())
			if c.IsDir() {
				out = append(out, MicroOperation{Kind: MkCreateEmptyDirectory, Path: cd})
				if err := walk(c.Path(), cd); err != nil {
					return err
				}
				dirsPostOrder = append(dirsPostOrder, c.Path())
			} else {
				out = append(out, MicroOperation{Kind: MkMoveFileToFile, Src: c.Path(), Dst: cd})
			}
		}
		return nil
	}
	if err := walk(src, dst); err != nil {
		return nil, err
	}
	for _, d := range dirsPostOrder {
		out = append(out, MicroOperation{Kind: MkRemoveEmptyDirectory, Path: d})
	}
	out = append(out, MicroOperation{Kind: MkRemoveEmptyDirectory, Path: srcRoot})
	return out, nil
}
