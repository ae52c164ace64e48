package ops

import (
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/fsys"
)

// removeGenerator never emits ancestor creations: removal cannot need a
// parent directory brought into existence.
type removeGenerator struct {
	req  RemoveRequest
	done bool
}

func (g *removeGenerator) Next(rfs fsys.ReadFs) (Operation, bool, error) {
	if g.done {
		return Operation{}, false, nil
	}
	g.done = true
	return buildRemoveOperation(rfs, g.req)
}

func buildRemoveOperation(rfs fsys.ReadFs, req RemoveRequest) (Operation, bool, error) {
	ent, err := rfs.Status(req.Path)
	if err != nil {
		return Operation{}, false, err
	}
	if !ent.Exists() {
		return Operation{}, false, &core.DomainError{Kind: core.ErrDomainDoesNotExist, Target: string(req.Path)}
	}

	op := Operation{Kind: OpRemove, Request: req}

	if ent.IsFile() {
		op.RemoveStrategy = FileRemoval
		return op, true, nil
	}

	empty, err := rfs.IsDirectoryEmpty(req.Path)
	if err != nil {
		return Operation{}, false, err
	}
	if empty {
		op.RemoveStrategy = EmptyDirectoryRemoval
		return op, true, nil
	}

	op.RemoveStrategy = RecursiveDirectoryRemoval
	steps, err := planRecursiveRemoval(rfs, req.Path)
	if err != nil {
		return Operation{}, false, err
	}
	op.Descendants = steps
	return op, true, nil
}

// planRecursiveRemoval walks path's subtree and returns removal steps in
// post-order (children before the directories that contain them), which
// is also the safe order to apply them in.
func planRecursiveRemoval(rfs fsys.ReadFs, root core.Path) ([]DescendantStep, error) {
	var steps []DescendantStep
	var walk func(dir core.Path, relPrefix string) error
	walk = func(dir core.Path, relPrefix string) error {
		children, err := rfs.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, child := range children {
			rel := child.Name()
			if relPrefix != "" {
				rel = relPrefix + "/" + rel
			}
			if child.IsDir() {
				if err := walk(child.Path(), rel); err != nil {
					return err
				}
				steps = append(steps, DescendantStep{RelPath: rel, Kind: MkRemoveEmptyDirectory})
			} else {
				steps = append(steps, DescendantStep{RelPath: rel, Kind: MkRemoveFile})
			}
		}
		return nil
	}
	if err := walk(root, ""); err != nil {
		return nil, err
	}
	return steps, nil
}
