package ops

import (
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/fsys"
)

type copyGenerator struct {
	req       CopyRequest
	state     genState
	ancestors []core.Path
}

func (g *copyGenerator) Next(rfs fsys.ReadFs) (Operation, bool, error) {
	switch g.state {
	case stateAncestors:
		if g.ancestors == nil {
			missing, err := missingAncestors(rfs, g.req.Dst)
			if err != nil {
				g.state = stateDone
				return Operation{}, false, err
			}
			g.ancestors = missing
			if g.ancestors == nil {
				g.ancestors = []core.Path{}
			}
		}
		if len(g.ancestors) > 0 {
			anc := g.ancestors[0]
			g.ancestors = g.ancestors[1:]
			return Operation{
				Kind:           OpCreate,
				CreateStrategy: DirectoryCreation,
				Request:        CreateRequest{Path: anc, Kind: core.Directory},
			}, true, nil
		}
		g.state = statePrimary
		fallthrough
	case statePrimary:
		g.state = stateDone
		return buildCopyOperation(rfs, g.req)
	default:
		return Operation{}, false, nil
	}
}

func buildCopyOperation(rfs fsys.ReadFs, req CopyRequest) (Operation, bool, error) {
	if req.Src == req.Dst || req.Src.IsAncestorOf(req.Dst) {
		return Operation{}, false, &core.DomainError{Kind: core.ErrCopyIntoItself, Target: string(req.Src), Other: string(req.Dst)}
	}

	srcEnt, err := rfs.Status(req.Src)
	if err != nil {
		return Operation{}, false, err
	}
	if !srcEnt.Exists() {
		return Operation{}, false, &core.DomainError{Kind: core.ErrSourceDoesNotExist, Target: string(req.Src)}
	}

	resolved, err := resolveSource(rfs, req.Src)
	if err != nil {
		return Operation{}, false, err
	}

	dstEnt, err := rfs.Status(req.Dst)
	if err != nil {
		return Operation{}, false, err
	}

	op := Operation{Kind: OpCopy, Request: req, ResolvedSource: resolved, HasSource: true}

	switch {
	case !dstEnt.Exists():
		if srcEnt.IsDir() {
			op.CopyStrategy = DirectoryCopy
		} else {
			op.CopyStrategy = FileCopy
			op.SourceChecksum = checksumIfAvailable(rfs, req.Src)
		}
	case srcEnt.IsFile() && dstEnt.IsFile():
		op.CopyStrategy = FileCopyOverwrite
		op.SourceChecksum = checksumIfAvailable(rfs, req.Src)
	case srcEnt.IsFile() && dstEnt.IsDir():
		return Operation{}, false, &core.DomainError{Kind: core.ErrOverwriteDirectoryWithFile, Target: string(req.Src), Other: string(req.Dst)}
	case srcEnt.IsDir() && dstEnt.IsFile():
		return Operation{}, false, &core.DomainError{Kind: core.ErrMergeFileWithDirectory, Target: string(req.Src), Other: string(req.Dst)}
	case srcEnt.IsDir() && dstEnt.IsDir():
		op.CopyStrategy = DirectoryCopyMerge
		steps, _, err := planMerge(rfs, req.Src, req.Dst)
		if err != nil {
			return Operation{}, false, err
		}
		op.Descendants = steps
	}

	return op, true, nil
}

// planMerge walks src's subtree pre-order and decides, for each
// descendant, whether it needs a CreateEmptyDirectory step at the
// corresponding dst path (skipped if already present) or a
// CopyFileToFile step (always emitted, overwriting in place). It also
// returns every source subdirectory's relative path, pre-order, so a move
// merge can schedule their removal once emptied.
func planMerge(rfs fsys.ReadFs, src, dst core.Path) ([]DescendantStep, []string, error) {
	var steps []DescendantStep
	var dirs []string
	var walk func(srcDir, relPrefix string) error
	walk = func(srcPath string, relPrefix string) error {
		children, err := rfs.ReadDir(core.Path(srcPath))
		if err != nil {
			return err
		}
		for _, child := range children {
			rel := child.Name()
			if relPrefix != "" {
				rel = relPrefix + "/" + rel
			}
			dstChild := joinRel(dst, rel)
			if child.IsDir() {
				dirs = append(dirs, rel)
				dstEnt, err := rfs.Status(dstChild)
				if err != nil {
					return err
				}
				if !dstEnt.Exists() {
					steps = append(steps, DescendantStep{RelPath: rel, Kind: MkCreateEmptyDirectory})
				}
				if err := walk(string(child.Path()), rel); err != nil {
					return err
				}
			} else {
				steps = append(steps, DescendantStep{RelPath: rel, Kind: MkCopyFileToFile})
			}
		}
		return nil
	}
	if err := walk(string(src), ""); err != nil {
		return nil, nil, err
	}
	return steps, dirs, nil
}

func checksumIfAvailable(rfs fsys.ReadFs, p core.Path) *ChecksumRecord {
	reader, ok := rfs.(fsys.ByteReader)
	if !ok {
		return nil
	}
	data, err := reader.ReadFile(p)
	if err != nil {
		return nil
	}
	rec := ComputeChecksum(data)
	return &rec
}

// joinRel appends a slash-separated relative path to base.
func joinRel(base core.Path, rel string) core.Path {
	if rel == "" {
		return base
	}
	return base.Join(rel)
}
