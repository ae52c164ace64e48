package ops

import (
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/fsys"
)

type moveGenerator struct {
	req       MoveRequest
	state     genState
	ancestors []core.Path
}

func (g *moveGenerator) Next(rfs fsys.ReadFs) (Operation, bool, error) {
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
		return buildMoveOperation(rfs, g.req)
	default:
		return Operation{}, false, nil
	}
}

func buildMoveOperation(rfs fsys.ReadFs, req MoveRequest) (Operation, bool, error) {
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

	op := Operation{Kind: OpMove, Request: req, ResolvedSource: resolved, HasSource: true}

	switch {
	case !dstEnt.Exists():
		if srcEnt.IsDir() {
			op.MoveStrategy = DirectoryMove
		} else {
			op.MoveStrategy = FileMove
			op.SourceChecksum = checksumIfAvailable(rfs, req.Src)
		}
	case srcEnt.IsFile() && dstEnt.IsFile():
		op.MoveStrategy = FileMoveOverwrite
		op.SourceChecksum = checksumIfAvailable(rfs, req.Src)
	case srcEnt.IsFile() && dstEnt.IsDir():
		return Operation{}, false, &core.DomainError{Kind: core.ErrOverwriteDirectoryWithFile, Target: string(req.Src), Other: string(req.Dst)}
	case srcEnt.IsDir() && dstEnt.IsFile():
		return Operation{}, false, &core.DomainError{Kind: core.ErrMergeFileWithDirectory, Target: string(req.Src), Other: string(req.Dst)}
	case srcEnt.IsDir() && dstEnt.IsDir():
		op.MoveStrategy = DirectoryMoveMerge
		steps, dirs, err := planMerge(rfs, req.Src, req.Dst)
		if err != nil {
			return Operation{}, false, err
		}
		for i := range steps {
			if steps[i].Kind == MkCopyFileToFile {
				steps[i].Kind = MkMoveFileToFile
			}
		}
		for i := len(dirs) - 1; i >= 0; i-- {
			steps = append(steps, DescendantStep{RelPath: dirs[i], Kind: MkRemoveEmptyDirectory})
		}
		op.Descendants = steps
	}

	return op, true, nil
}
