package ops

import (
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/fsys"
)

type createGenerator struct {
	req       CreateRequest
	state     genState
	ancestors []core.Path
}

func (g *createGenerator) Next(rfs fsys.ReadFs) (Operation, bool, error) {
	switch g.state {
	case stateAncestors:
		if g.ancestors == nil {
			missing, err := missingAncestors(rfs, g.req.Path)
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
		strategy, err := decideCreateStrategy(rfs, g.req)
		if err != nil {
			return Operation{}, false, err
		}
		return Operation{Kind: OpCreate, CreateStrategy: strategy, Request: g.req}, true, nil
	default:
		return Operation{}, false, nil
	}
}

func decideCreateStrategy(rfs fsys.ReadFs, req CreateRequest) (CreateStrategy, error) {
	ent, err := rfs.Status(req.Path)
	if err != nil {
		return 0, err
	}
	switch {
	case !ent.Exists():
		if req.Kind == core.Directory {
			return DirectoryCreation, nil
		}
		return FileCreation, nil
	case ent.IsFile():
		if req.Kind == core.Directory {
			return DirectoryCreationOverwrite, nil
		}
		return FileCreationOverwrite, nil
	case ent.IsDir():
		// An existing directory can never be "created" over, whether the
		// request asks for a file or another directory: there is no
		// overwrite semantic that makes sense for a directory target.
		return 0, &core.DomainError{Kind: core.ErrDirectoryOverwriteNotAllowed, Target: string(req.Path)}
	default:
		return 0, &core.DomainError{Kind: core.ErrCreateUnknown, Target: string(req.Path)}
	}
}
