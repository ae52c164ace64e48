package ops

import (
	"math"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/fsys"
)

// Generator is a finite, non-restartable lazy sequence of Operations for a
// single Request. Next returns (op, true, nil) for each item, (_, false,
// nil) once exhausted, or (_, false, err) if the request cannot be
// satisfied at all. The last item it yields before exhaustion always
// targets the Request's own path. Only a Generator consults the
// filesystem; Schedule is a pure function of its output.
type Generator interface {
	Next(rfs fsys.ReadFs) (Operation, bool, error)
}

// NewGenerator builds the Generator matching req's concrete type.
func NewGenerator(req Request) Generator {
	switch r := req.(type) {
	case CreateRequest:
		return &createGenerator{req: r}
	case CopyRequest:
		return &copyGenerator{req: r}
	case MoveRequest:
		return &moveGenerator{req: r}
	case RemoveRequest:
		return &removeGenerator{req: r}
	default:
		return &exhaustedGenerator{}
	}
}

type exhaustedGenerator struct{}

func (*exhaustedGenerator) Next(fsys.ReadFs) (Operation, bool, error) { return Operation{}, false, nil }

// genState is the shared ancestor-then-primary-then-done state machine
// used by every concrete generator below.
type genState int

const (
	stateAncestors genState = iota
	statePrimary
	stateDone
)

// missingAncestors walks path's ancestors root-first and returns the
// prefix that does not yet exist, erroring out if one exists as a file
// (a file can never be treated as an intermediate directory).
func missingAncestors(rfs fsys.ReadFs, path core.Path) ([]core.Path, error) {
	var missing []core.Path
	for _, anc := range path.Ancestors() {
		ent, err := rfs.Status(anc)
		if err != nil {
			return nil, err
		}
		if !ent.Exists() {
			missing = append(missing, anc)
			continue
		}
		if ent.IsFile() {
			return nil, &core.DomainError{Kind: core.ErrDirectoryOverwriteNotAllowed, Target: string(anc)}
		}
	}
	return missing, nil
}

// resolveSource follows a chain of virtual source bindings (as staged by
// earlier Copy/Move requests in the same batch) until it reaches a path
// with no further binding, returning the real host path the bytes
// ultimately live at. This is what makes chained renames like
// mv /A /Z; mv /Z /C resolve to /A rather than the intermediate /Z.
//
// p itself must currently read as existing; once the chain walk starts,
// intermediate hops are followed regardless of whether they now read as
// removed, since "removed" there only means hidden-after-move bookkeeping,
// not that the underlying bytes are gone.
//
// Each hop is only followed if its binding predates the edge that led the
// walk to it (guarded by Seq). Without this, a path identity reused as an
// unrelated destination later in the same batch (mv /A /Z; mv /C /A; mv
// /Z /C) would conflate "/Z was renamed from /A" with "/A was later
// rebound to /C by a different request": walking /Z -> /A and then
// blindly following /A's *current* binding would land on /C instead of
// the true original /A. Once a hop's Seq is newer than the edge that
// reached it, that hop is where the chain actually ends.
func resolveSource(rfs fsys.ReadFs, p core.Path) (core.Path, error) {
	ent, err := rfs.Status(p)
	if err != nil {
		return "", err
	}
	if !ent.Exists() {
		return "", &core.DomainError{Kind: core.ErrSourceDoesNotExist, Target: string(p)}
	}

	resolver, ok := rfs.(fsys.SourceResolver)
	if !ok {
		return p, nil
	}

	visited := map[core.Path]bool{p: true}
	cur := p
	boundSeq := uint64(math.MaxUint64)
	for {
		src, seq, ok := resolver.SourceOf(cur)
		if !ok {
			return cur, nil
		}
		if seq > boundSeq {
			return cur, nil
		}
		if visited[src] {
			return "", &core.DomainError{Kind: core.ErrCyclicBatch, Target: string(p)}
		}
		visited[src] = true
		boundSeq = seq
		cur = src
	}
}
