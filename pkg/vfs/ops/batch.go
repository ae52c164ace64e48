package ops

import (
	"fmt"
	"strconv"

	"github.com/gammazero/toposort"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
)

// OrderBatch reorders a batch of Requests submitted together so that any
// request producing a path another request in the batch depends on (as an
// ancestor directory, or as a copy/move source written by an earlier
// request) runs first. It is the multi-request analogue of the single
// Generator's ancestor-creation phase, grounded on the teacher's
// dependency-edge topological sort.
func OrderBatch(requests []Request) ([]Request, error) {
	if len(requests) < 2 {
		return requests, nil
	}

	edges := make([]toposort.Edge, 0, len(requests))
	for i, a := range requests {
		aTarget := targetOf(a)
		for j, b := range requests {
			if i == j {
				continue
			}
			bTarget := targetOf(b)
			// b produces a path a depends on: either a's target sits under
			// b's target, or a reads from a path b just wrote.
			if bTarget.IsAncestorOf(aTarget) && bTarget != aTarget {
				edges = append(edges, toposort.Edge{strconv.Itoa(j), strconv.Itoa(i)})
				continue
			}
			if src, ok := sourceOf(a); ok && src == bTarget {
				edges = append(edges, toposort.Edge{strconv.Itoa(j), strconv.Itoa(i)})
			}
		}
	}

	if len(edges) == 0 {
		return requests, nil
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, &core.DomainError{Kind: core.ErrCyclicBatch, Cause: err}
	}

	out := make([]Request, 0, len(requests))
	seen := make([]bool, len(requests))
	for _, idVal := range sorted {
		idStr, ok := idVal.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected topological sort id type %T", idVal)
		}
		idx, err := strconv.Atoi(idStr)
		if err != nil {
			return nil, fmt.Errorf("unexpected topological sort id %q: %w", idStr, err)
		}
		out = append(out, requests[idx])
		seen[idx] = true
	}
	for i, req := range requests {
		if !seen[i] {
			out = append(out, req)
		}
	}
	return out, nil
}

func targetOf(r Request) core.Path {
	switch req := r.(type) {
	case CreateRequest:
		return req.Path
	case CopyRequest:
		return req.Dst
	case MoveRequest:
		return req.Dst
	case RemoveRequest:
		return req.Path
	default:
		return core.Root
	}
}

func sourceOf(r Request) (core.Path, bool) {
	switch req := r.(type) {
	case CopyRequest:
		return req.Src, true
	case MoveRequest:
		return req.Src, true
	default:
		return "", false
	}
}
