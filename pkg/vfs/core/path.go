package core

import (
	"strings"
)

// Path is an absolute, normalized filesystem path. It is always slash
// separated and never carries a trailing slash except for the root itself.
type Path string

// Root is the single-component absolute root path.
const Root Path = "/"

// NewPath normalizes raw into an absolute Path, collapsing "." and ".."
// lexically without touching the host filesystem. It fails for any input
// that is not rooted.
func NewPath(raw string) (Path, error) {
	if raw == "" || raw[0] != '/' {
		return "", &RepresentationError{Kind: ErrIsRelativePath, Path: raw}
	}
	return Path(clean(raw)), nil
}

// MustPath is NewPath but panics on error. Intended for literals in tests
// and internal call sites where the path is known to be absolute.
func MustPath(raw string) Path {
	p, err := NewPath(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// clean collapses "." and ".." segments and repeated slashes, purely
// lexically, and always returns a rooted, non-trailing-slash path (except
// for the root itself).
func clean(raw string) string {
	segments := strings.Split(raw, "/")
	stack := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, seg)
		}
	}
	if len(stack) == 0 {
		return string(Root)
	}
	return "/" + strings.Join(stack, "/")
}

// IsRoot reports whether p is the root path.
func (p Path) IsRoot() bool {
	return p == Root
}

// Parent returns the parent of p and true, or ("", false) if p is root.
func (p Path) Parent() (Path, bool) {
	if p.IsRoot() {
		return "", false
	}
	s := string(p)
	idx := strings.LastIndexByte(s, '/')
	if idx <= 0 {
		return Root, true
	}
	return Path(s[:idx]), true
}

// Name returns the last path component, or "" for root.
func (p Path) Name() string {
	if p.IsRoot() {
		return ""
	}
	s := string(p)
	idx := strings.LastIndexByte(s, '/')
	return s[idx+1:]
}

// Join appends a single child name to p.
func (p Path) Join(name string) Path {
	if p.IsRoot() {
		return Path("/" + name)
	}
	return Path(string(p) + "/" + name)
}

// IsAncestorOf reports whether p is a strict or non-strict ancestor of q
// (p == q counts as containing).
func (p Path) IsAncestorOf(q Path) bool {
	if p == q {
		return true
	}
	if p.IsRoot() {
		return true
	}
	s, t := string(p), string(q)
	return strings.HasPrefix(t, s+"/")
}

// Rebase replaces the oldAncestor prefix of p with newBase. p must equal
// oldAncestor or be contained by it. Used to project reads lazily through a
// bound directory source.
func (p Path) Rebase(oldAncestor, newBase Path) Path {
	if p == oldAncestor {
		return newBase
	}
	suffix := strings.TrimPrefix(string(p), string(oldAncestor))
	base := strings.TrimSuffix(string(newBase), "/")
	return Path(base + suffix)
}

// Ancestors returns p's strict ancestors, ordered root-first (deepest
// last), not including p itself.
func (p Path) Ancestors() []Path {
	var out []Path
	cur := p
	for {
		parent, ok := cur.Parent()
		if !ok {
			break
		}
		out = append([]Path{parent}, out...)
		cur = parent
	}
	return out
}
