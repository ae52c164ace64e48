// Package rendertree prints a staged or host tree using the same
// box-drawing glyphs (├──, └──, │) the teacher's structure parser reads
// back in, just emitted rather than consumed.
package rendertree

import (
	"fmt"
	"io"
	"sort"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/entry"
)

// Lister returns the ordered children of p. Render takes its data through
// this narrow function rather than importing pkg/vfs/stage directly, so
// the renderer stays usable against any source of entries.
type Lister func(p core.Path) ([]entry.Entry, error)

// Render writes root and its descendants to w as a tree, directories
// before files at each level, each alphabetically ordered within its
// group. A virtual-origin entry is suffixed " (virtual)".
func Render(w io.Writer, root entry.Entry, lister Lister) error {
	fmt.Fprintln(w, label(root))
	return renderChildren(w, root, lister, "")
}

func renderChildren(w io.Writer, parent entry.Entry, lister Lister, prefix string) error {
	if !parent.IsDir() {
		return nil
	}
	children, err := lister(parent.Path())
	if err != nil {
		return err
	}
	children = sortedChildren(children)

	for i, child := range children {
		last := i == len(children)-1
		branch, nextPrefix := "├── ", prefix+"│   "
		if last {
			branch, nextPrefix = "└── ", prefix+"    "
		}
		fmt.Fprintln(w, prefix+branch+label(child))
		if err := renderChildren(w, child, lister, nextPrefix); err != nil {
			return err
		}
	}
	return nil
}

func sortedChildren(entries []entry.Entry) []entry.Entry {
	out := make([]entry.Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDir() != out[j].IsDir() {
			return out[i].IsDir()
		}
		return out[i].Name() < out[j].Name()
	})
	return out
}

func label(e entry.Entry) string {
	name := e.Name()
	if name == "" {
		name = string(e.Path())
	}
	if e.IsDir() {
		name += "/"
	}
	if e.IsVirtual() {
		name += " (virtual)"
	}
	return name
}
