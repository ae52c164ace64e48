// Package persist serializes a staging Container's representation and
// pending commit plan to a single JSON session document, so a caller can
// suspend and resume a staging session across process restarts.
package persist

import (
	"encoding/json"
	"fmt"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/delta"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/ops"
)

// Metadata carries information about a session document, separate from its
// representation and plan so future fields can be added without touching
// either.
type Metadata struct {
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// Session is the serializable snapshot of a Container: its two-layer
// representation plus the micro-operation plan accumulated so far.
type Session struct {
	Metadata Metadata            `json:"metadata"`
	Add      *delta.VirtualDelta `json:"add"`
	Sub      *delta.VirtualDelta `json:"sub"`
	Pending  []microOpDoc        `json:"pending"`
}

// microOpDoc is the JSON shape of a single ops.MicroOperation. A Path/Src/Dst
// of "" is omitted by round-tripping through core.Path's string form rather
// than exporting MicroOperation's fields directly, keeping the wire format
// independent of the in-memory struct's layout.
type microOpDoc struct {
	Kind     string          `json:"kind"`
	Path     string          `json:"path,omitempty"`
	Src      string          `json:"src,omitempty"`
	Dst      string          `json:"dst,omitempty"`
	Checksum *ops.ChecksumRecord `json:"checksum,omitempty"`
}

// NewSession builds an empty document ready to have its Add/Sub populated
// from a live representation.
func NewSession(description string) *Session {
	return &Session{
		Metadata: Metadata{Version: "1.0", Description: description},
		Add:      delta.NewVirtualDelta(),
		Sub:      delta.NewVirtualDelta(),
	}
}

// FromRepresentation captures add, sub and the pending plan into a Session
// ready for Save.
func FromRepresentation(add, sub *delta.VirtualDelta, pending []ops.MicroOperation, description string) *Session {
	s := NewSession(description)
	s.Add = add
	s.Sub = sub
	s.Pending = make([]microOpDoc, 0, len(pending))
	for _, m := range pending {
		s.Pending = append(s.Pending, toDoc(m))
	}
	return s
}

// Save serializes s to indented JSON, matching the teacher's MarshalPlan
// convention of a human-diffable document over a compact one.
func Save(s *Session) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Load deserializes a session document and re-validates the structural
// invariants of both deltas before returning it: a document whose add or
// sub delta has a dangling ancestor or a parent of the wrong kind is
// rejected rather than partially adopted.
func Load(data []byte) (*Session, []ops.MicroOperation, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if s.Add == nil {
		s.Add = delta.NewVirtualDelta()
	}
	if s.Sub == nil {
		s.Sub = delta.NewVirtualDelta()
	}
	if err := s.Add.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid add delta: %w", err)
	}
	if err := s.Sub.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid sub delta: %w", err)
	}

	pending := make([]ops.MicroOperation, 0, len(s.Pending))
	for i, doc := range s.Pending {
		m, err := fromDoc(doc)
		if err != nil {
			return nil, nil, fmt.Errorf("pending[%d]: %w", i, err)
		}
		pending = append(pending, m)
	}
	return &s, pending, nil
}

func toDoc(m ops.MicroOperation) microOpDoc {
	return microOpDoc{
		Kind:     m.Kind.String(),
		Path:     string(m.Path),
		Src:      string(m.Src),
		Dst:      string(m.Dst),
		Checksum: m.Checksum,
	}
}

func fromDoc(doc microOpDoc) (ops.MicroOperation, error) {
	kind, err := microKindFromString(doc.Kind)
	if err != nil {
		return ops.MicroOperation{}, err
	}
	m := ops.MicroOperation{Kind: kind, Checksum: doc.Checksum}
	if doc.Path != "" {
		p, err := core.NewPath(doc.Path)
		if err != nil {
			return ops.MicroOperation{}, err
		}
		m.Path = p
	}
	if doc.Src != "" {
		p, err := core.NewPath(doc.Src)
		if err != nil {
			return ops.MicroOperation{}, err
		}
		m.Src = p
	}
	if doc.Dst != "" {
		p, err := core.NewPath(doc.Dst)
		if err != nil {
			return ops.MicroOperation{}, err
		}
		m.Dst = p
	}
	return m, nil
}

func microKindFromString(s string) (ops.MicroKind, error) {
	for k := ops.MkCreateEmptyDirectory; k <= ops.MkRemoveMaintainedEmptyDirectory; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown micro-operation kind: %q", s)
}
