// Package wire defines the daemon wire protocol: a byte header, a
// length-prefixed frame, and gob payload encoding. It defines the contract
// only; no listener or dialer lives here.
package wire

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
)

// Header identifies the kind of request or response carried by a Frame.
type Header byte

const (
	DirectoryOpen Header = iota
	DirectoryRead
	FileCreate
	EntryCopy
	EntryMove
	EntryRemove
	Error
)

func (h Header) String() string {
	switch h {
	case DirectoryOpen:
		return "directory-open"
	case DirectoryRead:
		return "directory-read"
	case FileCreate:
		return "file-create"
	case EntryCopy:
		return "entry-copy"
	case EntryMove:
		return "entry-move"
	case EntryRemove:
		return "entry-remove"
	case Error:
		return "error"
	default:
		return "unknown-header"
	}
}

// maxPayloadBytes bounds a single frame's payload, guarding a reader
// against a corrupt or hostile length prefix demanding an unbounded
// allocation.
const maxPayloadBytes = 64 << 20

// Frame is one message on the wire: a one-byte header, an 8-byte
// big-endian length, and that many payload bytes.
type Frame struct {
	Header  Header
	Payload []byte
}

// ReadFrame reads a single frame from r.
func ReadFrame(r io.Reader) (Frame, error) {
	var prefix [9]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return Frame{}, fmt.Errorf("wire: reading frame prefix: %w", err)
	}
	header := Header(prefix[0])
	length := binary.BigEndian.Uint64(prefix[1:])
	if length > maxPayloadBytes {
		return Frame{}, fmt.Errorf("wire: frame payload of %d bytes exceeds the %d byte limit", length, uint64(maxPayloadBytes))
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Frame{}, fmt.Errorf("wire: reading frame payload: %w", err)
	}
	return Frame{Header: header, Payload: payload}, nil
}

// WriteFrame writes a single frame to w.
func WriteFrame(w io.Writer, f Frame) error {
	var prefix [9]byte
	prefix[0] = byte(f.Header)
	binary.BigEndian.PutUint64(prefix[1:], uint64(len(f.Payload)))
	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("wire: writing frame prefix: %w", err)
	}
	if _, err := w.Write(f.Payload); err != nil {
		return fmt.Errorf("wire: writing frame payload: %w", err)
	}
	return nil
}

// DirectoryOpenRequest is the payload of a DirectoryOpen frame.
type DirectoryOpenRequest struct {
	Path string
}

// DirectoryReadRequest is the payload of a DirectoryRead frame.
type DirectoryReadRequest struct {
	Path string
}

// DirectoryReadResponse is the payload of the reply to a DirectoryRead
// frame: one entry per staged/host child, identity and kind only.
type DirectoryReadResponse struct {
	Entries []EntrySummary
}

// EntrySummary is the wire-shaped projection of an entry.Entry: enough to
// render a listing without shipping the full classification.
type EntrySummary struct {
	Path string
	Kind string
}

// FileCreateRequest is the payload of a FileCreate frame.
type FileCreateRequest struct {
	Path string
}

// EntryCopyRequest is the payload of an EntryCopy frame.
type EntryCopyRequest struct {
	Src, Dst string
}

// EntryMoveRequest is the payload of an EntryMove frame.
type EntryMoveRequest struct {
	Src, Dst string
}

// EntryRemoveRequest is the payload of an EntryRemove frame.
type EntryRemoveRequest struct {
	Path string
}

// ErrorResponse is the payload of an Error frame, carrying the three-way
// error classification so a client can tell a Domain error (recoverable,
// show the user) from an Infrastructure error (fatal to the batch).
type ErrorResponse struct {
	Kind    string
	Message string
}

// EncodePayload gob-encodes v into a Frame payload.
func EncodePayload(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("wire: encoding payload: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePayload gob-decodes a Frame payload into v, which must be a
// pointer to the type EncodePayload was given for that Header.
func DecodePayload(payload []byte, v interface{}) error {
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(v); err != nil {
		return fmt.Errorf("wire: decoding payload: %w", err)
	}
	return nil
}

// NewErrorResponse classifies err into an ErrorResponse, recognizing the
// four core error families and falling back to a generic kind for
// anything else (for example a plain wrapped I/O error from the wire
// layer itself).
func NewErrorResponse(err error) ErrorResponse {
	switch e := err.(type) {
	case *core.DomainError:
		return ErrorResponse{Kind: "domain:" + e.Kind.String(), Message: e.Error()}
	case *core.RepresentationError:
		return ErrorResponse{Kind: "representation:" + e.Kind.String(), Message: e.Error()}
	case *core.InfrastructureError:
		return ErrorResponse{Kind: "infrastructure", Message: e.Error()}
	case *core.QueryError:
		return ErrorResponse{Kind: "query:" + e.Kind.String(), Message: e.Error()}
	default:
		return ErrorResponse{Kind: "unknown", Message: err.Error()}
	}
}
