package ops

import (
	"errors"
	"hash/crc32"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/fsys"
)

// MicroKind is the closed set of port calls a MicroOperation can carry.
// It maps one-to-one onto fsys.WriteFs's mutators.
type MicroKind int

const (
	MkCreateEmptyDirectory MicroKind = iota
	MkCreateEmptyFile
	MkBindDirectoryToDirectory
	MkCopyFileToFile
	MkMoveFileToFile
	MkRemoveFile
	MkRemoveEmptyDirectory
	MkRemoveMaintainedEmptyDirectory
)

func (k MicroKind) String() string {
	switch k {
	case MkCreateEmptyDirectory:
		return "create-empty-directory"
	case MkCreateEmptyFile:
		return "create-empty-file"
	case MkBindDirectoryToDirectory:
		return "bind-directory-to-directory"
	case MkCopyFileToFile:
		return "copy-file-to-file"
	case MkMoveFileToFile:
		return "move-file-to-file"
	case MkRemoveFile:
		return "remove-file"
	case MkRemoveEmptyDirectory:
		return "remove-empty-directory"
	case MkRemoveMaintainedEmptyDirectory:
		return "remove-maintained-empty-directory"
	default:
		return "unknown-micro-kind"
	}
}

// ChecksumRecord pins the expected content of a copy/move source as of
// staging time, re-verified immediately before the bytes are replayed
// against the real host at commit.
type ChecksumRecord struct {
	CRC32 uint32
}

// ComputeChecksum derives a ChecksumRecord from data.
func ComputeChecksum(data []byte) ChecksumRecord {
	return ChecksumRecord{CRC32: crc32.ChecksumIEEE(data)}
}

// ErrChecksumMismatch is returned, wrapped in an InfrastructureError, when
// a source's content changed between staging and commit.
var ErrChecksumMismatch = errors.New("source content changed since it was staged")

// MicroOperation is a single, host-shaped mutation: exactly one WriteFs
// call, plus an optional checksum covering its source path.
type MicroOperation struct {
	Kind     MicroKind
	Path     core.Path // single-path kinds
	Src, Dst core.Path // two-path kinds
	Checksum *ChecksumRecord
}

// Apply replays the micro-operation against w, verifying its checksum
// first when both w and the checksum are present.
func (m MicroOperation) Apply(w fsys.WriteFs) error {
	if m.Checksum != nil {
		if err := m.verify(w); err != nil {
			return err
		}
	}
	switch m.Kind {
	case MkCreateEmptyDirectory:
		return w.CreateEmptyDirectory(m.Path)
	case MkCreateEmptyFile:
		return w.CreateEmptyFile(m.Path)
	case MkBindDirectoryToDirectory:
		return w.BindDirectoryToDirectory(m.Src, m.Dst)
	case MkCopyFileToFile:
		return w.CopyFileToFile(m.Src, m.Dst)
	case MkMoveFileToFile:
		return w.MoveFileToFile(m.Src, m.Dst)
	case MkRemoveFile:
		return w.RemoveFile(m.Path)
	case MkRemoveEmptyDirectory:
		return w.RemoveEmptyDirectory(m.Path)
	case MkRemoveMaintainedEmptyDirectory:
		return w.RemoveMaintainedEmptyDirectory(m.Path)
	default:
		return &core.InfrastructureError{Op: "apply", Path: string(m.Path), Cause: errUnknownMicroKind}
	}
}

func (m MicroOperation) verify(w fsys.WriteFs) error {
	reader, ok := w.(fsys.ByteReader)
	if !ok {
		return nil
	}
	data, err := reader.ReadFile(m.Src)
	if err != nil {
		return err
	}
	if crc32.ChecksumIEEE(data) != m.Checksum.CRC32 {
		return &core.InfrastructureError{Op: "checksum-verify", Path: string(m.Src), Cause: ErrChecksumMismatch}
	}
	return nil
}

var errUnknownMicroKind = errors.New("unknown micro-operation kind")
