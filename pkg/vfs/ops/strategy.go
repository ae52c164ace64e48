package ops

import "github.com/mkontsevoy/vfoverlay/pkg/vfs/guard"

// CreateStrategy is the closed set of ways a CreateRequest can resolve
// against the current state of its target.
type CreateStrategy int

const (
	FileCreation CreateStrategy = iota
	DirectoryCreation
	FileCreationOverwrite
	DirectoryCreationOverwrite
)

func (s CreateStrategy) String() string {
	switch s {
	case FileCreation:
		return "file-creation"
	case DirectoryCreation:
		return "directory-creation"
	case FileCreationOverwrite:
		return "file-creation-overwrite"
	case DirectoryCreationOverwrite:
		return "directory-creation-overwrite"
	default:
		return "unknown-create-strategy"
	}
}

// requiredCapability reports the capability this strategy needs, if any.
func (s CreateStrategy) requiredCapability() (guard.Capability, bool) {
	switch s {
	case FileCreationOverwrite, DirectoryCreationOverwrite:
		return guard.CapOverwrite, true
	default:
		return 0, false
	}
}

// CopyStrategy is the closed set of ways a CopyRequest can resolve.
type CopyStrategy int

const (
	FileCopy CopyStrategy = iota
	FileCopyOverwrite
	DirectoryCopy
	DirectoryCopyMerge
)

func (s CopyStrategy) String() string {
	switch s {
	case FileCopy:
		return "file-copy"
	case FileCopyOverwrite:
		return "file-copy-overwrite"
	case DirectoryCopy:
		return "directory-copy"
	case DirectoryCopyMerge:
		return "directory-copy-merge"
	default:
		return "unknown-copy-strategy"
	}
}

func (s CopyStrategy) requiredCapability() (guard.Capability, bool) {
	switch s {
	case FileCopyOverwrite:
		return guard.CapOverwrite, true
	case DirectoryCopyMerge:
		return guard.CapMerge, true
	default:
		return 0, false
	}
}

// MoveStrategy mirrors CopyStrategy's decision table; terminal strategies
// additionally remove the source once its content is visible at dst.
type MoveStrategy int

const (
	FileMove MoveStrategy = iota
	FileMoveOverwrite
	DirectoryMove
	DirectoryMoveMerge
)

func (s MoveStrategy) String() string {
	switch s {
	case FileMove:
		return "file-move"
	case FileMoveOverwrite:
		return "file-move-overwrite"
	case DirectoryMove:
		return "directory-move"
	case DirectoryMoveMerge:
		return "directory-move-merge"
	default:
		return "unknown-move-strategy"
	}
}

func (s MoveStrategy) requiredCapability() (guard.Capability, bool) {
	switch s {
	case FileMoveOverwrite:
		return guard.CapOverwrite, true
	case DirectoryMoveMerge:
		return guard.CapMerge, true
	default:
		return 0, false
	}
}

// RemoveStrategy is the closed set of ways a RemoveRequest can resolve.
type RemoveStrategy int

const (
	FileRemoval RemoveStrategy = iota
	EmptyDirectoryRemoval
	RecursiveDirectoryRemoval
)

func (s RemoveStrategy) String() string {
	switch s {
	case FileRemoval:
		return "file-removal"
	case EmptyDirectoryRemoval:
		return "empty-directory-removal"
	case RecursiveDirectoryRemoval:
		return "recursive-directory-removal"
	default:
		return "unknown-remove-strategy"
	}
}

func (s RemoveStrategy) requiredCapability() (guard.Capability, bool) {
	if s == RecursiveDirectoryRemoval {
		return guard.CapRecursive, true
	}
	return 0, false
}
