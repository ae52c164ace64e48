package ops

// Schedule is a pure function from an already-generated Operation to the
// ordered MicroOperations that realize it. It never touches the
// filesystem: every filesystem-dependent decision (strategy selection,
// descendant enumeration, source resolution) was already made by the
// Generator and is carried on the Operation.
func Schedule(op Operation) []MicroOperation {
	switch op.Kind {
	case OpCreate:
		return scheduleCreate(op)
	case OpCopy:
		return scheduleCopy(op)
	case OpMove:
		return scheduleMove(op)
	case OpRemove:
		return scheduleRemove(op)
	default:
		return nil
	}
}

func scheduleCreate(op Operation) []MicroOperation {
	req := op.Request.(CreateRequest)
	switch op.CreateStrategy {
	case DirectoryCreation:
		return []MicroOperation{{Kind: MkCreateEmptyDirectory, Path: req.Path}}
	case FileCreation:
		return []MicroOperation{{Kind: MkCreateEmptyFile, Path: req.Path}}
	case FileCreationOverwrite:
		return []MicroOperation{
			{Kind: MkRemoveFile, Path: req.Path},
			{Kind: MkCreateEmptyFile, Path: req.Path},
		}
	case DirectoryCreationOverwrite:
		return []MicroOperation{
			{Kind: MkRemoveFile, Path: req.Path},
			{Kind: MkCreateEmptyDirectory, Path: req.Path},
		}
	default:
		return nil
	}
}

func scheduleCopy(op Operation) []MicroOperation {
	req := op.Request.(CopyRequest)
	switch op.CopyStrategy {
	case FileCopy, FileCopyOverwrite:
		return []MicroOperation{{Kind: MkCopyFileToFile, Src: op.ResolvedSource, Dst: req.Dst, Checksum: op.SourceChecksum}}
	case DirectoryCopy:
		return []MicroOperation{{Kind: MkBindDirectoryToDirectory, Src: op.ResolvedSource, Dst: req.Dst}}
	case DirectoryCopyMerge:
		out := make([]MicroOperation, 0, len(op.Descendants))
		for _, step := range op.Descendants {
			dst := joinRel(req.Dst, step.RelPath)
			switch step.Kind {
			case MkCreateEmptyDirectory:
				out = append(out, MicroOperation{Kind: MkCreateEmptyDirectory, Path: dst})
			case MkCopyFileToFile:
				out = append(out, MicroOperation{Kind: MkCopyFileToFile, Src: joinRel(op.ResolvedSource, step.RelPath), Dst: dst})
			}
		}
		return out
	default:
		return nil
	}
}

func scheduleMove(op Operation) []MicroOperation {
	req := op.Request.(MoveRequest)
	switch op.MoveStrategy {
	case FileMove, FileMoveOverwrite:
		return []MicroOperation{{Kind: MkMoveFileToFile, Src: op.ResolvedSource, Dst: req.Dst, Checksum: op.SourceChecksum}}
	case DirectoryMove:
		return []MicroOperation{
			{Kind: MkBindDirectoryToDirectory, Src: op.ResolvedSource, Dst: req.Dst},
			{Kind: MkRemoveMaintainedEmptyDirectory, Path: req.Src},
		}
	case DirectoryMoveMerge:
		out := make([]MicroOperation, 0, len(op.Descendants)+1)
		for _, step := range op.Descendants {
			switch step.Kind {
			case MkCreateEmptyDirectory:
				out = append(out, MicroOperation{Kind: MkCreateEmptyDirectory, Path: joinRel(req.Dst, step.RelPath)})
			case MkMoveFileToFile:
				out = append(out, MicroOperation{
					Kind: MkMoveFileToFile,
					Src:  joinRel(op.ResolvedSource, step.RelPath),
					Dst:  joinRel(req.Dst, step.RelPath),
				})
			case MkRemoveEmptyDirectory:
				out = append(out, MicroOperation{Kind: MkRemoveEmptyDirectory, Path: joinRel(req.Src, step.RelPath)})
			}
		}
		out = append(out, MicroOperation{Kind: MkRemoveMaintainedEmptyDirectory, Path: req.Src})
		return out
	default:
		return nil
	}
}

func scheduleRemove(op Operation) []MicroOperation {
	req := op.Request.(RemoveRequest)
	switch op.RemoveStrategy {
	case FileRemoval:
		return []MicroOperation{{Kind: MkRemoveFile, Path: req.Path}}
	case EmptyDirectoryRemoval:
		return []MicroOperation{{Kind: MkRemoveEmptyDirectory, Path: req.Path}}
	case RecursiveDirectoryRemoval:
		out := make([]MicroOperation, 0, len(op.Descendants)+1)
		for _, step := range op.Descendants {
			out = append(out, MicroOperation{Kind: step.Kind, Path: joinRel(req.Path, step.RelPath)})
		}
		out = append(out, MicroOperation{Kind: MkRemoveEmptyDirectory, Path: req.Path})
		return out
	default:
		return nil
	}
}
