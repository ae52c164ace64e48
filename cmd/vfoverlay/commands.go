package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/core"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/ops"
	"github.com/mkontsevoy/vfoverlay/pkg/vfs/rendertree"
)

func parsePath(raw string) (core.Path, error) {
	p, err := core.NewPath(raw)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", raw, err)
	}
	return p, nil
}

func newLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [path]",
		Short: "List the staged children of a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "/"
			if len(args) == 1 {
				target = args[0]
			}
			p, err := parsePath(target)
			if err != nil {
				return err
			}
			c, _, err := openContainer()
			if err != nil {
				return err
			}
			ents, err := c.ReadDir(p)
			if err != nil {
				return err
			}
			for _, e := range ents {
				suffix := ""
				if e.IsDir() {
					suffix = "/"
				}
				if e.IsVirtual() {
					suffix += " (virtual)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", e.Name(), suffix)
			}
			return nil
		},
	}
}

func newTreeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tree [path]",
		Short: "Render the staged tree rooted at path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "/"
			if len(args) == 1 {
				target = args[0]
			}
			p, err := parsePath(target)
			if err != nil {
				return err
			}
			c, _, err := openContainer()
			if err != nil {
				return err
			}
			root, err := c.Status(p)
			if err != nil {
				return err
			}
			return rendertree.Render(cmd.OutOrStdout(), root, c.ReadDir)
		},
	}
}

func newMkdirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Stage the creation of a directory",
		Args:  cobra.ExactArgs(1),
		RunE:  stageAndPersist(func(p []core.Path) ops.Request { return ops.CreateRequest{Path: p[0], Kind: core.Directory} }),
	}
}

func newTouchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "touch <path>",
		Short: "Stage the creation of an empty file",
		Args:  cobra.ExactArgs(1),
		RunE:  stageAndPersist(func(p []core.Path) ops.Request { return ops.CreateRequest{Path: p[0], Kind: core.File} }),
	}
}

func newCpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cp <src> <dst>",
		Short: "Stage copying src to dst",
		Args:  cobra.ExactArgs(2),
		RunE:  stageAndPersist(func(p []core.Path) ops.Request { return ops.CopyRequest{Src: p[0], Dst: p[1]} }),
	}
}

func newMvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <src> <dst>",
		Short: "Stage moving src to dst",
		Args:  cobra.ExactArgs(2),
		RunE:  stageAndPersist(func(p []core.Path) ops.Request { return ops.MoveRequest{Src: p[0], Dst: p[1]} }),
	}
}

func newRmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>",
		Short: "Stage removing path",
		Args:  cobra.ExactArgs(1),
		RunE:  stageAndPersist(func(p []core.Path) ops.Request { return ops.RemoveRequest{Path: p[0]} }),
	}
}

// stageAndPersist builds a cobra RunE that parses each positional argument
// as a core.Path, turns them into a Request via build, stages it against
// the resumed session, and persists the result back to sessionPath.
func stageAndPersist(build func([]core.Path) ops.Request) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		paths := make([]core.Path, len(args))
		for i, a := range args {
			p, err := parsePath(a)
			if err != nil {
				return err
			}
			paths[i] = p
		}
		c, _, err := openContainer()
		if err != nil {
			return err
		}
		if err := c.Stage(build(paths)); err != nil {
			return err
		}
		if err := persistContainer(c); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "staged, %d micro-operation(s) pending\n", len(c.Pending()))
		return nil
	}
}

func newApplyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Commit the pending plan to the real filesystem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, host, err := openContainer()
			if err != nil {
				return err
			}
			pending := len(c.Pending())
			if err := c.Commit(host); err != nil {
				return err
			}
			if err := os.Remove(sessionPath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("clearing session file %s: %w", sessionPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "committed %d micro-operation(s)\n", pending)
			return nil
		},
	}
}

func newSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Persist the current session without committing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := openContainer()
			if err != nil {
				return err
			}
			if err := persistContainer(c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved session to %s\n", sessionPath)
			return nil
		},
	}
}

func newResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard the staged session without touching the filesystem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.Remove(sessionPath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("removing session file %s: %w", sessionPath, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "session reset")
			return nil
		},
	}
}
