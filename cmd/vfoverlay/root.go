package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkontsevoy/vfoverlay/pkg/vfs/config"
)

var cfg = config.Default()

// sessionPath is where the staged-but-not-committed representation is
// persisted between CLI invocations, mirroring the teacher's plan.json
// convention but scoped to one working directory's session.
var sessionPath string

var rootCmd = &cobra.Command{
	Use:   "vfoverlay",
	Short: "Stage filesystem operations in a virtual overlay before committing them",
	Long: `vfoverlay stages create/copy/move/remove requests against a virtual
two-layer overlay of a real directory tree, so they can be inspected,
composed, and rolled back before anything actually touches disk. Each
invocation resumes the previous session from --session (if present); the
staging commands and "save" write it back afterward. "apply" is what
actually writes to the host.`,
}

// Execute adds all child commands to the root command and runs it. Called
// once from main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cfg.BindFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", ".vfoverlay-session.json", "path to the persisted staging session")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newLsCommand())
	rootCmd.AddCommand(newTreeCommand())
	rootCmd.AddCommand(newMkdirCommand())
	rootCmd.AddCommand(newTouchCommand())
	rootCmd.AddCommand(newCpCommand())
	rootCmd.AddCommand(newMvCommand())
	rootCmd.AddCommand(newRmCommand())
	rootCmd.AddCommand(newApplyCommand())
	rootCmd.AddCommand(newSaveCommand())
	rootCmd.AddCommand(newResetCommand())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vfoverlay version %s (commit: %s, built: %s)\n", version, commit, date)
	},
}
