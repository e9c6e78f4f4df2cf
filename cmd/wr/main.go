// Package main provides the CLI entrypoint for wr.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/wr/internal/config"
)

var version = "dev"

var (
	rootRecheck   bool
	rootVerbose   bool
	rootKeepGoing bool
	rootSkipBuild bool
	rootColor     string

	openChapter  string
	openExercise string

	statusPlain bool
)

// errFailed signals a failed verification whose details were already printed.
var errFailed = errors.New("verification failed")

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			logErrf("Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wr",
		Short: "Manage test-driven workshops and tutorials",
		Long: `wr runs the tests of every exercise you have opened so far in a collection
to check if your solutions are correct. If everything passes, you are asked
whether you want to move forward to the next exercise.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}

	rootCmd.Flags().BoolVar(&rootRecheck, "recheck", false, "re-run exercises that already passed")
	rootCmd.Flags().BoolVar(&rootKeepGoing, "keep-going", false, "open and verify the next exercise automatically while they pass")
	rootCmd.PersistentFlags().BoolVar(&rootVerbose, "verbose", false, "show build logs and debug output")
	rootCmd.PersistentFlags().BoolVar(&rootSkipBuild, "skip-build", false, "skip the build step (overrides skip_build in "+config.FileName+")")
	rootCmd.PersistentFlags().StringVar(&rootColor, "color", "auto", "colorize output: auto, always or never")

	rootCmd.AddCommand(newOpenCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newOpenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open a specific exercise",
		Long: `Open a specific exercise, given by the full name of its chapter and exercise
or by their numbers. "wr open --chapter 01_intro --exercise 00_hello" and
"wr open --chapter 1 --exercise 0" are equivalent.`,
		Args: cobra.NoArgs,
		RunE: runOpenCmd,
	}
	cmd.Flags().StringVar(&openChapter, "chapter", "", "chapter name or number")
	cmd.Flags().StringVar(&openExercise, "exercise", "", "exercise name or number within the chapter")
	_ = cmd.MarkFlagRequired("chapter")
	_ = cmd.MarkFlagRequired("exercise")
	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run the tests for the exercise in the current directory",
		Args:  cobra.NoArgs,
		RunE:  runCheckCmd,
	}
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show progress over every exercise",
		Args:  cobra.NoArgs,
		RunE:  runStatusCmd,
	}
	cmd.Flags().BoolVar(&statusPlain, "plain", false, "print a plain table instead of the interactive view")
	return cmd
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run opened exercises when their files change",
		Args:  cobra.NoArgs,
		RunE:  runWatchCmd,
	}
	cmd.Flags().BoolVar(&rootRecheck, "recheck", false, "re-run exercises that already passed on startup")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "wr %s\n", version); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
