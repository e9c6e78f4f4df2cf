package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/wr/internal/collection"
	"github.com/verte-zerg/wr/internal/config"
	"github.com/verte-zerg/wr/internal/exercise"
	"github.com/verte-zerg/wr/internal/logging"
	"github.com/verte-zerg/wr/internal/model"
	"github.com/verte-zerg/wr/internal/prompt"
	"github.com/verte-zerg/wr/internal/statusui"
	"github.com/verte-zerg/wr/internal/store"
	"github.com/verte-zerg/wr/internal/ui"
	"github.com/verte-zerg/wr/internal/verify"
	"github.com/verte-zerg/wr/internal/watch"
)

// workspace is everything a command needs once flags and config are merged.
type workspace struct {
	collection *collection.Collection
	pipeline   *verify.Pipeline
	printer    *ui.Printer
	log        *zap.Logger
}

func openWorkspace(cmd *cobra.Command) (*workspace, error) {
	root, err := config.RepositoryRoot()
	if err != nil {
		return nil, err
	}
	fileCfg, err := config.LoadCollection(root)
	if err != nil {
		return nil, err
	}
	applyBoolConfig(cmd, "skip-build", &rootSkipBuild, fileCfg.SkipBuild)

	color, err := ui.ColorEnabled(rootColor, os.Stdout)
	if err != nil {
		return nil, err
	}
	tc, err := verify.LookupToolchain(fileCfg.Toolchain)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(rootVerbose)
	if err != nil {
		return nil, err
	}

	coll, err := collection.Open(fileCfg.ExercisesDir, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	opts := model.Options{Color: color, Verbose: rootVerbose, SkipBuild: rootSkipBuild}
	printer := ui.NewPrinter(os.Stdout, color)
	pipeline := verify.New(coll, fileCfg.Verification, opts,
		verify.WithToolchain(tc),
		verify.WithReporter(printer),
		verify.WithLogger(log),
	)
	return &workspace{collection: coll, pipeline: pipeline, printer: printer, log: log}, nil
}

func (w *workspace) close() {
	if cerr := w.collection.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
	// Best-effort flush; stderr may not support sync.
	_ = w.log.Sync()
}

// report prints a failed outcome and turns it into errFailed.
func (w *workspace) report(outcome model.Outcome) error {
	if outcome.Success() {
		return nil
	}
	w.printer.Failure(outcome.Command, outcome.Output)
	return errFailed
}

func runRootCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.close()

	w.printer.RunningTests()
	outcome, err := w.pipeline.VerifyOpened(ctx, rootRecheck)
	if err != nil {
		return err
	}
	if err := w.report(outcome); err != nil {
		return err
	}

	for {
		next, ok, err := w.collection.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if rootKeepGoing {
			def, err := w.collection.OpenNext(ctx)
			if err != nil {
				return err
			}
			outcome, err := w.pipeline.Verify(ctx, def)
			if err != nil {
				return err
			}
			if err := w.report(outcome); err != nil {
				return err
			}
			continue
		}

		w.printer.NotFinished()
		open, err := prompt.Confirm(prompt.Question(next), os.Stdin, os.Stdout)
		if errors.Is(err, prompt.ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if open {
			def, err := w.collection.OpenNext(ctx)
			if err != nil {
				return err
			}
			w.printer.Opened(def, w.collection.Root())
		}
		return nil
	}
	w.printer.Finished()
	return nil
}

func runOpenCmd(cmd *cobra.Command, _ []string) error {
	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.close()

	chapter := parseSelector(openChapter)
	ex := parseSelector(openExercise)
	def, ok := w.collection.Find(func(d exercise.Definition) bool {
		return chapter.Matches(d.Chapter(), d.ChapterNumber) && ex.Matches(d.Exercise(), d.Number)
	})
	if !ok {
		return fmt.Errorf("there is no exercise matching `--chapter %s --exercise %s`", chapter, ex)
	}
	if err := w.collection.Open(cmd.Context(), def); err != nil {
		return err
	}
	w.printer.Opened(def, w.collection.Root())
	return nil
}

func runCheckCmd(cmd *cobra.Command, _ []string) error {
	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.close()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get the current directory: %w", err)
	}
	def, err := w.collection.FindByDir(cwd)
	if err != nil {
		return err
	}
	outcome, err := w.pipeline.Verify(cmd.Context(), def)
	if err != nil {
		return err
	}
	return w.report(outcome)
}

func runStatusCmd(cmd *cobra.Command, _ []string) error {
	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.close()

	opened, err := w.collection.Opened(cmd.Context())
	if err != nil {
		return err
	}
	entries := statusui.Entries(w.collection.All(), opened)
	if statusPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		for _, line := range statusui.Plain(entries) {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	}
	return statusui.Run(entries)
}

func runWatchCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.close()

	w.printer.RunningTests()
	outcome, err := w.pipeline.VerifyOpened(ctx, rootRecheck)
	if err != nil {
		return err
	}
	// Failures are printed and watching continues.
	_ = w.report(outcome)

	watcher, err := watch.New(w.collection.Root(), watch.WithLogger(w.log))
	if err != nil {
		return err
	}
	defer func() {
		_ = watcher.Close()
	}()
	logErrf("Watching %s for changes. Press Ctrl+C to stop.\n", w.collection.Root())

	return watcher.Run(ctx, func(ctx context.Context, paths []string) error {
		return w.verifyChanged(ctx, paths)
	})
}

// verifyChanged re-runs the opened exercises owning paths, in order.
func (w *workspace) verifyChanged(ctx context.Context, paths []string) error {
	opened, err := w.collection.Opened(ctx)
	if err != nil {
		return err
	}
	var affected []exercise.Definition
	for _, path := range paths {
		def, ok := w.collection.FindByPath(path)
		if !ok || !w.collection.Exists(def) || slices.Contains(affected, def) {
			continue
		}
		if slices.ContainsFunc(opened, func(o store.Opened) bool { return o.Definition == def }) {
			affected = append(affected, def)
		}
	}
	slices.SortFunc(affected, exercise.Compare)

	for _, def := range affected {
		outcome, err := w.pipeline.Verify(ctx, def)
		if err != nil {
			return err
		}
		_ = w.report(outcome)
	}
	return nil
}
