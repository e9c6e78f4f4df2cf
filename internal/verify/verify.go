// Package verify builds and tests exercises and records the outcome.
package verify

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/wr/internal/capture"
	"github.com/verte-zerg/wr/internal/collection"
	"github.com/verte-zerg/wr/internal/config"
	"github.com/verte-zerg/wr/internal/exercise"
	"github.com/verte-zerg/wr/internal/logging"
	"github.com/verte-zerg/wr/internal/model"
)

// Reporter is told how each exercise fared.
type Reporter interface {
	Passed(def exercise.Definition)
	Failed(def exercise.Definition)
	Skipped(def exercise.Definition)
	Closed(def exercise.Definition)
}

type nopReporter struct{}

func (nopReporter) Passed(exercise.Definition)  {}
func (nopReporter) Failed(exercise.Definition)  {}
func (nopReporter) Skipped(exercise.Definition) {}
func (nopReporter) Closed(exercise.Definition)  {}

// Pipeline verifies exercises of one collection, one at a time.
type Pipeline struct {
	collection *collection.Collection
	steps      []model.Verification
	toolchain  Toolchain
	opts       model.Options
	stdout     io.Writer
	stderr     io.Writer
	reporter   Reporter
	log        *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithOutput sets where live process output goes. Defaults to os.Stdout and os.Stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(p *Pipeline) {
		p.stdout = stdout
		p.stderr = stderr
	}
}

// WithReporter sets the reporter notified after each exercise.
func WithReporter(r Reporter) Option {
	return func(p *Pipeline) {
		p.reporter = r
	}
}

// WithToolchain overrides the default cargo toolchain.
func WithToolchain(tc Toolchain) Option {
	return func(p *Pipeline) {
		p.toolchain = tc
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// New returns a pipeline using steps as the collection-wide verification.
func New(c *collection.Collection, steps []model.Verification, opts model.Options, options ...Option) *Pipeline {
	p := &Pipeline{
		collection: c,
		steps:      steps,
		toolchain:  toolchains[DefaultToolchain],
		opts:       opts,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		reporter:   nopReporter{},
	}
	for _, opt := range options {
		opt(p)
	}
	p.log = logging.OrNop(p.log)
	return p
}

// Verify builds and tests def, then records it as solved or unsolved.
func (p *Pipeline) Verify(ctx context.Context, def exercise.Definition) (model.Outcome, error) {
	exerciseCfg, err := p.collection.Config(def)
	if err != nil {
		return model.Outcome{}, err
	}
	steps := ResolveSteps(p.steps, exerciseCfg, p.toolchain, p.opts)
	log := p.log.With(zap.String("run_id", uuid.NewString()), zap.Stringer("exercise", def))

	outcome, err := p.run(p.collection.Dir(def), steps, log)
	if err != nil {
		return model.Outcome{}, err
	}
	if outcome.Success() {
		err = p.collection.MarkSolved(ctx, def)
		p.reporter.Passed(def)
	} else {
		err = p.collection.MarkUnsolved(ctx, def)
		p.reporter.Failed(def)
	}
	if err != nil {
		return model.Outcome{}, err
	}
	return outcome, nil
}

// VerifyOpened verifies every opened exercise in order and stops at the first
// failure. Solved exercises are skipped unless recheck is set; exercises whose
// directory vanished are closed.
func (p *Pipeline) VerifyOpened(ctx context.Context, recheck bool) (model.Outcome, error) {
	opened, err := p.collection.Opened(ctx)
	if err != nil {
		return model.Outcome{}, err
	}
	for _, o := range opened {
		if !p.collection.Exists(o.Definition) {
			if err := p.collection.Drop(ctx, o.Definition); err != nil {
				return model.Outcome{}, err
			}
			p.reporter.Closed(o.Definition)
			continue
		}
		if o.Solved && !recheck {
			p.reporter.Skipped(o.Definition)
			continue
		}
		outcome, err := p.Verify(ctx, o.Definition)
		if err != nil {
			return model.Outcome{}, err
		}
		if !outcome.Success() {
			return outcome, nil
		}
	}
	return model.Outcome{Status: model.StatusSuccess}, nil
}

// ResolveSteps picks the verification steps for one exercise. A non-empty
// exercise list replaces the collection list; if both are empty the
// toolchain's test runner is used.
func ResolveSteps(collectionSteps []model.Verification, exerciseCfg *config.Exercise, tc Toolchain, opts model.Options) []model.Verification {
	if exerciseCfg != nil && len(exerciseCfg.Verification) > 0 {
		return exerciseCfg.Verification
	}
	if len(collectionSteps) > 0 {
		return collectionSteps
	}
	return []model.Verification{tc.Test(opts)}
}

func (p *Pipeline) run(dir string, steps []model.Verification, log *zap.Logger) (model.Outcome, error) {
	if !p.opts.SkipBuild {
		build := p.toolchain.Build(filepath.Join(dir, p.toolchain.Manifest), p.opts)
		var liveOut, liveErr io.Writer
		if p.opts.Verbose {
			liveOut, liveErr = p.stdout, p.stderr
		}
		log.Debug("building", zap.String("command", CommandLine(build)))
		res, err := capture.Run(command(dir, build), liveOut, liveErr)
		if err != nil {
			return model.Outcome{}, err
		}
		if !res.Success() {
			log.Debug("build failed", zap.Int("exit_code", res.ExitCode))
			return model.Failure(CommandLine(build), failureOutput(res)), nil
		}
	}

	for _, step := range steps {
		log.Debug("running verification step", zap.String("command", CommandLine(step)))
		res, err := capture.Run(command(dir, step), p.stdout, p.stderr)
		if err != nil {
			return model.Outcome{}, err
		}
		if !res.Success() {
			log.Debug("verification step failed", zap.Int("exit_code", res.ExitCode))
			return model.Failure(CommandLine(step), failureOutput(res)), nil
		}
	}
	return model.Outcome{Status: model.StatusSuccess}, nil
}

// failureOutput returns stderr then stdout, or a status line when the process
// printed nothing.
func failureOutput(res capture.Result) []byte {
	out := res.Combined()
	if len(out) == 0 {
		out = []byte(fmt.Sprintf("process exited with status %d\n", res.ExitCode))
	}
	return out
}

func command(dir string, step model.Verification) *exec.Cmd {
	cmd := exec.Command(step.Command, step.Args...)
	cmd.Dir = dir
	return cmd
}

// CommandLine renders step the way it was invoked, quoting arguments that
// contain whitespace or quotes.
func CommandLine(step model.Verification) string {
	parts := make([]string, 0, len(step.Args)+1)
	for _, part := range append([]string{step.Command}, step.Args...) {
		if part == "" || strings.ContainsAny(part, " \t\n\"'") {
			part = strconv.Quote(part)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}
