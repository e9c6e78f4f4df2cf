// Package collection ties exercise discovery to persisted progress.
package collection

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/verte-zerg/wr/internal/config"
	"github.com/verte-zerg/wr/internal/exercise"
	"github.com/verte-zerg/wr/internal/logging"
	"github.com/verte-zerg/wr/internal/store"
)

var (
	// ErrUnknownExercise is returned when opening an exercise that is not on disk.
	ErrUnknownExercise = errors.New("the exercise you are trying to open doesn't exist")
	// ErrNoExercisesLeft is returned by OpenNext when every exercise is open.
	ErrNoExercisesLeft = errors.New("there are no more exercises to open")
	// ErrNotAnExercise is returned when a directory does not belong to an exercise.
	ErrNotAnExercise = errors.New("the directory is not an exercise")
	// ErrInternal marks states that earlier checks should have ruled out.
	ErrInternal = errors.New("internal error")
)

// Collection is the set of exercises under one root, plus their progress.
type Collection struct {
	root      string
	exercises exercise.Set
	store     *store.Store
	log       *zap.Logger
}

// Open discovers the exercises under root and opens the progress database
// stored next to them.
func Open(root string, log *zap.Logger) (*Collection, error) {
	log = logging.OrNop(log)
	exercises, err := exercise.Discover(root)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(filepath.Join(root, store.FileName))
	if err != nil {
		return nil, fmt.Errorf("failed to open the progress database: %w", err)
	}
	log.Debug("collection loaded", zap.String("root", root), zap.Int("exercises", exercises.Len()))
	return &Collection{root: root, exercises: exercises, store: st, log: log}, nil
}

// Close closes the progress database.
func (c *Collection) Close() error {
	return c.store.Close()
}

// Root returns the directory containing every chapter.
func (c *Collection) Root() string {
	return c.root
}

// Dir returns the directory of def.
func (c *Collection) Dir(def exercise.Definition) string {
	return def.Dir(c.root)
}

// Exists reports whether def's directory is still on disk.
func (c *Collection) Exists(def exercise.Definition) bool {
	_, err := os.Stat(c.Dir(def))
	return err == nil
}

// Config returns the per-exercise configuration of def, or nil.
func (c *Collection) Config(def exercise.Definition) (*config.Exercise, error) {
	cfg, err := config.LoadExercise(c.Dir(def))
	if err != nil {
		return nil, fmt.Errorf("failed to load the configuration for the exercise %s: %w", def.Exercise(), err)
	}
	return cfg, nil
}

// All yields every discovered exercise in order, opened or not.
func (c *Collection) All() iter.Seq[exercise.Definition] {
	return c.exercises.All()
}

// Len returns the number of discovered exercises.
func (c *Collection) Len() int {
	return c.exercises.Len()
}

// Find returns the first exercise accepted by match.
func (c *Collection) Find(match func(exercise.Definition) bool) (exercise.Definition, bool) {
	return c.exercises.Find(match)
}

// CountOpened returns how many exercises have been opened.
func (c *Collection) CountOpened(ctx context.Context) (int, error) {
	n, err := c.store.CountOpened(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to determine how many exercises have been opened: %w", err)
	}
	return n, nil
}

// Opened returns every opened exercise in order.
func (c *Collection) Opened(ctx context.Context) ([]store.Opened, error) {
	opened, err := c.store.ListOpened(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve the exercises you have already started: %w", err)
	}
	return opened, nil
}

// Next returns the first exercise, in order, that has not been opened yet.
func (c *Collection) Next(ctx context.Context) (exercise.Definition, bool, error) {
	opened, err := c.Opened(ctx)
	if err != nil {
		return exercise.Definition{}, false, err
	}
	defs := make([]exercise.Definition, len(opened))
	for i, o := range opened {
		defs[i] = o.Definition
	}
	next, ok := c.exercises.Difference(exercise.NewSet(defs...)).Min()
	return next, ok, nil
}

// Open records def as opened. It fails if def was not discovered on disk.
func (c *Collection) Open(ctx context.Context, def exercise.Definition) error {
	if !c.exercises.Contains(def) {
		return fmt.Errorf("%w: %s", ErrUnknownExercise, def)
	}
	if err := c.store.Open(ctx, def); err != nil {
		return fmt.Errorf("failed to open %s: %w", def, err)
	}
	c.log.Debug("exercise opened", zap.Stringer("exercise", def))
	return nil
}

// OpenNext opens and returns the next exercise in order.
func (c *Collection) OpenNext(ctx context.Context) (exercise.Definition, error) {
	next, ok, err := c.Next(ctx)
	if err != nil {
		return exercise.Definition{}, err
	}
	if !ok {
		return exercise.Definition{}, ErrNoExercisesLeft
	}
	if err := c.Open(ctx, next); err != nil {
		if errors.Is(err, ErrUnknownExercise) {
			return exercise.Definition{}, fmt.Errorf("%w: next exercise %s is not in the collection", ErrInternal, next)
		}
		return exercise.Definition{}, err
	}
	return next, nil
}

// MarkSolved records a passing verification for def.
func (c *Collection) MarkSolved(ctx context.Context, def exercise.Definition) error {
	if err := c.store.MarkSolved(ctx, def); err != nil {
		return fmt.Errorf("failed to mark %s as solved: %w", def, err)
	}
	return nil
}

// MarkUnsolved records a failing verification for def.
func (c *Collection) MarkUnsolved(ctx context.Context, def exercise.Definition) error {
	if err := c.store.MarkUnsolved(ctx, def); err != nil {
		return fmt.Errorf("failed to mark %s as unsolved: %w", def, err)
	}
	return nil
}

// Drop forgets the progress of def, used when its directory disappears.
func (c *Collection) Drop(ctx context.Context, def exercise.Definition) error {
	if err := c.store.Remove(ctx, def); err != nil {
		return fmt.Errorf("failed to close %s: %w", def, err)
	}
	c.log.Info("exercise closed", zap.Stringer("exercise", def))
	return nil
}

// FindByDir returns the exercise whose directory is dir.
func (c *Collection) FindByDir(dir string) (exercise.Definition, error) {
	target, err := canonicalPath(dir)
	if err != nil {
		return exercise.Definition{}, err
	}
	def, ok := c.exercises.Find(func(def exercise.Definition) bool {
		path, err := canonicalPath(c.Dir(def))
		return err == nil && path == target
	})
	if !ok {
		return exercise.Definition{}, fmt.Errorf("%w: %s", ErrNotAnExercise, dir)
	}
	return def, nil
}

// FindByPath returns the exercise whose directory contains path.
func (c *Collection) FindByPath(path string) (exercise.Definition, bool) {
	rel, err := filepath.Rel(c.root, path)
	if err != nil {
		return exercise.Definition{}, false
	}
	parts := splitPath(rel)
	if len(parts) < 2 {
		return exercise.Definition{}, false
	}
	def, err := exercise.Parse(parts[0], parts[1])
	if err != nil || !c.exercises.Contains(def) {
		return exercise.Definition{}, false
	}
	return def, true
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

func splitPath(rel string) []string {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) > 0 && parts[0] == ".." {
		return nil
	}
	return parts
}
