package collection

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/wr/internal/exercise"
	"github.com/verte-zerg/wr/internal/store"
)

func newTestCollection(t *testing.T, dirs ...string) *Collection {
	t.Helper()
	root := t.TempDir()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	c, err := Open(root, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = c.Close()
	})
	return c
}

func def(t *testing.T, chapter, name string) exercise.Definition {
	t.Helper()
	d, err := exercise.Parse(chapter, name)
	require.NoError(t, err)
	return d
}

func TestNextFollowsNumericOrder(t *testing.T) {
	c := newTestCollection(t, "01_intro/00_hello", "01_intro/01_world", "02_more/00_again")
	ctx := context.Background()

	next, ok, err := c.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, def(t, "01_intro", "00_hello"), next)

	// Opening out of order does not change which exercise comes next.
	require.NoError(t, c.Open(ctx, def(t, "02_more", "00_again")))
	next, ok, err = c.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, def(t, "01_intro", "00_hello"), next)
}

func TestNextWhenEverythingIsOpen(t *testing.T) {
	c := newTestCollection(t, "01_intro/00_hello", "01_intro/01_world")
	ctx := context.Background()
	for d := range c.All() {
		require.NoError(t, c.Open(ctx, d))
	}
	_, ok, err := c.Next(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.OpenNext(ctx)
	assert.ErrorIs(t, err, ErrNoExercisesLeft)
}

func TestOpenNext(t *testing.T) {
	c := newTestCollection(t, "01_intro/00_hello", "01_intro/01_world")
	ctx := context.Background()

	opened, err := c.OpenNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, def(t, "01_intro", "00_hello"), opened)

	all, err := c.Opened(ctx)
	require.NoError(t, err)
	assert.Equal(t, []store.Opened{{Definition: opened, Solved: false}}, all)

	n, err := c.CountOpened(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpenRejectsUnknownExercise(t *testing.T) {
	c := newTestCollection(t, "01_intro/00_hello")
	ctx := context.Background()

	err := c.Open(ctx, def(t, "01_intro", "05_missing"))
	assert.True(t, errors.Is(err, ErrUnknownExercise))

	// Same numbers, different name: not the exercise on disk.
	err = c.Open(ctx, def(t, "01_intro", "00_renamed"))
	assert.True(t, errors.Is(err, ErrUnknownExercise))
}

func TestOpenKeepsSolvedFlag(t *testing.T) {
	c := newTestCollection(t, "01_intro/00_hello")
	ctx := context.Background()
	hello := def(t, "01_intro", "00_hello")

	require.NoError(t, c.Open(ctx, hello))
	require.NoError(t, c.MarkSolved(ctx, hello))
	require.NoError(t, c.Open(ctx, hello))

	opened, err := c.Opened(ctx)
	require.NoError(t, err)
	require.Len(t, opened, 1)
	assert.True(t, opened[0].Solved)
}

func TestMarkSolvedConverges(t *testing.T) {
	c := newTestCollection(t, "01_intro/00_hello")
	ctx := context.Background()
	hello := def(t, "01_intro", "00_hello")
	require.NoError(t, c.Open(ctx, hello))

	require.NoError(t, c.MarkSolved(ctx, hello))
	require.NoError(t, c.MarkUnsolved(ctx, hello))
	require.NoError(t, c.MarkSolved(ctx, hello))

	opened, err := c.Opened(ctx)
	require.NoError(t, err)
	require.Len(t, opened, 1)
	assert.True(t, opened[0].Solved)
}

func TestAllIncludesUnopened(t *testing.T) {
	c := newTestCollection(t, "02_b/00_x", "01_a/01_y", "01_a/00_z", "03_bad/x_broken")
	require.NoError(t, c.Open(context.Background(), def(t, "01_a", "01_y")))

	got := slices.Collect(c.All())
	assert.Equal(t, []exercise.Definition{
		def(t, "01_a", "00_z"),
		def(t, "01_a", "01_y"),
		def(t, "02_b", "00_x"),
	}, got)
	assert.Equal(t, 3, c.Len())
}

func TestFindByDir(t *testing.T) {
	c := newTestCollection(t, "01_intro/00_hello", "01_intro/01_world")

	found, err := c.FindByDir(filepath.Join(c.Root(), "01_intro", "01_world"))
	require.NoError(t, err)
	assert.Equal(t, def(t, "01_intro", "01_world"), found)

	_, err = c.FindByDir(filepath.Join(c.Root(), "01_intro"))
	assert.ErrorIs(t, err, ErrNotAnExercise)
}

func TestFindByPath(t *testing.T) {
	c := newTestCollection(t, "01_intro/00_hello/src")

	found, ok := c.FindByPath(filepath.Join(c.Root(), "01_intro", "00_hello", "src", "lib.rs"))
	require.True(t, ok)
	assert.Equal(t, def(t, "01_intro", "00_hello"), found)

	_, ok = c.FindByPath(filepath.Join(c.Root(), "progress.db"))
	assert.False(t, ok)
	_, ok = c.FindByPath(filepath.Join(filepath.Dir(c.Root()), "elsewhere", "00_x", "00_y"))
	assert.False(t, ok)
}

func TestDropAndExists(t *testing.T) {
	c := newTestCollection(t, "01_intro/00_hello")
	ctx := context.Background()
	hello := def(t, "01_intro", "00_hello")
	require.NoError(t, c.Open(ctx, hello))
	assert.True(t, c.Exists(hello))

	require.NoError(t, os.RemoveAll(c.Dir(hello)))
	assert.False(t, c.Exists(hello))

	require.NoError(t, c.Drop(ctx, hello))
	n, err := c.CountOpened(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestConfig(t *testing.T) {
	c := newTestCollection(t, "01_intro/00_hello")
	hello := def(t, "01_intro", "00_hello")

	cfg, err := c.Config(hello)
	require.NoError(t, err)
	assert.Nil(t, cfg)

	body := "[[verification]]\ncommand = \"true\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(c.Dir(hello), ".wr.toml"), []byte(body), 0o644))
	cfg, err = c.Config(hello)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.Len(t, cfg.Verification, 1)
	assert.Equal(t, "true", cfg.Verification[0].Command)
}

func TestProgressSurvivesReopen(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "01_intro", "00_hello"), 0o755))
	ctx := context.Background()

	first, err := Open(root, nil)
	require.NoError(t, err)
	_, err = first.OpenNext(ctx)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(root, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = second.Close()
	})
	n, err := second.CountOpened(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	// Discovery must ignore the progress database sitting in the root.
	assert.Equal(t, 1, second.Len())
}
