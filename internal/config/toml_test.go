package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/wr/internal/model"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))
}

func TestLoadCollectionDefaults(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "")

	cfg, err := LoadCollection(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "exercises"), cfg.ExercisesDir)
	assert.Nil(t, cfg.SkipBuild)
	assert.Empty(t, cfg.Verification)
}

func TestLoadCollectionFull(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
exercises_dir = "workshop"
skip_build = true
toolchain = "go"

[[verification]]
command = "make"
args = ["check", "-s"]

[[verification]]
command = "true"
`)

	cfg, err := LoadCollection(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "workshop"), cfg.ExercisesDir)
	require.NotNil(t, cfg.SkipBuild)
	assert.True(t, *cfg.SkipBuild)
	assert.Equal(t, "go", cfg.Toolchain)
	assert.Equal(t, []model.Verification{
		{Command: "make", Args: []string{"check", "-s"}},
		{Command: "true"},
	}, cfg.Verification)
}

func TestLoadCollectionAbsoluteDir(t *testing.T) {
	root := t.TempDir()
	abs := filepath.Join(t.TempDir(), "elsewhere")
	writeConfig(t, root, "exercises_dir = \""+filepath.ToSlash(abs)+"\"\n")

	cfg, err := LoadCollection(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(abs), filepath.Clean(cfg.ExercisesDir))
}

func TestLoadCollectionMissing(t *testing.T) {
	_, err := LoadCollection(t.TempDir())
	require.Error(t, err)
}

func TestLoadCollectionRejectsEmptyCommand(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[[verification]]\nargs = [\"x\"]\n")
	_, err := LoadCollection(root)
	require.Error(t, err)
}

func TestLoadCollectionMalformed(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "exercises_dir = [")
	_, err := LoadCollection(root)
	require.Error(t, err)
}

func TestLoadExercise(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadExercise(dir)
	require.NoError(t, err)
	assert.Nil(t, cfg)

	writeConfig(t, dir, "[[verification]]\ncommand = \"cargo\"\nargs = [\"run\"]\n")
	cfg, err = LoadExercise(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, []model.Verification{{Command: "cargo", Args: []string{"run"}}}, cfg.Verification)
}

func TestRepositoryRootFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(RootEnv, dir)
	root, err := RepositoryRoot()
	require.NoError(t, err)
	assert.Equal(t, dir, root)
}
