// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/wr/internal/model"
)

// FileName is the configuration file name, both at the repository root and
// inside exercise directories.
const FileName = ".wr.toml"

const defaultExercisesDir = "exercises"

// Collection is the configuration for a whole collection of exercises.
type Collection struct {
	ExercisesDir string               `toml:"exercises_dir"`
	SkipBuild    *bool                `toml:"skip_build"`
	Toolchain    string               `toml:"toolchain"`
	Verification []model.Verification `toml:"verification"`
}

// Exercise is the optional configuration for a single exercise.
type Exercise struct {
	Verification []model.Verification `toml:"verification"`
}

// LoadCollection reads the collection config from root. ExercisesDir is
// returned as an absolute path, resolved against root when relative.
func LoadCollection(root string) (Collection, error) {
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Collection{}, fmt.Errorf("no %s found at the repository root %s", FileName, root)
		}
		return Collection{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg Collection
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Collection{}, fmt.Errorf("failed to decode config at %s: %w", path, err)
	}
	if cfg.ExercisesDir == "" {
		cfg.ExercisesDir = defaultExercisesDir
	}
	if !filepath.IsAbs(cfg.ExercisesDir) {
		cfg.ExercisesDir = filepath.Join(root, cfg.ExercisesDir)
	}
	if err := validateSteps(cfg.Verification); err != nil {
		return Collection{}, fmt.Errorf("invalid config at %s: %w", path, err)
	}
	return cfg, nil
}

// LoadExercise reads the per-exercise config from dir. A missing file is not
// an error and yields nil.
func LoadExercise(dir string) (*Exercise, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat exercise config: %w", err)
	}
	var cfg Exercise
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode exercise config at %s: %w", path, err)
	}
	if err := validateSteps(cfg.Verification); err != nil {
		return nil, fmt.Errorf("invalid exercise config at %s: %w", path, err)
	}
	return &cfg, nil
}

func validateSteps(steps []model.Verification) error {
	for i, step := range steps {
		if step.Command == "" {
			return fmt.Errorf("verification step %d has an empty command", i+1)
		}
	}
	return nil
}
