// Package config provides repository root discovery.
package config

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// RootEnv overrides repository root discovery when set.
const RootEnv = "WR_ROOT"

// RepositoryRoot returns the directory holding the collection config: $WR_ROOT
// if set, otherwise the top level of the current git repository.
func RepositoryRoot() (string, error) {
	if v := os.Getenv(RootEnv); v != "" {
		return filepath.Abs(v)
	}
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to determine the root path of the current git repository: %w: %s",
			err, bytes.TrimSpace(stderr.Bytes()))
	}
	root := string(bytes.TrimSpace(out))
	if root == "" {
		return "", fmt.Errorf("git reported an empty repository root")
	}
	return root, nil
}
