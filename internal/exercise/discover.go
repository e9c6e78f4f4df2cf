package exercise

import (
	"fmt"
	"os"
	"path/filepath"
)

// Discover scans root for chapter directories and the exercises inside them.
// Entries whose names do not parse are dropped; unreadable directories are errors.
func Discover(root string) (Set, error) {
	chapters, err := os.ReadDir(root)
	if err != nil {
		return Set{}, fmt.Errorf("failed to read the exercises directory: %w", err)
	}
	var defs []Definition
	for _, chapter := range chapters {
		if !chapter.IsDir() {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(root, chapter.Name()))
		if err != nil {
			return Set{}, fmt.Errorf("failed to read chapter %q: %w", chapter.Name(), err)
		}
		for _, entry := range entries {
			def, err := Parse(chapter.Name(), entry.Name())
			if err != nil {
				continue
			}
			defs = append(defs, def)
		}
	}
	return NewSet(defs...), nil
}
