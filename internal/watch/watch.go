// Package watch reports settled file changes under an exercises directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/verte-zerg/wr/internal/logging"
	"github.com/verte-zerg/wr/internal/store"
)

const (
	defaultDebounce = 300 * time.Millisecond
	tickInterval    = 50 * time.Millisecond
)

// Watcher watches a directory tree and batches the paths that changed.
type Watcher struct {
	root     string
	watcher  *fsnotify.Watcher
	pending  map[string]time.Time
	debounce time.Duration
	log      *zap.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a path must stay quiet before it is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *zap.Logger) Option {
	return func(w *Watcher) {
		w.log = log
	}
}

// New starts watching every directory under root. Build output and hidden
// directories are not watched.
func New(root string, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	w := &Watcher{
		root:     root,
		watcher:  fw,
		pending:  make(map[string]time.Time),
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = logging.OrNop(w.log)
	if err := w.addTree(root); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run blocks until ctx is done, calling onChange with the sorted paths that
// changed once they have been quiet for the debounce window. An error from
// onChange stops the loop and is returned.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, paths []string) error) error {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		case now := <-ticker.C:
			paths := w.settled(now)
			if len(paths) == 0 {
				continue
			}
			if err := onChange(ctx, paths); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if w.ignored(event.Name) {
		return
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.log.Warn("failed to watch new directory", zap.String("path", event.Name), zap.Error(err))
			}
		}
	}
	w.log.Debug("change", zap.String("op", event.Op.String()), zap.String("path", event.Name))
	w.pending[event.Name] = time.Now()
}

func (w *Watcher) settled(now time.Time) []string {
	var paths []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			paths = append(paths, path)
			delete(w.pending, path)
		}
	}
	slices.Sort(paths)
	return paths
}

func (w *Watcher) addTree(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path != dir {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return nil
}

// ignored reports whether a change to path is noise: the progress database,
// build output, hidden directories and editor backups.
func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return true
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for _, dir := range parts[:len(parts)-1] {
		if skipDir(dir) {
			return true
		}
	}
	base := parts[len(parts)-1]
	return base == "target" ||
		strings.HasPrefix(base, store.FileName) ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp")
}

func skipDir(name string) bool {
	return name == "target" || strings.HasPrefix(name, ".")
}
