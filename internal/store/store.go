// Package store handles SQLite persistence of exercise progress.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/verte-zerg/wr/internal/exercise"

	_ "modernc.org/sqlite" // SQLite driver.
)

// FileName is the name of the progress database inside the exercises directory.
const FileName = "progress.db"

// ErrCorruptRecord is returned when a stored key no longer parses as an exercise.
var ErrCorruptRecord = errors.New("invalid exercise stored in the progress database")

// Opened is an exercise the learner has started.
type Opened struct {
	Definition exercise.Definition
	Solved     bool
}

// Store wraps SQLite access for progress data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS open_exercises (
			chapter TEXT NOT NULL,
			exercise TEXT NOT NULL,
			solved INTEGER NOT NULL,
			PRIMARY KEY (chapter, exercise)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// CountOpened returns how many exercises have been opened.
func (s *Store) CountOpened(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM open_exercises`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ListOpened returns every opened exercise in ascending order.
func (s *Store) ListOpened(ctx context.Context) ([]Opened, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT chapter, exercise, solved FROM open_exercises`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []Opened
	for rows.Next() {
		var chapter, name string
		var solved int64
		if err := rows.Scan(&chapter, &name, &solved); err != nil {
			return nil, err
		}
		def, err := exercise.Parse(chapter, name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s/%s: %w", ErrCorruptRecord, chapter, name, err)
		}
		result = append(result, Opened{Definition: def, Solved: solved != 0})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slices.SortFunc(result, func(a, b Opened) int {
		return exercise.Compare(a.Definition, b.Definition)
	})
	return result, nil
}

// Open records def as opened. Opening twice keeps the existing solved flag.
func (s *Store) Open(ctx context.Context, def exercise.Definition) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO open_exercises (chapter, exercise, solved) VALUES (?, ?, 0)`,
		def.Chapter(), def.Exercise())
	return err
}

// MarkSolved sets the solved flag. Unknown exercises are ignored.
func (s *Store) MarkSolved(ctx context.Context, def exercise.Definition) error {
	return s.setSolved(ctx, def, true)
}

// MarkUnsolved clears the solved flag. Unknown exercises are ignored.
func (s *Store) MarkUnsolved(ctx context.Context, def exercise.Definition) error {
	return s.setSolved(ctx, def, false)
}

func (s *Store) setSolved(ctx context.Context, def exercise.Definition, solved bool) error {
	value := 0
	if solved {
		value = 1
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE open_exercises SET solved = ? WHERE chapter = ? AND exercise = ?`,
		value, def.Chapter(), def.Exercise())
	return err
}

// Remove deletes the progress row for def, if any.
func (s *Store) Remove(ctx context.Context, def exercise.Definition) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM open_exercises WHERE chapter = ? AND exercise = ?`,
		def.Chapter(), def.Exercise())
	return err
}
