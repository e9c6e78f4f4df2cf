package statusui

import (
	"fmt"
	"iter"

	"github.com/verte-zerg/wr/internal/exercise"
	"github.com/verte-zerg/wr/internal/store"
	"github.com/verte-zerg/wr/internal/ui"
)

// State is the progress state of one exercise.
type State int

const (
	StateLocked State = iota
	StateOpen
	StateSolved
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateSolved:
		return "solved"
	default:
		return "locked"
	}
}

// Entry is one row of the status view.
type Entry struct {
	Definition exercise.Definition
	State      State
}

// Entries pairs every discovered exercise with its progress state. Opened
// rows that are no longer on disk are left out.
func Entries(all iter.Seq[exercise.Definition], opened []store.Opened) []Entry {
	states := make(map[exercise.Definition]State, len(opened))
	for _, o := range opened {
		if o.Solved {
			states[o.Definition] = StateSolved
		} else {
			states[o.Definition] = StateOpen
		}
	}
	var entries []Entry
	for def := range all {
		entries = append(entries, Entry{Definition: def, State: states[def]})
	}
	return entries
}

// Summary counts solved, opened (solved included) and total exercises.
func Summary(entries []Entry) (solved, opened, total int) {
	for _, e := range entries {
		switch e.State {
		case StateSolved:
			solved++
			opened++
		case StateOpen:
			opened++
		}
	}
	return solved, opened, len(entries)
}

func summaryLine(entries []Entry) string {
	solved, opened, total := Summary(entries)
	return fmt.Sprintf("%d solved, %d opened, %d exercises", solved, opened, total)
}

// Plain renders entries as a text table followed by a summary line.
func Plain(entries []Entry) []string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Definition.Chapter(), e.Definition.Exercise(), e.State.String()})
	}
	lines := ui.FormatTable([]string{"Chapter", "Exercise", "Status"}, rows, nil)
	return append(lines, "", summaryLine(entries))
}
