// Package statusui provides the Bubble Tea progress browser.
package statusui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea status UI.
type Model struct {
	entries []Entry
	table   table.Model

	width  int
	height int
}

// NewModel constructs a status UI over entries. The cursor starts on the
// latest opened exercise.
func NewModel(entries []Entry) *Model {
	t := table.New(
		table.WithColumns(columns(0)),
		table.WithRows(rows(entries)),
		table.WithHeight(maxInt(1, len(entries))),
		table.WithFocused(true),
	)
	t.SetStyles(tableStyles())
	for i, e := range entries {
		if e.State != StateLocked {
			t.SetCursor(i)
		}
	}
	return &Model{entries: entries, table: t}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columns(msg.Width))
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(maxInt(1, msg.Height-4))
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "g", "home":
			m.table.GotoTop()
			return m, nil
		case "G", "end":
			m.table.GotoBottom()
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	header := headerStyle.Render(summaryLine(m.entries))
	footer := footerStyle.Render("↑/↓ move • g/G top/bottom • q quit")
	return strings.Join([]string{header, "", m.table.View(), footer}, "\n")
}

// Selected returns the entry under the cursor.
func (m *Model) Selected() (Entry, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.entries) {
		return Entry{}, false
	}
	return m.entries[i], true
}

// Run shows the status UI until the learner quits.
func Run(entries []Entry) error {
	program := tea.NewProgram(NewModel(entries), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run status TUI: %w", err)
	}
	return nil
}

func columns(width int) []table.Column {
	chapter, exercise, status := 24, 28, 8
	if extra := width - chapter - exercise - status - 6; width > 0 && extra > 0 {
		chapter += extra / 2
		exercise += extra - extra/2
	}
	return []table.Column{
		{Title: "Chapter", Width: chapter},
		{Title: "Exercise", Width: exercise},
		{Title: "Status", Width: status},
	}
}

func rows(entries []Entry) []table.Row {
	out := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		out = append(out, table.Row{
			e.Definition.Chapter(),
			e.Definition.Exercise(),
			e.State.String(),
		})
	}
	return out
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
