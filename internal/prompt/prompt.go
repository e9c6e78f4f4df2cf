// Package prompt asks the learner yes/no questions.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// InvalidAnswer is shown when the reply is neither yes nor no.
const InvalidAnswer = "Please answer either yes or no."

// ErrAborted is returned when the learner leaves the prompt without answering.
var ErrAborted = errors.New("prompt aborted")

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))

// ParseBool accepts yes, y, no and n in any case.
func ParseBool(s string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y":
		return true, true
	case "no", "n":
		return false, true
	default:
		return false, false
	}
}

// Model implements the Bubble Tea yes/no dialog.
type Model struct {
	input    textinput.Model
	invalid  bool
	answer   bool
	answered bool
	aborted  bool
}

// NewModel constructs a dialog asking question.
func NewModel(question string) *Model {
	input := textinput.New()
	input.Prompt = question
	input.CharLimit = 16
	input.Focus()
	return &Model{input: input}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.aborted = true
		return m, tea.Quit
	case tea.KeyEnter:
		answer, ok := ParseBool(m.input.Value())
		if !ok {
			m.invalid = true
			m.input.SetValue("")
			return m, nil
		}
		m.answer = answer
		m.answered = true
		return m, tea.Quit
	default:
		m.invalid = false
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.answered || m.aborted {
		return m.input.Prompt + m.input.Value() + "\n"
	}
	view := m.input.View()
	if m.invalid {
		view += "\n" + errorStyle.Render(InvalidAnswer)
	}
	return view + "\n"
}

// Answer reports the parsed reply and whether one was given.
func (m *Model) Answer() (value, ok bool) {
	return m.answer, m.answered
}

// Confirm asks question on the terminal. When in is not a terminal the
// question is asked line by line instead.
func Confirm(question string, in *os.File, out io.Writer) (bool, error) {
	if !term.IsTerminal(int(in.Fd())) {
		return Ask(question, in, out)
	}
	m := NewModel(question)
	program := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out))
	if _, err := program.Run(); err != nil {
		return false, fmt.Errorf("failed to run prompt: %w", err)
	}
	answer, ok := m.Answer()
	if !ok {
		return false, ErrAborted
	}
	return answer, nil
}

// Ask repeats question on out until a line read from in is a valid answer.
func Ask(question string, in io.Reader, out io.Writer) (bool, error) {
	scanner := bufio.NewScanner(in)
	for {
		if _, err := fmt.Fprint(out, question); err != nil {
			return false, fmt.Errorf("failed to write prompt: %w", err)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return false, fmt.Errorf("failed to read answer: %w", err)
			}
			return false, ErrAborted
		}
		if answer, ok := ParseBool(scanner.Text()); ok {
			return answer, nil
		}
		if _, err := fmt.Fprintln(out, InvalidAnswer); err != nil {
			return false, fmt.Errorf("failed to write prompt: %w", err)
		}
	}
}

// Question renders the offer to open def.
func Question(def fmt.Stringer) string {
	return fmt.Sprintf("Do you want to open the next exercise, %s? [y/n] ", def)
}
