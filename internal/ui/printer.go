package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/wr/internal/exercise"
)

// Printer writes the user-facing progress messages. It satisfies the
// verify.Reporter interface.
type Printer struct {
	out    io.Writer
	styles Styles
}

// NewPrinter returns a printer writing to out.
func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{out: out, styles: NewStyles(out, color)}
}

// Passed reports a successful verification.
func (p *Printer) Passed(def exercise.Definition) {
	p.println("\t" + p.styles.Success.Render("🚀 "+def.String()))
}

// Failed reports a failed verification.
func (p *Printer) Failed(def exercise.Definition) {
	p.println("\t" + p.styles.Failure.Render("❌ "+def.String()))
}

// Skipped reports a solved exercise that was not verified again.
func (p *Printer) Skipped(def exercise.Definition) {
	p.println("\t" + p.styles.Info.Render("⏩ "+def.String()+" (Not rechecked)"))
}

// Closed reports an opened exercise whose directory no longer exists.
func (p *Printer) Closed(def exercise.Definition) {
	p.println("\t" + p.styles.Dim.Render("🗑  "+def.String()+" (Directory not found, closed)"))
}

// RunningTests announces the start of a run.
func (p *Printer) RunningTests() {
	p.printf(" \n\n%s\n\n", p.styles.Dim.Render("Running tests..."))
}

// Opened tells the learner where the newly opened exercise lives.
func (p *Printer) Opened(def exercise.Definition, root string) {
	p.printf("\n\t%s %s\n", p.styles.Next.Render("Ahead of you lies"), p.styles.Next.Bold(true).Render(def.String()))
	p.printf("\n\t%s\n\t%s\n",
		p.styles.Next.Render("Open "+strconv.Quote(def.Dir(root))+" in your editor and get started!"),
		p.styles.Next.Render("Run `wr` again to compile the exercise and execute its tests."))
}

// Failure prints the failing command and its captured output.
func (p *Printer) Failure(command string, output []byte) {
	p.printf("\n\t%s\n\nFailed to run:\n\t%s\nOutput:\n%s\n",
		p.styles.Info.Render("Meditate on your approach and return. Mountains are merely mountains."),
		p.styles.Dim.Render(command),
		renderLines(p.styles.Dim, Indent(string(output), "\t")))
}

// NotFinished is printed before offering the next exercise.
func (p *Printer) NotFinished() {
	p.printf("\t%s\n\n", p.styles.Info.Render("Eternity lies ahead of us, and behind. Your path is not yet finished. 🍂"))
}

// Finished is printed once every exercise has been opened and passes.
func (p *Printer) Finished() {
	p.printf("\n\t%s\n\t%s\n\n",
		p.styles.Success.Render("There will be no more tasks."),
		p.styles.Info.Render("What is the sound of one hand clapping (for you)? 🌟"))
}

// Indent prefixes every line that is not blank with prefix.
func Indent(text, prefix string) string {
	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			b.WriteString(prefix)
		}
		b.WriteString(line)
	}
	return b.String()
}

// renderLines styles each line on its own so multi-line text keeps its shape.
func renderLines(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func (p *Printer) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(p.out, format, args...); err != nil {
		// Best-effort output.
		_ = err
	}
}

func (p *Printer) println(line string) {
	p.printf("%s\n", line)
}
