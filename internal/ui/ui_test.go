package ui

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/wr/internal/exercise"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Chapter", "Exercise", "Status"}
	rows := [][]string{
		{"01_intro", "00_hello", "solved"},
		{"02_ownership", "00_borrow", "locked"},
	}

	lines := FormatTable(headers, rows, nil)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Chapter      Exercise  Status" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "01_intro     00_hello  solved" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "02_ownership 00_borrow locked" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := FormatTable([]string{"A", "N"}, [][]string{{"🚀", "1"}, {"x", "22"}}, map[int]bool{1: true})
	require.Len(t, lines, 3)
	assert.Equal(t, "A   N", lines[0])
	assert.Equal(t, "🚀  1", lines[1])
	assert.Equal(t, "x  22", lines[2])
}

func TestFormatTableEmpty(t *testing.T) {
	assert.Nil(t, FormatTable(nil, nil, nil))
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "\tone\n\n\ttwo\n", Indent("one\n\ntwo\n", "\t"))
	assert.Equal(t, "", Indent("", "\t"))
}

func TestPrinterWithoutColor(t *testing.T) {
	def, err := exercise.Parse("01_intro", "00_hello")
	require.NoError(t, err)

	var out bytes.Buffer
	p := NewPrinter(&out, false)
	p.Passed(def)
	p.Failed(def)
	p.Skipped(def)

	assert.Equal(t,
		"\t🚀 (01) intro - (00) hello\n"+
			"\t❌ (01) intro - (00) hello\n"+
			"\t⏩ (01) intro - (00) hello (Not rechecked)\n",
		out.String())
}

func TestPrinterFailure(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, false)
	p.Failure("cargo test", []byte("error: boom\nhelp: try again\n"))

	text := out.String()
	assert.Contains(t, text, "Meditate on your approach and return.")
	assert.Contains(t, text, "Failed to run:\n\tcargo test\n")
	assert.Contains(t, text, "Output:\n\terror: boom\n\thelp: try again\n")
	assert.NotContains(t, text, "\x1b[")
}

func TestPrinterOpened(t *testing.T) {
	def, err := exercise.Parse("01_intro", "00_hello")
	require.NoError(t, err)
	root := filepath.Join("ws", "exercises")

	var out bytes.Buffer
	NewPrinter(&out, false).Opened(def, root)
	assert.Contains(t, out.String(), "Ahead of you lies (01) intro - (00) hello")
	assert.Contains(t, out.String(), `Open "`+filepath.Join(root, "01_intro", "00_hello")+`" in your editor`)
}

func TestPrinterFinished(t *testing.T) {
	var out bytes.Buffer
	NewPrinter(&out, false).Finished()
	assert.True(t, strings.Contains(out.String(), "There will be no more tasks."))
}

func TestPrinterWithColor(t *testing.T) {
	def, err := exercise.Parse("01_intro", "00_hello")
	require.NoError(t, err)

	var out bytes.Buffer
	NewPrinter(&out, true).Failed(def)
	assert.Contains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "(01) intro - (00) hello")
}

func TestColorEnabled(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = f.Close()
	})

	on, err := ColorEnabled(ColorAlways, f)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = ColorEnabled(ColorNever, f)
	require.NoError(t, err)
	assert.False(t, on)

	on, err = ColorEnabled(ColorAuto, f)
	require.NoError(t, err)
	assert.False(t, on, "a regular file is not a terminal")

	_, err = ColorEnabled("sometimes", f)
	require.Error(t, err)
}
