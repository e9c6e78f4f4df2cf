// Package ui renders the messages printed around a verification run.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color modes accepted by --color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ColorEnabled resolves a --color mode for out. In auto mode color is used
// only when out is a terminal and NO_COLOR is unset.
func ColorEnabled(mode string, out *os.File) (bool, error) {
	switch strings.ToLower(mode) {
	case ColorAlways:
		return true, nil
	case ColorNever:
		return false, nil
	case ColorAuto, "":
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false, nil
		}
		return term.IsTerminal(int(out.Fd())), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (want auto, always or never)", mode)
	}
}

// Styles holds the palette used by the printer and the status view.
type Styles struct {
	Info    lipgloss.Style
	Dim     lipgloss.Style
	Next    lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style
}

// NewStyles builds the palette for w. Without color every style renders
// plain text.
func NewStyles(w io.Writer, color bool) Styles {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return Styles{
		Info:    base,
		Dim:     base.Foreground(lipgloss.Color("#8C8C8C")).Faint(true),
		Next:    base.Foreground(lipgloss.Color("#C89A3A")),
		Success: base.Foreground(lipgloss.Color("#52C41A")),
		Failure: base.Foreground(lipgloss.Color("#FF4D4F")),
	}
}
