package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Palette for command reports
var (
	colorAccepted = lipgloss.Color("#4dca7d")
	colorRejected = lipgloss.Color("#f46251")
	colorLabel    = lipgloss.Color("#4ccbf1")
	colorPath     = lipgloss.Color("#f5c800")
)

// Styles renders report fragments, coloured only on a terminal
type Styles struct {
	enabled  bool
	accepted lipgloss.Style
	rejected lipgloss.Style
	label    lipgloss.Style
	path     lipgloss.Style
}

// NewStyles creates styles for w. Colour is enabled when w is a terminal.
func NewStyles(w io.Writer) *Styles {
	return newStyles(IsTerminal(w))
}

// PlainStyles returns styles that render text unchanged
func PlainStyles() *Styles {
	return newStyles(false)
}

func newStyles(enabled bool) *Styles {
	return &Styles{
		enabled:  enabled,
		accepted: lipgloss.NewStyle().Foreground(colorAccepted).Bold(true),
		rejected: lipgloss.NewStyle().Foreground(colorRejected),
		label:    lipgloss.NewStyle().Foreground(colorLabel),
		path:     lipgloss.NewStyle().Foreground(colorPath),
	}
}

// IsTerminal reports whether w is a terminal file
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (s *Styles) render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}

// Accepted styles an accepted branch
func (s *Styles) Accepted(text string) string { return s.render(s.accepted, text) }

// Rejected styles a rejected branch
func (s *Styles) Rejected(text string) string { return s.render(s.rejected, text) }

// Label styles a field label
func (s *Styles) Label(text string) string { return s.render(s.label, text) }

// Path styles a file path or URL
func (s *Styles) Path(text string) string { return s.render(s.path, text) }

// Field renders "label: value" with the label styled
func (s *Styles) Field(label, value string) string {
	return s.Label(label+":") + " " + value
}
