// Package style colours terminal output. Colour is only applied when the
// destination is an interactive terminal.
package style

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Palette renders the handful of colours the build output uses. The zero
// value renders plain text.
type Palette struct {
	enabled   bool
	red       lipgloss.Style
	yellow    lipgloss.Style
	green     lipgloss.Style
	cyan      lipgloss.Style
	dim       lipgloss.Style
	underline lipgloss.Style
}

// IsInteractive reports whether w is a terminal.
func IsInteractive(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// For returns a palette for w, coloured only when w is a terminal.
func For(w io.Writer) Palette {
	if !IsInteractive(w) {
		return Palette{}
	}
	r := lipgloss.NewRenderer(w)
	return Palette{
		enabled:   true,
		red:       r.NewStyle().Foreground(lipgloss.Color("1")),
		yellow:    r.NewStyle().Foreground(lipgloss.Color("3")),
		green:     r.NewStyle().Foreground(lipgloss.Color("2")),
		cyan:      r.NewStyle().Foreground(lipgloss.Color("6")),
		dim:       r.NewStyle().Faint(true),
		underline: r.NewStyle().Underline(true),
	}
}

// Plain returns a palette that never colours.
func Plain() Palette { return Palette{} }

// Enabled reports whether colours are applied.
func (p Palette) Enabled() bool { return p.enabled }

func (p Palette) render(s lipgloss.Style, text string) string {
	if !p.enabled {
		return text
	}
	return s.Render(text)
}

func (p Palette) Red(s string) string       { return p.render(p.red, s) }
func (p Palette) Yellow(s string) string    { return p.render(p.yellow, s) }
func (p Palette) Green(s string) string     { return p.render(p.green, s) }
func (p Palette) Cyan(s string) string      { return p.render(p.cyan, s) }
func (p Palette) Dim(s string) string       { return p.render(p.dim, s) }
func (p Palette) Underline(s string) string { return p.render(p.underline, s) }
