package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// Renderer turns page markdown into terminal output.
type Renderer func(markdown string) (string, error)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRenderer returns a glamour renderer sized to the terminal behind f.
// When f is not a terminal, or plain is set, markdown is returned unchanged.
func NewRenderer(f *os.File, plain bool) Renderer {
	if plain || !IsTerminal(f) {
		return PlainRenderer
	}

	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return PlainRenderer
	}
	return r.Render
}

// PlainRenderer returns the markdown as is.
func PlainRenderer(markdown string) (string, error) {
	return markdown, nil
}
