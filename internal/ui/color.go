// Package ui holds the styles and small renderers for terminal output.
package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Renderer is the lipgloss renderer bound to stdout.
var Renderer = newRenderer(os.Stdout)

func newRenderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if termenv.NewOutput(w).Profile != termenv.Ascii {
		// lipgloss v1 detects TrueColor but does not always apply it
		r.SetColorProfile(termenv.TrueColor)
	}
	return r
}

// Predefined styles for consistent CLI output.
var (
	Green  = Renderer.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	Cyan   = Renderer.NewStyle().Foreground(lipgloss.Color("14"))
	Red    = Renderer.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	Yellow = Renderer.NewStyle().Foreground(lipgloss.Color("11"))
	White  = Renderer.NewStyle().Foreground(lipgloss.Color("15"))
	Dim    = Renderer.NewStyle().Foreground(lipgloss.Color("245"))
)

// Check, Cross and Warn prefix status lines.
var (
	Check = Green.Render("✓")
	Cross = Red.Render("✗")
	Warn  = Yellow.Render("!")
)

// fieldWidth is the label column of Field, in terminal cells.
const fieldWidth = 12

// Field renders a dim, padded label followed by a value.
func Field(label, value string) string {
	return Dim.Width(fieldWidth).Render(label+":") + White.Render(value)
}
