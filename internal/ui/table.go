package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Column is one table column. Width is in terminal cells; zero means fit
// to content.
type Column struct {
	Title string
	Width int
}

// Table renders rows under the given columns with a rounded border.
func Table(cols []Column, rows [][]string) string {
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Title
	}

	header := Renderer.NewStyle().Foreground(lipgloss.Color("14")).Bold(true).Padding(0, 1)
	cell := Renderer.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Dim).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := cell
			if row == table.HeaderRow {
				s = header
			}
			if col < len(cols) && cols[col].Width > 0 {
				s = s.Width(cols[col].Width).MaxWidth(cols[col].Width)
			}
			return s
		})
	return t.Render()
}
