package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTableContainsCells(t *testing.T) {
	out := Table(
		[]Column{{Title: "Name", Width: 12}, {Title: "Note"}},
		[][]string{{"demo", "work"}, {"other", ""}},
	)
	for _, want := range []string{"Name", "Note", "demo", "work", "other"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestField(t *testing.T) {
	out := Field("Clone", "/x/Antigravity-demo.app")
	if !strings.Contains(out, "Clone:") || !strings.Contains(out, "/x/Antigravity-demo.app") {
		t.Errorf("Field = %q", out)
	}
}

func TestFieldAlignsMultibyteLabels(t *testing.T) {
	ascii := Field("Notize", "v")
	accented := Field("Notizé", "v")
	if lipgloss.Width(ascii) != lipgloss.Width(accented) {
		t.Errorf("widths %d and %d", lipgloss.Width(ascii), lipgloss.Width(accented))
	}
	if w := lipgloss.Width(ascii); w != fieldWidth+1 {
		t.Errorf("width = %d, want %d", w, fieldWidth+1)
	}
}
