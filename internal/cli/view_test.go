package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/orca/pkg/ast"
	"github.com/matzehuels/orca/pkg/layout"
	"github.com/matzehuels/orca/pkg/seed"
)

func exampleView(t *testing.T) viewModel {
	t.Helper()
	tr, tokens := seed.Grow(ast.Example())
	m := newViewModel("example", tr, tokens, layout.Steps{Mode: layout.IndentContent, Line: 1})
	if m.err != nil {
		t.Fatalf("newViewModel() error: %v", m.err)
	}
	return m
}

func press(m viewModel, keys ...tea.KeyMsg) viewModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(viewModel)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestViewModelLayout(t *testing.T) {
	m := exampleView(t)
	if got := strings.Join(m.lines, "\n") + "\n"; got != exampleText {
		t.Errorf("lines =\n%s\nwant\n%s", got, exampleText)
	}
	if m.extW != 23 || m.extH != 5 {
		t.Errorf("extent = %dx%d, want 23x5", m.extW, m.extH)
	}
	if v := m.View(); !strings.Contains(v, "      let    print") || !strings.Contains(v, "q quit") {
		t.Errorf("View() = %q", v)
	}
}

func TestViewModelSteps(t *testing.T) {
	m := exampleView(t)

	m = press(m, runes("+"))
	if m.steps.Line != 2 || m.extH != 9 {
		t.Errorf("after +: line %d, height %d; want 2, 9", m.steps.Line, m.extH)
	}
	m = press(m, runes("-"), runes("-"), runes("-"))
	if m.steps.Line != 0 {
		t.Errorf("line step = %d, want clamped at 0", m.steps.Line)
	}

	m = press(m, runes("m"))
	if m.steps.Mode != layout.IndentFixed {
		t.Errorf("mode = %q, want fixed", m.steps.Mode)
	}
	m = press(m, runes("]"), runes("]"), runes("["))
	if m.steps.Pad != 1 {
		t.Errorf("pad = %d, want 1", m.steps.Pad)
	}
}

func TestViewModelScroll(t *testing.T) {
	m := exampleView(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.top != 0 {
		t.Errorf("top = %d, want 0 when everything fits", m.top)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 10, Height: 5})
	m = next.(viewModel)
	m = press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyRight})
	if m.top != 2 || m.left != 4 {
		t.Errorf("top, left = %d, %d; want 2, 4", m.top, m.left)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	if m.top != 3 {
		t.Errorf("top = %d, want clamped at 3", m.top)
	}
	m = press(m, runes("g"))
	if m.top != 0 || m.left != 0 {
		t.Errorf("home: top, left = %d, %d", m.top, m.left)
	}

	if _, cmd := m.Update(runes("q")); cmd == nil {
		t.Error("q did not quit")
	}
}

func TestCropLine(t *testing.T) {
	tests := []struct {
		line        string
		left, width int
		want        string
	}{
		{"      let    print", 6, 3, "let"},
		{"abc", 5, 3, ""},
		{"世界x", 2, 3, "界x"},
	}
	for _, tt := range tests {
		if got := cropLine(tt.line, tt.left, tt.width); got != tt.want {
			t.Errorf("cropLine(%q, %d, %d) = %q, want %q", tt.line, tt.left, tt.width, got, tt.want)
		}
	}
}
