package cli

import (
	"bytes"
	"strings"
	"testing"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestStatusLines(t *testing.T) {
	buf := captureStdout(t)

	printSuccess("Rendered %d format(s)", 2)
	printError("no glyph for %q", "🐋")
	printFile("prog.svg")
	printKeyValue("redis", "localhost:6379")

	out := buf.String()
	for _, want := range []string{iconSuccess, "Rendered 2 format(s)", iconError, "prog.svg", "localhost:6379"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStatsView(t *testing.T) {
	tests := []struct {
		s    statsView
		want []string
	}{
		{statsView{nodes: 10, depth: 4, width: 23, height: 5}, []string{"10 nodes", "depth 4", "23×5", "fresh"}},
		{statsView{nodes: 3, depth: 1, width: 4, height: 2, cached: true}, []string{"3 nodes", "cached"}},
	}
	for _, tt := range tests {
		got := tt.s.String()
		for _, w := range tt.want {
			if !strings.Contains(got, w) {
				t.Errorf("statsView.String() = %q, want %q", got, w)
			}
		}
	}
}
