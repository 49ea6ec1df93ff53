package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/orca/pkg/errors"
	orcaio "github.com/matzehuels/orca/pkg/io"
	"github.com/matzehuels/orca/pkg/pipeline"
)

const exampleText = "body:\n" +
	"      let    print\n" +
	"         var1     +\n" +
	"                   4-\n" +
	"                     2x\n"

func TestRenderFormats(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		measure string
		want    []string
	}{
		{"face defaults to png", "", pipeline.MeasureFace, []string{"png"}},
		{"cell defaults to txt", "", pipeline.MeasureCell, []string{"txt"}},
		{"single format", "svg", pipeline.MeasureFace, []string{"svg"}},
		{"multiple formats", "svg, JSON,svg,dot", pipeline.MeasureFace, []string{"svg", "json", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := renderFormats(tt.input, tt.measure)
			if err != nil {
				t.Fatalf("renderFormats(%q) error: %v", tt.input, err)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("renderFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	if _, err := renderFormats("pdf", pipeline.MeasureFace); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("renderFormats(pdf) error = %v, want %v", err, errors.ErrCodeInvalidFormat)
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []string
		want    map[string]string
	}{
		{"derived", "", []string{"png"}, map[string]string{"png": "prog.png"}},
		{"explicit single", "out.bin", []string{"svg"}, map[string]string{"svg": "out.bin"}},
		{"stdout", "-", []string{"txt"}, map[string]string{"txt": "-"}},
		{"base path", "out/tree.svg", []string{"svg", "nodelink"}, map[string]string{"svg": "out/tree.svg", "nodelink": "out/tree.nodelink.svg"}},
		{"nodelink base", "x.nodelink.svg", []string{"txt", "dot"}, map[string]string{"txt": "x.txt", "dot": "x.dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputPaths(tt.output, "prog", tt.formats)
			if err != nil {
				t.Fatalf("outputPaths() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("outputPaths() = %v, want %v", got, tt.want)
			}
			for f, p := range tt.want {
				if got[f] != p {
					t.Errorf("outputPaths()[%s] = %q, want %q", f, got[f], p)
				}
			}
		})
	}

	if _, err := outputPaths("-", "prog", []string{"txt", "json"}); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("multiple formats to stdout error = %v, want %v", err, errors.ErrCodeInvalidPath)
	}
}

func TestInputFlags(t *testing.T) {
	tests := []struct {
		name  string
		flags inputFlags
		args  []string
		check func(pipeline.Options) bool
	}{
		{"file", inputFlags{}, []string{"prog.orca"}, func(o pipeline.Options) bool { return o.Path == "prog.orca" }},
		{"source", inputFlags{source: "print 1"}, nil, func(o pipeline.Options) bool { return o.Source == "print 1" }},
		{"stdin", inputFlags{}, []string{"-"}, func(o pipeline.Options) bool { return o.Source == "print 2" }},
		{"example", inputFlags{example: true}, nil, func(o pipeline.Options) bool { return o.Seed != nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts pipeline.Options
			if err := tt.flags.apply(&opts, tt.args, strings.NewReader("print 2")); err != nil {
				t.Fatalf("apply() error: %v", err)
			}
			if !tt.check(opts) {
				t.Errorf("apply() = %+v", opts)
			}
		})
	}

	var opts pipeline.Options
	if err := (&inputFlags{}).apply(&opts, nil, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("no input error = %v, want %v", err, errors.ErrCodeInvalidInput)
	}
	if err := (&inputFlags{example: true}).apply(&opts, []string{"a.orca"}, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("two inputs error = %v, want %v", err, errors.ErrCodeInvalidInput)
	}
}

// runCLI executes the root command with an isolated config and cache.
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("HOME", dir)

	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.ExecuteContext(context.Background())
}

func TestRenderCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "example.txt")
	err := runCLI(t, "render", "--example", "--measure", "cell", "--line-step", "1", "-o", out)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != exampleText {
		t.Errorf("render txt =\n%s\nwant\n%s", got, exampleText)
	}
}

func TestRenderCommandFormats(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.orca")
	if err := os.WriteFile(src, []byte("let v = 1; print(4 + (2 - v))"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runCLI(t, "render", src, "-f", "svg,json,dot", "--edges"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	for _, name := range []string{"prog.svg", "prog.json", "prog.dot"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestRenderCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"no input", []string{"render"}, errors.ErrCodeInvalidInput},
		{"bad format", []string{"render", "--example", "-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"bad mode", []string{"render", "--example", "--indent-mode", "hanging"}, errors.ErrCodeInvalidConfig},
		{"png from cells", []string{"render", "--example", "--measure", "cell", "-f", "png"}, errors.ErrCodeInvalidConfig},
		{"syntax", []string{"render", "-e", "print ("}, errors.ErrCodeInvalidSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runCLI(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestTreeCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "tree.json")
	if err := runCLI(t, "tree", "--example", "-o", out); err != nil {
		t.Fatalf("tree error: %v", err)
	}
	tr, tokens, err := orcaio.ImportTree(out)
	if err != nil {
		t.Fatalf("ImportTree() error: %v", err)
	}
	if tr.Len() != 10 || tokens[0] != "body: " {
		t.Errorf("tree = %d nodes, root %q; want 10 nodes rooted at body", tr.Len(), tokens[0])
	}
}

func TestFontTable(t *testing.T) {
	got := fontTable("lmmono10")
	for _, want := range []string{"gomono", "Latin Modern Mono", "monospace", "proportional", iconSuccess} {
		if !strings.Contains(got, want) {
			t.Errorf("fontTable() missing %q:\n%s", want, got)
		}
	}
}

func TestPortOf(t *testing.T) {
	tests := map[string]string{":8080": ":8080", "localhost:9000": ":9000", "8080": ":8080"}
	for in, want := range tests {
		if got := portOf(in); got != want {
			t.Errorf("portOf(%q) = %q, want %q", in, got, want)
		}
	}
}
