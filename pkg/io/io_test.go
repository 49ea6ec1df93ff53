package io

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/orca/pkg/ast"
	"github.com/matzehuels/orca/pkg/errors"
	"github.com/matzehuels/orca/pkg/seed"
	"github.com/matzehuels/orca/pkg/tree"
)

func TestReadTree(t *testing.T) {
	in := `{"nodes": [
		{"token": "print", "branch": 1},
		{"token": "+", "branch": 2},
		{"token": "4"},
		{"token": "2"}
	]}`
	tr, tokens, err := ReadTree(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadTree() error: %v", err)
	}
	if want := []tree.Branch{1, 2, 0, 0}; !slices.Equal(tr.Branches(), want) {
		t.Errorf("branches = %v, want %v", tr.Branches(), want)
	}
	if want := []string{"print", "+", "4", "2"}; !slices.Equal(tokens, want) {
		t.Errorf("tokens = %q, want %q", tokens, want)
	}
}

func TestReadTreeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want errors.Code
	}{
		{"malformed", `{"nodes": [`, errors.ErrCodeInvalidFormat},
		{"no nodes", `{"nodes": []}`, errors.ErrCodeEmptyTree},
		{"missing children", `{"nodes": [{"token": "+", "branch": 2}, {"token": "1"}]}`, errors.ErrCodeInvalidInput},
		{"trailing node", `{"nodes": [{"token": "a"}, {"token": "b"}]}`, errors.ErrCodeInvalidInput},
		{"negative", `{"nodes": [{"token": "a", "branch": -1}]}`, errors.ErrCodeInvalidInput},
		{"multiline token", `{"nodes": [{"token": "a\nb"}]}`, errors.ErrCodeInvalidInput},
		{"overflowing counts", `{"nodes": [{"token": "+", "branch": 9223372036854775807}, {"token": "-", "branch": 9223372036854775807}, {"token": "1", "branch": 4}]}`, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadTree(strings.NewReader(tt.in))
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadTree() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTreeRoundTrip(t *testing.T) {
	tr, tokens := seed.Grow(ast.Example())

	var buf bytes.Buffer
	if err := WriteTree(tr, tokens, &buf); err != nil {
		t.Fatalf("WriteTree() error: %v", err)
	}
	got, gotTokens, err := ReadTree(&buf)
	if err != nil {
		t.Fatalf("ReadTree() error: %v", err)
	}
	if !slices.Equal(got.Branches(), tr.Branches()) || !slices.Equal(gotTokens, tokens) {
		t.Errorf("round trip = %v %q, want %v %q", got.Branches(), gotTokens, tr.Branches(), tokens)
	}
}

func TestWriteTreeMismatch(t *testing.T) {
	tr, _ := tree.New([]tree.Branch{0})
	if err := WriteTree(tr, nil, &bytes.Buffer{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("WriteTree() error = %v, want %v", err, errors.ErrCodeInvalidInput)
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.orca")
	if err := os.WriteFile(src, []byte("let a = 1;\nprint(a + 2)\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tr, tokens, err := Import(src)
	if err != nil {
		t.Fatalf("Import(%s) error: %v", src, err)
	}
	if want := []string{"body: ", "let", "a", "1", "print", "+", "a", "2"}; !slices.Equal(tokens, want) {
		t.Errorf("tokens = %q, want %q", tokens, want)
	}

	out := filepath.Join(dir, "tree.JSON")
	if err := ExportTree(tr, tokens, out); err != nil {
		t.Fatalf("ExportTree() error: %v", err)
	}
	tr2, tokens2, err := Import(out)
	if err != nil {
		t.Fatalf("Import(%s) error: %v", out, err)
	}
	if !slices.Equal(tr2.Branches(), tr.Branches()) || !slices.Equal(tokens2, tokens) {
		t.Error("Import(json) differs from the exported tree")
	}
}

func TestImportMissingFile(t *testing.T) {
	_, _, err := Import(filepath.Join(t.TempDir(), "nope.orca"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Import() error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}
}

func TestReadSourceTooLong(t *testing.T) {
	src := "print " + strings.Repeat("1", errors.MaxSourceLength)
	if _, err := ReadSource(strings.NewReader(src)); !errors.Is(err, errors.ErrCodeInvalidSource) {
		t.Errorf("ReadSource() error = %v, want %v", err, errors.ErrCodeInvalidSource)
	}
}

func TestImportExamples(t *testing.T) {
	tests := []struct {
		file  string
		nodes int
	}{
		{"example.orca", 10},
		{"plus.json", 3},
		{"bindings.orca", 0},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			tr, tokens, err := Import(filepath.Join("..", "..", "examples", tt.file))
			if err != nil {
				t.Fatalf("Import() error: %v", err)
			}
			if len(tokens) != tr.Len() {
				t.Errorf("tokens = %d, nodes = %d", len(tokens), tr.Len())
			}
			if tt.nodes > 0 && tr.Len() != tt.nodes {
				t.Errorf("nodes = %d, want %d", tr.Len(), tt.nodes)
			}
		})
	}
}
