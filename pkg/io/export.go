package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/orca/pkg/errors"
	"github.com/matzehuels/orca/pkg/tree"
)

type flatTree struct {
	Nodes []node `json:"nodes"`
}

type node struct {
	Token  string `json:"token"`
	Branch int    `json:"branch,omitempty"`
}

// WriteTree encodes a flat tree and its tokens as JSON and writes it to w.
// This format can be re-imported with [ReadTree].
func WriteTree(t *tree.Tree, tokens []string, w io.Writer) error {
	if len(tokens) != t.Len() {
		return errors.New(errors.ErrCodeInvalidInput, "%d tokens for %d nodes", len(tokens), t.Len())
	}
	out := flatTree{Nodes: make([]node, t.Len())}
	for ix, tok := range tokens {
		out.Nodes[ix] = node{Token: tok, Branch: int(t.At(ix))}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportTree writes a flat tree to a JSON file at path.
// This is a convenience wrapper around [WriteTree] for file-based output.
func ExportTree(t *tree.Tree, tokens []string, path string) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTree(t, tokens, f)
}
