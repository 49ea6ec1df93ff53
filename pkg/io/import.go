package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/orca/pkg/ast"
	"github.com/matzehuels/orca/pkg/errors"
	"github.com/matzehuels/orca/pkg/seed"
	"github.com/matzehuels/orca/pkg/tree"
)

// ReadSource reads program text from r and parses it.
// ReadSource does not close r.
func ReadSource(r io.Reader) (*ast.Body, error) {
	data, err := io.ReadAll(io.LimitReader(r, errors.MaxSourceLength+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return ast.Parse(string(data))
}

// ImportSource reads the program file at path and parses it.
func ImportSource(path string) (*ast.Body, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSource(f)
}

// ReadTree decodes a JSON flat tree from r.
//
// ReadTree returns an error if:
//   - The JSON is malformed
//   - There are no nodes
//   - A branch count is negative, or the counts do not partition the nodes
//   - A token is not a single line
//
// ReadTree does not close r.
func ReadTree(r io.Reader) (*tree.Tree, []string, error) {
	var data flatTree
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode tree")
	}

	branches := make([]tree.Branch, len(data.Nodes))
	tokens := make([]string, len(data.Nodes))
	for ix, n := range data.Nodes {
		if err := errors.ValidateToken(n.Token); err != nil {
			return nil, nil, fmt.Errorf("node %d: %w", ix, err)
		}
		branches[ix] = tree.Branch(n.Branch)
		tokens[ix] = n.Token
	}
	if err := tree.Validate(branches); err != nil {
		return nil, nil, err
	}
	t, err := tree.New(branches)
	if err != nil {
		return nil, nil, err
	}
	return t, tokens, nil
}

// ImportTree reads the JSON flat tree file at path.
func ImportTree(path string) (*tree.Tree, []string, error) {
	f, err := open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ReadTree(f)
}

// Import reads path as a flat tree if it ends in ".json" and as program
// text otherwise.
func Import(path string) (*tree.Tree, []string, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ImportTree(path)
	}
	b, err := ImportSource(path)
	if err != nil {
		return nil, nil, err
	}
	t, tokens := seed.Grow(b)
	return t, tokens, nil
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
