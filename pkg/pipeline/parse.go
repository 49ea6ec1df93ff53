package pipeline

import (
	"strings"

	"github.com/matzehuels/orca/pkg/errors"
	orcaio "github.com/matzehuels/orca/pkg/io"
	"github.com/matzehuels/orca/pkg/seed"
	"github.com/matzehuels/orca/pkg/tree"
)

// Parse reads the input named by opts and germinates its flat tree.
//
// A seed that breaks the germination protocol panics with a structural
// error; see seed.Grow.
func Parse(opts Options) (*tree.Tree, []string, error) {
	t, tokens, err := parseInput(opts)
	if err != nil {
		return nil, nil, err
	}
	if max := opts.MaxNodes; max > 0 && t.Len() > max {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "tree has %d nodes (max %d)", t.Len(), max)
	}
	return t, tokens, nil
}

func parseInput(opts Options) (*tree.Tree, []string, error) {
	switch {
	case opts.Path != "":
		return orcaio.Import(opts.Path)
	case opts.Source != "":
		b, err := orcaio.ReadSource(strings.NewReader(opts.Source))
		if err != nil {
			return nil, nil, err
		}
		t, tokens := seed.Grow(b)
		return t, tokens, nil
	case opts.Seed != nil:
		t, tokens := seed.Grow(opts.Seed)
		return t, tokens, nil
	case opts.Tree != nil:
		if len(opts.Tokens) != opts.Tree.Len() {
			return nil, nil, errors.New(errors.ErrCodeInvalidInput, "%d tokens for %d nodes", len(opts.Tokens), opts.Tree.Len())
		}
		return opts.Tree, opts.Tokens, nil
	default:
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "no input")
	}
}
