package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/orca/pkg/cache"
	"github.com/matzehuels/orca/pkg/errors"
	"github.com/matzehuels/orca/pkg/layout"
	"github.com/matzehuels/orca/pkg/press/cell"
	"github.com/matzehuels/orca/pkg/tree"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout measures tokens with m and computes the layout of t.
func GenerateLayout(t *tree.Tree, tokens []string, m layout.Measurer, opts Options) (*layout.Layout, error) {
	return layout.Compute(t, tokens, m, opts.Steps)
}

// cellLayout returns l when it was measured in cells, and a fresh cell
// layout of the same tree otherwise.
func cellLayout(l *layout.Layout, opts Options) (*layout.Layout, error) {
	if opts.Measure == MeasureCell {
		return l, nil
	}
	return layout.Compute(l.Tree, l.Tokens, cell.Press{}, l.Steps)
}

// =============================================================================
// Serialization
// =============================================================================

// layoutRecord is the cached form of a layout. The tree and tokens are
// part of the cache key and are not stored again.
type layoutRecord struct {
	Fits      []layout.Fit   `json:"fits"`
	Bounds    []layout.Bound `json:"bounds"`
	Positions []layout.Pos   `json:"positions"`
}

// marshalLayout serializes the computed parts of l.
func marshalLayout(l *layout.Layout) ([]byte, error) {
	return json.Marshal(layoutRecord{Fits: l.Fits, Bounds: l.Bounds, Positions: l.Positions})
}

// unmarshalLayout rebuilds a layout of t from a cached record.
func unmarshalLayout(data []byte, t *tree.Tree, tokens []string, steps layout.Steps) (*layout.Layout, error) {
	var rec layoutRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode cached layout")
	}
	n := t.Len()
	if len(rec.Fits) != n || len(rec.Bounds) != n || len(rec.Positions) != n {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "cached layout has %d/%d/%d entries for %d nodes",
			len(rec.Fits), len(rec.Bounds), len(rec.Positions), n)
	}
	return &layout.Layout{
		Tree:      t,
		Tokens:    tokens,
		Fits:      rec.Fits,
		Bounds:    rec.Bounds,
		Positions: rec.Positions,
		Steps:     steps,
	}, nil
}

// treeHash hashes the flat tree with its tokens.
func treeHash(t *tree.Tree, tokens []string) string {
	data, _ := json.Marshal(struct {
		Branches []tree.Branch `json:"branches"`
		Tokens   []string      `json:"tokens"`
	}{t.Branches(), tokens})
	return cache.Hash(data)
}
