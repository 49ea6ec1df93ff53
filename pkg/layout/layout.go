package layout

import (
	"fmt"

	"github.com/matzehuels/orca/pkg/errors"
	"github.com/matzehuels/orca/pkg/seed"
	"github.com/matzehuels/orca/pkg/tree"
)

// Fit is a node's own content footprint.
type Fit struct {
	W, H int
}

// Bound is the footprint of a whole subtree.
type Bound struct {
	W, H int
}

// Pos is the absolute origin of a node.
type Pos struct {
	X, Y int
}

func (p Pos) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Measurer reports the own footprint of a token.
type Measurer interface {
	Measure(token string) (Fit, error)
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(token string) (Fit, error)

func (f MeasurerFunc) Measure(token string) (Fit, error) { return f(token) }

// Drawer blits a token onto a surface of type S.
type Drawer[S any] interface {
	Blit(token string, at Pos, dst S) error
}

// Layout is the result of measuring and placing one tree.
type Layout struct {
	Tree      *tree.Tree
	Tokens    []string
	Fits      []Fit
	Bounds    []Bound
	Positions []Pos
	Steps     Steps
}

// Len returns the number of nodes.
func (l *Layout) Len() int { return len(l.Tokens) }

// Root returns the bound of the whole tree.
func (l *Layout) Root() Bound { return l.Bounds[0] }

// Extent returns the smallest width and height that contain every node's
// own footprint at its position. Extent can exceed Root when the line step
// pushes children below the root's bound.
func (l *Layout) Extent() (w, h int) {
	for ix, p := range l.Positions {
		w = max(w, p.X+l.Fits[ix].W)
		h = max(h, p.Y+l.Fits[ix].H)
	}
	return w, h
}

// Compute measures every token and places every node.
// tokens must be index-aligned with t; a length mismatch is a structural
// panic. Measurement failures are returned as errors.ErrCodeRender.
func Compute(t *tree.Tree, tokens []string, m Measurer, steps Steps) (*Layout, error) {
	if len(tokens) != t.Len() {
		panic(errors.Structural("%d tokens for %d nodes", len(tokens), t.Len()))
	}
	fits, err := MeasureFits(tokens, m)
	if err != nil {
		return nil, err
	}
	bounds := ComputeBounds(t, fits)
	return &Layout{
		Tree:      t,
		Tokens:    tokens,
		Fits:      fits,
		Bounds:    bounds,
		Positions: ComputePositions(t, fits, bounds, steps),
		Steps:     steps,
	}, nil
}

// FromSeed germinates s and computes its layout.
func FromSeed(s seed.Seed, m Measurer, steps Steps) (*Layout, error) {
	t, tokens := seed.Grow(s)
	return Compute(t, tokens, m, steps)
}

// MeasureFits asks m for every token's Fit, once each, in index order.
func MeasureFits(tokens []string, m Measurer) ([]Fit, error) {
	fits := make([]Fit, len(tokens))
	for ix, tok := range tokens {
		if err := errors.ValidateToken(tok); err != nil {
			return nil, err
		}
		f, err := m.Measure(tok)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "measure node %d (%q)", ix, tok)
		}
		if f.W < 0 || f.H < 0 {
			return nil, errors.New(errors.ErrCodeRender, "measure node %d (%q): negative fit %dx%d", ix, tok, f.W, f.H)
		}
		fits[ix] = f
	}
	return fits, nil
}

// ComputeBounds folds fits bottom-up into subtree bounds.
func ComputeBounds(t *tree.Tree, fits []Fit) []Bound {
	if len(fits) < t.Len() {
		panic(errors.Structural("%d fits for %d nodes", len(fits), t.Len()))
	}
	bounds := make([]Bound, t.Len())
	tree.FlowUp(t, func(ix int, kids []Bound) Bound {
		b := Bound(fits[ix])
		for _, k := range kids {
			b.W += k.W
			b.H = max(b.H, k.H)
		}
		bounds[ix] = b
		return b
	})
	return bounds
}

// Draw blits every token at its position, once per node, in index order.
// The first failure aborts the pass and is returned as errors.ErrCodeRender.
func Draw[S any](l *Layout, d Drawer[S], dst S) error {
	for ix, tok := range l.Tokens {
		if err := d.Blit(tok, l.Positions[ix], dst); err != nil {
			return errors.Wrap(errors.ErrCodeRender, err, "draw node %d (%q)", ix, tok)
		}
	}
	return nil
}
