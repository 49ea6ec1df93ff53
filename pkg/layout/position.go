package layout

import (
	"github.com/matzehuels/orca/pkg/errors"
	"github.com/matzehuels/orca/pkg/tree"
)

// frame is one open level of the tree: where its next node goes and how many
// nodes it still expects.
type frame struct {
	cursor    Pos
	remaining int
}

// ComputePositions assigns every node its absolute origin in one preorder
// pass. It panics with a structural error if the branch counts disagree with
// the tree's length.
func ComputePositions(t *tree.Tree, fits []Fit, bounds []Bound, steps Steps) []Pos {
	return assign(t, fits, bounds, steps, nil)
}

// assign is ComputePositions with a hook that sees the stack depth after
// each node is placed.
func assign(t *tree.Tree, fits []Fit, bounds []Bound, steps Steps, observe func(depth int)) []Pos {
	n := t.Len()
	if len(fits) < n || len(bounds) < n {
		panic(errors.Structural("%d fits and %d bounds for %d nodes", len(fits), len(bounds), n))
	}

	pos := make([]Pos, n)
	stack := []frame{{cursor: Pos{}, remaining: 1}}
	for ix := range n {
		if len(stack) == 0 {
			panic(errors.Structural("tree complete after %d of %d nodes", ix, n))
		}
		top := &stack[len(stack)-1]
		at := top.cursor
		pos[ix] = at

		top.cursor.X += bounds[ix].W
		top.remaining--
		if top.remaining == 0 {
			stack = stack[:len(stack)-1]
		}

		if b := int(t.At(ix)); b > 0 {
			stack = append(stack, frame{
				cursor:    Pos{X: at.X + steps.Indent(fits[ix]), Y: at.Y + steps.Line},
				remaining: b,
			})
		}
		if observe != nil {
			observe(len(stack))
		}
	}
	if len(stack) != 0 {
		panic(errors.Structural("tree ended after %d nodes with %d open levels", n, len(stack)))
	}
	return pos
}
