package tree

import (
	"slices"

	"github.com/matzehuels/orca/pkg/errors"
)

// Branch is the number of direct children of one node.
type Branch int

// Tree is an immutable preorder sequence of branch counts.
type Tree struct {
	branches []Branch
}

// New copies branches into a Tree.
// It fails with errors.ErrCodeEmptyTree for an empty sequence and with
// errors.ErrCodeInvalidInput for a negative count. The shape itself is
// checked lazily by the traversals.
func New(branches []Branch) (*Tree, error) {
	if len(branches) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyTree, "tree must have a root")
	}
	for ix, b := range branches {
		if b < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "negative branch count %d at node %d", b, ix)
		}
	}
	return &Tree{branches: slices.Clone(branches)}, nil
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.branches) }

// At returns the branch count of node ix.
func (t *Tree) At(ix int) Branch { return t.branches[ix] }

// Branches returns a copy of the preorder sequence.
func (t *Tree) Branches() []Branch { return slices.Clone(t.branches) }

// Depth returns the number of levels, counting the root as 1.
func (t *Tree) Depth() int {
	return FlowUp(t, func(_ int, kids []int) int {
		d := 0
		for _, k := range kids {
			d = max(d, k)
		}
		return d + 1
	})
}

// FlowUp performs one depth-first pass and returns the root's result.
//
// f is called once per node, in post-order. Leaves receive an empty slice;
// internal nodes receive their children's results in germination order. The
// slice passed to f is only valid for the duration of the call.
//
// FlowUp panics with a structural error if the branch counts ask for more
// nodes than the tree holds, or if the root's subtree ends before the last
// node.
func FlowUp[R any](t *Tree, f func(ix int, children []R) R) R {
	type frame struct {
		ix      int
		want    int
		results []R
	}

	n := len(t.branches)
	var stack []frame
	owed := 0 // nodes still claimed by open frames
	for ix := 0; ; {
		if ix >= n {
			panic(errors.Structural("tree ended after %d nodes with %d unfinished subtrees", n, len(stack)))
		}
		cur := ix
		ix++
		if len(stack) > 0 {
			owed--
		}

		if b := int(t.branches[cur]); b > 0 {
			if b > n-ix-owed {
				panic(errors.Structural("node %d declares %d children, only %d nodes remain", cur, b, n-ix-owed))
			}
			owed += b
			stack = append(stack, frame{ix: cur, want: b, results: make([]R, 0, b)})
			continue
		}

		r := f(cur, nil)
		for {
			if len(stack) == 0 {
				if ix != n {
					panic(errors.Structural("root subtree ended at node %d, tree has %d nodes", ix, n))
				}
				return r
			}
			top := &stack[len(stack)-1]
			top.results = append(top.results, r)
			if len(top.results) < top.want {
				break
			}
			r = f(top.ix, top.results)
			stack = stack[:len(stack)-1]
		}
	}
}

// Validate reports whether branches is a complete preorder encoding, without
// panicking. Use it on sequences that come from outside the process; trees
// built by germination are consistent by construction.
// Failures carry errors.ErrCodeEmptyTree or errors.ErrCodeInvalidInput.
func Validate(branches []Branch) error {
	if len(branches) == 0 {
		return errors.New(errors.ErrCodeEmptyTree, "tree must have a root")
	}
	open := 1
	for ix, b := range branches {
		if b < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "negative branch count %d at node %d", b, ix)
		}
		if open == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "tree complete after %d of %d nodes", ix, len(branches))
		}
		open--
		if rest := len(branches) - ix - 1 - open; int64(b) > int64(rest) {
			return errors.New(errors.ErrCodeInvalidInput, "node %d declares %d children, only %d nodes remain", ix, b, rest)
		}
		open += int(b)
	}
	if open != 0 {
		return errors.New(errors.ErrCodeInvalidInput, "tree ended after %d nodes with %d missing", len(branches), open)
	}
	return nil
}

// Parents returns the parent index of every node. The root's parent is -1.
func Parents(t *Tree) []int {
	parents := make([]int, t.Len())
	parents[0] = -1
	FlowUp(t, func(ix int, kids []int) int {
		for _, k := range kids {
			parents[k] = ix
		}
		return ix
	})
	return parents
}
