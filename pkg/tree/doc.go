// Package tree provides the flat, pointer-free encoding of a tree's shape.
//
// # Overview
//
// A [Tree] is an ordered sequence of [Branch] values in depth-first preorder.
// Each Branch is the number of direct children of the node at that position;
// index 0 is the root. Parent and child relations are not stored: they exist
// only as a consequence of consuming the sequence from the front.
//
// The tree for `print(4 + 2)` is encoded as:
//
//	index:   0      1  2  3
//	token:   print  +  4  2
//	branch:  1      2  0  0
//
// # Traversal
//
// [FlowUp] is the only algorithmic operation. It folds the tree bottom-up:
// every node receives its children's results, in order, after all of them
// have been computed.
//
//	depth := tree.FlowUp(t, func(ix int, kids []int) int {
//	    d := 0
//	    for _, k := range kids {
//	        d = max(d, k)
//	    }
//	    return d + 1
//	})
//
// FlowUp keeps its own stack, so traversal depth is not bounded by the
// goroutine stack.
//
// # Structural Errors
//
// A sequence whose counts do not exactly partition its length (too many or
// too few trailing elements) is a programming error. Traversals panic with an
// [errors.Error] carrying [errors.ErrCodeStructure] as soon as they detect it,
// before any out-of-range read. An empty sequence is rejected by [New] with
// [errors.ErrCodeEmptyTree] instead.
//
// [errors.Error]: github.com/matzehuels/orca/pkg/errors.Error
// [errors.ErrCodeStructure]: github.com/matzehuels/orca/pkg/errors.ErrCodeStructure
// [errors.ErrCodeEmptyTree]: github.com/matzehuels/orca/pkg/errors.ErrCodeEmptyTree
package tree
