// Package layout places the nodes of a flat tree on a 2D plane.
//
// # Pipeline
//
// Layout runs three passes over a [tree.Tree] and its index-aligned tokens,
// each returning a fresh slice of length N:
//
//  1. Measure: ask a [Measurer] for every token's own [Fit].
//  2. Reduce: fold fits bottom-up into subtree [Bound]s with [tree.FlowUp].
//     Children sit side by side, so widths add and heights take the max.
//  3. Assign: walk the tree top-down in preorder with an explicit stack of
//     frames, one per open level, placing each node at its level's cursor.
//
// [Compute] runs all three; [Draw] then hands every token and its [Pos] to
// a [Drawer], once per node, in index order.
//
// # Positions
//
// The root sits at the origin. A node's first child is offset from the node
// by the indent (see [Steps]) horizontally and by the line step vertically.
// Every node advances its level's cursor by its full subtree width, so the
// next sibling starts right after the previous sibling's subtree:
//
//	root(2) -> [A, B], own widths 2, 3, 4, line step S
//
//	root (0,0)
//	       A (2,S)  B (5,S)
//
// # Errors
//
// Measurement and draw failures abort the pass and come back as
// errors.ErrCodeRender. A tree whose branch counts disagree with its length
// causes a structural panic; it is never silently truncated.
package layout
