// Package nodelink renders a laid-out tree as a node-link diagram.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// every node is a box connected by an arrow to each of its children. It is an
// alternative to the positioned sinks for checking a tree's shape: Graphviz
// places the nodes itself, so the diagram shows structure, not the computed
// positions.
//
// # Usage
//
// Convert a layout to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(l, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels include fit, bound and position
//   - Placeholder: nodes with this token are drawn dashed and grey
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//
// Node IDs are "n" plus the preorder index, so tokens may repeat. Children
// keep their germination order (ordering=out).
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
