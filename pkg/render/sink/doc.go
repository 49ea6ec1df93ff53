// Package sink turns a computed [layout.Layout] into output formats.
//
// # Overview
//
// A "sink" transforms a computed layout into a final output format. This
// package provides renderers for:
//
//   - PNG: the layout drawn by a font press onto a grayscale surface
//   - SVG: one text element per node, optionally with bound boxes and edges
//   - JSON: positions, fits and bounds for external tools
//   - Text: the layout drawn in terminal cells
//
// # PNG Output
//
// [RenderPNG] draws every node through any layout.Drawer[*image.Gray],
// normally a face.Press, then encodes with github.com/disintegration/imaging:
//
//	p, err := face.New(face.Options{Font: "gomono"})
//	l, err := layout.Compute(t, tokens, p, layout.DefaultSteps())
//	png, err := sink.RenderPNG(l, p, sink.WithScale(2))
//
// The surface size is fixed before drawing: either the layout's extent plus
// a margin, or an explicit [WithCanvas] size. Nodes outside it are clipped.
//
// # SVG Output
//
// [RenderSVG] writes text at the same positions. Pass [WithFont] with the
// font the layout was measured with so widths agree in the browser.
//
// # Text Output
//
// [RenderText] expects a layout measured with cell.Press, where one unit is
// one terminal cell.
//
// [layout.Layout]: github.com/matzehuels/orca/pkg/layout.Layout
package sink
