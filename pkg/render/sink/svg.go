package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/orca/pkg/fonts"
	"github.com/matzehuels/orca/pkg/layout"
	"github.com/matzehuels/orca/pkg/tree"
)

const svgStyle = `
    .node { fill: #f8f8f2; }
    .bound { fill: none; stroke: #6272a4; stroke-width: 1; stroke-dasharray: 4 3; }
    .fit { fill: none; stroke: #50fa7b; stroke-width: 1; }
    .edge { stroke: #44475a; stroke-width: 1; }`

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	font     *fonts.Font
	fontSize float64
	ascent   int
	margin   int
	bounds   bool
	edges    bool
}

// WithFont embeds f as an @font-face so the drawing matches the measured
// layout on any viewer.
func WithFont(f fonts.Font) SVGOption { return func(r *svgRenderer) { r.font = &f } }

// WithFontSize sets the CSS font size in pixels.
func WithFontSize(px float64) SVGOption { return func(r *svgRenderer) { r.fontSize = px } }

// WithAscent sets the distance from a node's top edge to its text baseline.
func WithAscent(px int) SVGOption { return func(r *svgRenderer) { r.ascent = px } }

// WithMargin pads the drawing on every side.
func WithMargin(px int) SVGOption { return func(r *svgRenderer) { r.margin = px } }

// WithBounds outlines every node's own fit and subtree bound.
func WithBounds() SVGOption { return func(r *svgRenderer) { r.bounds = true } }

// WithEdges connects every node to its parent.
func WithEdges() SVGOption { return func(r *svgRenderer) { r.edges = true } }

// RenderSVG renders the layout as SVG with one text element per node.
func RenderSVG(l *layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{fontSize: 16}
	for _, opt := range opts {
		opt(&r)
	}
	if r.ascent == 0 {
		r.ascent = int(r.fontSize*0.8 + 0.5)
	}

	w, h := l.Extent()
	w, h = w+2*r.margin, h+2*r.margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n", w, h, w, h)
	renderDefs(&buf, &r)
	fmt.Fprintf(&buf, `  <rect width="%d" height="%d" fill="#282a36"/>`+"\n", w, h)
	fmt.Fprintf(&buf, `  <g transform="translate(%d %d)">`+"\n", r.margin, r.margin)

	if r.edges {
		renderEdges(&buf, l)
	}
	if r.bounds {
		renderBounds(&buf, l)
	}
	for ix, tok := range l.Tokens {
		p := l.Positions[ix]
		fmt.Fprintf(&buf, `    <text class="node" x="%d" y="%d" xml:space="preserve" data-index="%d">%s</text>`+"\n",
			p.X, p.Y+r.ascent, ix, escapeXML(tok))
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer, r *svgRenderer) {
	family := `monospace`
	buf.WriteString("  <style>")
	if r.font != nil {
		fmt.Fprintf(buf, "\n    @font-face { font-family: '%s'; src: url(data:%s;base64,%s); }",
			r.font.Family, r.font.MIME(), r.font.Base64())
		family = fonts.FallbackFamily(*r.font)
	}
	fmt.Fprintf(buf, "\n    text { font-family: %s; font-size: %gpx; }", family, r.fontSize)
	buf.WriteString(svgStyle)
	buf.WriteString("\n  </style>\n")
}

func renderBounds(buf *bytes.Buffer, l *layout.Layout) {
	for ix, p := range l.Positions {
		b, f := l.Bounds[ix], l.Fits[ix]
		fmt.Fprintf(buf, `    <rect class="bound" x="%d" y="%d" width="%d" height="%d"/>`+"\n", p.X, p.Y, b.W, b.H)
		fmt.Fprintf(buf, `    <rect class="fit" x="%d" y="%d" width="%d" height="%d"/>`+"\n", p.X, p.Y, f.W, f.H)
	}
}

func renderEdges(buf *bytes.Buffer, l *layout.Layout) {
	for ix, parent := range tree.Parents(l.Tree) {
		if parent < 0 {
			continue
		}
		from, to := l.Positions[parent], l.Positions[ix]
		fmt.Fprintf(buf, `    <line class="edge" x1="%d" y1="%d" x2="%d" y2="%d"/>`+"\n",
			from.X, from.Y+l.Fits[parent].H, to.X, to.Y)
	}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
