package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/orca/pkg/errors"
	"github.com/matzehuels/orca/pkg/layout"
	"github.com/matzehuels/orca/pkg/tree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes fit, bound and position in node labels.
	// When false, only the token is shown.
	Detailed bool
	// Placeholder marks tokens drawn with a dashed outline.
	Placeholder string
}

// ToDOT converts a layout to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(l *layout.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  ordering=out;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\", fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for ix, tok := range l.Tokens {
		label := fmtLabel(l, ix, opts.Detailed)
		attrs := fmtAttrs(tok, label, opts.Placeholder)
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(ix), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for ix, parent := range tree.Parents(l.Tree) {
		if parent < 0 {
			continue
		}
		fmt.Fprintf(&buf, "  %s -> %s;\n", nodeID(parent), nodeID(ix))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(ix int) string { return "n" + strconv.Itoa(ix) }

func fmtLabel(l *layout.Layout, ix int, detailed bool) string {
	tok := l.Tokens[ix]
	if strings.TrimSpace(tok) == "" {
		tok = strconv.Quote(tok)
	}
	if !detailed {
		return tok
	}
	f, b, p := l.Fits[ix], l.Bounds[ix], l.Positions[ix]
	return fmt.Sprintf("%s\nfit: %dx%d\nbound: %dx%d\npos: %s", tok, f.W, f.H, b.W, b.H, p)
}

func fmtAttrs(tok, label, placeholder string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if placeholder != "" && tok == placeholder {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg tag with a pixel one so
// the diagram scales like the other SVG sinks.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
