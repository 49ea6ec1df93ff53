package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/orca/pkg/layout"
	"github.com/matzehuels/orca/pkg/press/face"
	"github.com/matzehuels/orca/pkg/render/nodelink"
	"github.com/matzehuels/orca/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
//
// p is the press l was measured with. It draws PNG output and supplies the
// embedded font and baseline for SVG; it may be nil for a cell layout.
// runID is recorded in JSON output.
func Render(ctx context.Context, l *layout.Layout, p *face.Press, opts Options, runID string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatPNG:
			if p == nil {
				return nil, fmt.Errorf("render %s: no face press", format)
			}
			data, err = sink.RenderPNG(l, p, opts.pngOptions()...)
		case FormatSVG:
			data = sink.RenderSVG(l, svgOptions(p, opts)...)
		case FormatJSON:
			data, err = sink.RenderJSON(l, sink.WithJSONFont(fontLabel(opts)), sink.WithJSONRunID(runID))
		case FormatDOT:
			data = []byte(nodelink.ToDOT(l, nodelink.Options{Detailed: opts.Detailed}))
		case FormatNodelink:
			data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(l, nodelink.Options{Detailed: opts.Detailed}))
		case FormatText:
			data, err = renderText(l, opts)
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// svgOptions builds SVG rendering options.
func svgOptions(p *face.Press, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithMargin(opts.Margin)}
	if p != nil {
		// Layout units are pixels at opts.DPI.
		px := opts.Size * opts.DPI / 72
		svgOpts = append(svgOpts,
			sink.WithFont(p.Font()),
			sink.WithFontSize(px),
			sink.WithAscent(p.Ascent()),
		)
	} else {
		svgOpts = append(svgOpts, sink.WithFontSize(1))
	}
	if opts.Bounds {
		svgOpts = append(svgOpts, sink.WithBounds())
	}
	if opts.Edges {
		svgOpts = append(svgOpts, sink.WithEdges())
	}
	return svgOpts
}

func renderText(l *layout.Layout, opts Options) ([]byte, error) {
	cl, err := cellLayout(l, opts)
	if err != nil {
		return nil, err
	}
	s, err := sink.RenderText(cl)
	return []byte(s), err
}

func fontLabel(opts Options) string {
	if opts.Measure == MeasureCell {
		return MeasureCell
	}
	return opts.Font
}
