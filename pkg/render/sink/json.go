package sink

import (
	"encoding/json"

	"github.com/matzehuels/orca/pkg/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	font  string
	runID string
}

// WithJSONFont records the font the layout was measured with.
func WithJSONFont(name string) JSONOption { return func(r *jsonRenderer) { r.font = name } }

// WithJSONRunID records the pipeline run that produced the layout.
func WithJSONRunID(id string) JSONOption { return func(r *jsonRenderer) { r.runID = id } }

type jsonOutput struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Font   string     `json:"font,omitempty"`
	RunID  string     `json:"run_id,omitempty"`
	Steps  jsonSteps  `json:"steps"`
	Nodes  []jsonNode `json:"nodes"`
}

type jsonSteps struct {
	Mode string `json:"mode"`
	Pad  int    `json:"pad"`
	Line int    `json:"line"`
}

type jsonNode struct {
	Token  string    `json:"token"`
	Branch int       `json:"branch,omitempty"`
	X      int       `json:"x"`
	Y      int       `json:"y"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Bound  jsonBound `json:"bound"`
}

type jsonBound struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RenderJSON exports the layout as a pretty-printed JSON document.
//
// The JSON includes:
//   - The extent of the drawing
//   - The steps used to place children
//   - Per node, in preorder: token, branch count, position, own fit and
//     subtree bound
//
// The node list carries the same preorder and branch counts as the flat
// tree JSON of package io, so the tree can be recovered from it.
// RenderJSON does not modify l and is safe to call concurrently.
func RenderJSON(l *layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := l.Extent()
	out := jsonOutput{
		Width:  w,
		Height: h,
		Font:   r.font,
		RunID:  r.runID,
		Steps:  jsonSteps{Mode: string(l.Steps.Mode), Pad: l.Steps.Pad, Line: l.Steps.Line},
		Nodes:  make([]jsonNode, l.Len()),
	}
	for ix, tok := range l.Tokens {
		p, f, b := l.Positions[ix], l.Fits[ix], l.Bounds[ix]
		out.Nodes[ix] = jsonNode{
			Token:  tok,
			Branch: int(l.Tree.At(ix)),
			X:      p.X,
			Y:      p.Y,
			Width:  f.W,
			Height: f.H,
			Bound:  jsonBound{Width: b.W, Height: b.H},
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
