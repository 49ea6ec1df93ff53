// Package pipeline runs orca end to end: parse, layout, render.
//
// This package implements the complete parse → layout → render pipeline
// used by the CLI and the render server, so both produce the same bytes for
// the same input.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: read program text or a flat tree JSON file and germinate the
//     flat tree with its tokens
//  2. Layout: measure every token with a press, reduce subtree bounds and
//     assign positions
//  3. Render: produce the requested formats (PNG, SVG, JSON, DOT, node-link
//     SVG, text)
//
// Layouts and artifacts are cached by content hash; see [Runner].
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "let v = 1; print(4 + (2 - v))",
//	    Formats: []string{"png", "svg"},
//	})
//	png := result.Artifacts["png"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orca/pkg/cache"
	"github.com/matzehuels/orca/pkg/errors"
	"github.com/matzehuels/orca/pkg/fonts"
	"github.com/matzehuels/orca/pkg/layout"
	"github.com/matzehuels/orca/pkg/press/face"
	"github.com/matzehuels/orca/pkg/render/sink"
	"github.com/matzehuels/orca/pkg/seed"
	"github.com/matzehuels/orca/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultMaxNodes bounds the flat tree accepted from a JSON file.
	DefaultMaxNodes = 50000

	// DefaultMargin pads automatically sized PNG and SVG output.
	DefaultMargin = 4

	// DefaultTTL is how long layouts and artifacts stay cached.
	DefaultTTL = 7 * 24 * time.Hour
)

// Measure names the press used to measure tokens.
const (
	MeasureFace = "face"
	MeasureCell = "cell"
)

// Format constants for output formats.
const (
	FormatPNG      = "png"
	FormatSVG      = "svg"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatNodelink = "nodelink"
	FormatText     = "txt"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatPNG, FormatSVG, FormatJSON, FormatDOT, FormatNodelink, FormatText}

// Extension returns the file extension written for format.
func Extension(format string) string {
	if format == FormatNodelink {
		return "nodelink.svg"
	}
	return format
}

// ContentType returns the MIME type of an artifact in format.
func ContentType(format string) string {
	switch format {
	case FormatPNG:
		return "image/png"
	case FormatSVG, FormatNodelink:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// Exactly one of Source, Path, Seed and Tree names the input.
type Options struct {
	// Parse options
	Source   string     `json:"source,omitempty"` // program text
	Path     string     `json:"path,omitempty"`   // program file, or flat tree if it ends in .json
	Seed     seed.Seed  `json:"-"`                // an already built node hierarchy
	Tree     *tree.Tree `json:"-"`                // an already flat tree, with Tokens
	Tokens   []string   `json:"-"`
	MaxNodes int        `json:"max_nodes,omitempty"`

	// Layout options
	Measure string       `json:"measure,omitempty"`
	Font    string       `json:"font,omitempty"`
	Size    float64      `json:"size,omitempty"`
	DPI     float64      `json:"dpi,omitempty"`
	Steps   layout.Steps `json:"-"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	Margin   int      `json:"margin,omitempty"`
	Scale    int      `json:"scale,omitempty"`
	Bounds   bool     `json:"bounds,omitempty"`
	Edges    bool     `json:"edges,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Refresh skips cache lookups but still stores the results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies the run in logs and JSON output.
	ID string

	// Tree and Tokens are the germinated flat tree.
	Tree   *tree.Tree
	Tokens []string

	// TreeHash is the content hash of the flat tree and its tokens.
	TreeHash string

	// Layout is the computed layout.
	Layout *layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	Depth      int
	Width      int
	Height     int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMeasure checks that a measure name is valid.
func ValidateMeasure(measure string) error {
	if measure != MeasureFace && measure != MeasureCell {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid measure: %q (must be one of: face, cell)", measure)
	}
	return nil
}

// ParseFormats splits a comma separated list such as "png,svg".
// Empty entries are ignored and duplicates removed.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks that exactly one input is set.
func (o *Options) ValidateForParse() error {
	n := 0
	for _, set := range []bool{o.Source != "", o.Path != "", o.Seed != nil, o.Tree != nil} {
		if set {
			n++
		}
	}
	if n != 1 {
		return errors.New(errors.ErrCodeInvalidInput, "exactly one of source, path, seed or tree is required")
	}
	if o.Source != "" {
		if err := errors.ValidateSource(o.Source); err != nil {
			return err
		}
	}
	if o.MaxNodes == 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	o.setLogger()
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Measure == "" {
		o.Measure = MeasureFace
	}
	if o.Font == "" {
		o.Font = fonts.Default
	}
	if o.Size == 0 {
		o.Size = face.DefaultSize
	}
	if o.DPI == 0 {
		o.DPI = face.DefaultDPI
	}
	if o.Steps == (layout.Steps{}) {
		o.Steps = layout.DefaultSteps()
	} else if o.Steps.Mode == "" {
		o.Steps.Mode = layout.IndentContent
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateMeasure(o.Measure); err != nil {
		return err
	}
	if o.Measure == MeasureFace {
		if _, err := fonts.Lookup(o.Font); err != nil {
			return err
		}
		if err := face.ValidateMetrics(o.Size, o.DPI); err != nil {
			return err
		}
	}
	return o.Steps.Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Measure == MeasureCell && slices.Contains(o.Formats, FormatPNG) {
		return errors.New(errors.ErrCodeInvalidConfig, "png output needs the face measure")
	}
	if o.Width < 0 || o.Height < 0 || o.Margin < 0 || o.Scale < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas width, height and margin must be >= 0 and scale >= 1")
	}
	return nil
}

// InputName describes the input in logs and hooks.
func (o *Options) InputName() string {
	switch {
	case o.Path != "":
		return o.Path
	case o.Source != "":
		return "<source>"
	case o.Tree != nil:
		return "<tree>"
	default:
		return fmt.Sprintf("<%T>", o.Seed)
	}
}

// FaceOptions returns the options for the face press measuring this run.
func (o *Options) FaceOptions() face.Options {
	return face.Options{Font: o.Font, Size: o.Size, DPI: o.DPI, Logger: o.Logger}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		Measure: o.Measure,
		Mode:    string(o.Steps.Mode),
		Pad:     o.Steps.Pad,
		Line:    o.Steps.Line,
	}
	if o.Measure == MeasureFace {
		k.Font, k.Size, k.DPI = o.Font, o.Size, o.DPI
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Width:    o.Width,
		Height:   o.Height,
		Margin:   o.Margin,
		Scale:    o.Scale,
		Bounds:   o.Bounds,
		Edges:    o.Edges,
		Detailed: o.Detailed,
	}
}

// pngOptions returns the sink options for PNG output.
func (o *Options) pngOptions() []sink.PNGOption {
	return []sink.PNGOption{
		sink.WithCanvas(o.Width, o.Height),
		sink.WithPNGMargin(o.Margin),
		sink.WithScale(o.Scale),
	}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
