package cli

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orca/pkg/errors"
	"github.com/matzehuels/orca/pkg/layout"
	"github.com/matzehuels/orca/pkg/pipeline"
)

// layoutFlags override the [layout] and [font] sections of the configuration.
type layoutFlags struct {
	measure    string
	font       string
	size       float64
	dpi        float64
	indentMode string
	indentPad  int
	lineStep   int
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.measure, "measure", pipeline.MeasureFace, "measure tokens with a font face or in terminal cells: face, cell")
	cmd.Flags().StringVar(&f.font, "font", "", "bundled font name (see 'orca fonts')")
	cmd.Flags().Float64Var(&f.size, "size", 0, "font size in points")
	cmd.Flags().Float64Var(&f.dpi, "dpi", 0, "font resolution")
	f.registerSteps(cmd)
}

// registerSteps registers only the indent and line step flags.
func (f *layoutFlags) registerSteps(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.indentMode, "indent-mode", "", "child indent: content (past the parent's own width), fixed")
	cmd.Flags().IntVar(&f.indentPad, "indent-pad", 0, "extra indent added to every child")
	cmd.Flags().IntVar(&f.lineStep, "line-step", 0, "vertical gap between a parent and its first child")
}

// apply copies every flag the user set onto opts.
func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	set := cmd.Flags().Changed
	if f.measure != "" {
		opts.Measure = f.measure
	}
	if set("font") {
		opts.Font = f.font
	}
	if set("size") {
		opts.Size = f.size
	}
	if set("dpi") {
		opts.DPI = f.dpi
	}
	if set("indent-mode") {
		mode, err := layout.ParseIndentMode(f.indentMode)
		if err != nil {
			return err
		}
		opts.Steps.Mode = mode
	}
	if set("indent-pad") {
		opts.Steps.Pad = f.indentPad
	}
	if set("line-step") {
		opts.Steps.Line = f.lineStep
	}
	return nil
}

// canvasFlags override the [canvas] section of the configuration.
type canvasFlags struct {
	width, height int
	margin        int
	scale         int
	bounds        bool
	edges         bool
	detailed      bool
}

func (f *canvasFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.width, "width", 0, "fixed canvas width in pixels (0 fits the layout)")
	cmd.Flags().IntVar(&f.height, "height", 0, "fixed canvas height in pixels (0 fits the layout)")
	cmd.Flags().IntVar(&f.margin, "margin", pipeline.DefaultMargin, "padding around a fitted canvas")
	cmd.Flags().IntVar(&f.scale, "scale", 1, "integer PNG upscale factor")
	cmd.Flags().BoolVar(&f.bounds, "bounds", false, "outline every node's fit and subtree bound (svg)")
	cmd.Flags().BoolVar(&f.edges, "edges", false, "connect every node to its parent (svg)")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "label graph nodes with their geometry (dot, nodelink)")
}

func (f *canvasFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	set := cmd.Flags().Changed
	if set("width") {
		opts.Width = f.width
	}
	if set("height") {
		opts.Height = f.height
	}
	if set("margin") {
		opts.Margin = f.margin
	}
	if set("scale") {
		opts.Scale = f.scale
	}
	if set("bounds") {
		opts.Bounds = f.bounds
	}
	if set("edges") {
		opts.Edges = f.edges
	}
	opts.Detailed = f.detailed
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		in       inputFlags
		lf       layoutFlags
		cf       canvasFlags
		formats  string
		output   string
		noCache  bool
		refresh  bool
		maxNodes int
	)

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Lay out a program or tree and write it to image, text or data formats",
		Long: `Lay out a program or tree and write it to image, text or data formats.

The input is an orca program (any extension) or a flat tree JSON file (.json).
Use - to read a program from stdin, --source for inline text or --example
for the built-in program.

Formats:
  png       raster image drawn with the chosen font
  svg       vector image with the font embedded
  txt       terminal text, laid out in cells
  json      positions, fits and bounds of every node
  dot       Graphviz source of the tree
  nodelink  the tree drawn by Graphviz as SVG

Layouts and artifacts are cached; use --refresh to recompute them.`,
		Example: `  orca render prog.orca
  orca render prog.orca -f svg,txt --edges
  echo 'print(1 + 2)' | orca render - -f txt -o -
  orca render --example --measure cell -f txt --line-step 1 -o -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.baseOptions()
			if err != nil {
				return err
			}
			if err := in.apply(&opts, args, cmd.InOrStdin()); err != nil {
				return err
			}
			if err := lf.apply(cmd, &opts); err != nil {
				return err
			}
			cf.apply(cmd, &opts)
			opts.Formats, err = renderFormats(formats, opts.Measure)
			if err != nil {
				return err
			}
			opts.Refresh = refresh
			opts.MaxNodes = maxNodes

			paths, err := outputPaths(output, inputBase(opts), opts.Formats)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, paths, noCache)
		},
	}

	in.register(cmd)
	lf.register(cmd)
	cf.register(cmd)
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.ValidFormats, ", ")+" (comma-separated; default png, or txt with --measure cell)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute cached layouts and artifacts")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", pipeline.DefaultMaxNodes, "reject trees with more nodes")

	return cmd
}

// renderFormats parses --format. Cell layouts default to text.
func renderFormats(s, measure string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		if measure == pipeline.MeasureCell {
			return []string{pipeline.FormatText}, nil
		}
		return []string{pipeline.FormatPNG}, nil
	}
	formats := pipeline.ParseFormats(s)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return nil, err
	}
	return formats, nil
}

// outputPaths maps every format to the file it is written to.
// A single format is written to output verbatim; otherwise output is a base
// path and each file gets its format's extension.
func outputPaths(output, base string, formats []string) (map[string]string, error) {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths, nil
	}
	if output == "-" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "cannot write %d formats to stdout", len(formats))
	}
	if output != "" {
		base = trimFormatExt(output)
	}
	for _, f := range formats {
		paths[f] = base + "." + pipeline.Extension(f)
	}
	return paths, nil
}

// trimFormatExt strips the longest known output extension from path.
func trimFormatExt(path string) string {
	longest := ""
	for _, f := range pipeline.ValidFormats {
		if ext := "." + pipeline.Extension(f); strings.HasSuffix(path, ext) && len(ext) > len(longest) {
			longest = ext
		}
	}
	return strings.TrimSuffix(path, longest)
}

func trimExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, paths map[string]string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Laying out "+opts.InputName()+"...")
	spinner.Start()

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	toStdout := false
	formats := slices.Sorted(maps.Keys(paths))
	for _, f := range formats {
		path := paths[f]
		if err := writeArtifact(path, res.Artifacts[f]); err != nil {
			return err
		}
		if path == "-" {
			toStdout = true
			continue
		}
		c.Logger.Debug("Wrote artifact", "format", f, "path", path, "bytes", len(res.Artifacts[f]))
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(formats)))

	// Keep stdout clean when it carries an artifact.
	if toStdout {
		return nil
	}
	printSuccess("Rendered %s", opts.InputName())
	for _, f := range formats {
		printFile(paths[f])
	}
	printStats(statsView{
		nodes:  res.Stats.NodeCount,
		depth:  res.Stats.Depth,
		width:  res.Stats.Width,
		height: res.Stats.Height,
		cached: res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit,
	})
	return nil
}

func writeArtifact(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
