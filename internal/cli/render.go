package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geosvg/pkg/config"
	"github.com/matzehuels/geosvg/pkg/errors"
	"github.com/matzehuels/geosvg/pkg/pipeline"
)

// defaultOutputBase names output files when there is neither --output nor
// an input file to derive a name from.
const defaultOutputBase = "geosvg"

// renderFlags holds the command-line flags shared by render, bounds and preview.
type renderFlags struct {
	output  string // output file (single format) or base path
	formats string // comma-separated output formats
	scene   string // scene file (TOML)
	wkt     string
	geojson string
	width   string
	height  string
	margin  float32
	scale   float64
	refresh bool
	cache   cacheFlags
	style   styleFlags
}

// styleFlags is the flag form of config.StyleConfig. Numeric flags only
// take effect when given, so a scene file's values survive defaults.
type styleFlags struct {
	fill          string
	stroke        string
	strokeWidth   float32
	opacity       float32
	fillOpacity   float32
	strokeOpacity float32
	dash          string
	linecap       string
	linejoin      string
	radius        float32
	arrows        bool
	labels        bool
	fontSize      float32
}

func (f *renderFlags) registerSources(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.scene, "config", "c", "", "scene file (TOML) with layers and styles")
	cmd.Flags().StringVar(&f.wkt, "wkt", "", "inline WKT geometry")
	cmd.Flags().StringVar(&f.geojson, "geojson", "", "inline GeoJSON")
}

func (f *renderFlags) registerScene(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.width, "width", "", "rendered width, e.g. 800, 800px, 10cm")
	cmd.Flags().StringVar(&f.height, "height", "", "rendered height; derived from the viewBox when only one side is set")
	cmd.Flags().Float32Var(&f.margin, "margin", 0, "margin added around the drawing, in user units")

	s := &f.style
	cmd.Flags().StringVar(&s.fill, "fill", "", "fill color (name, #rgb, #rrggbb, rgb(), hsl())")
	cmd.Flags().StringVar(&s.stroke, "stroke", "", "stroke color")
	cmd.Flags().Float32Var(&s.strokeWidth, "stroke-width", 0, "stroke width")
	cmd.Flags().Float32Var(&s.opacity, "opacity", 0, "opacity between 0 and 1")
	cmd.Flags().Float32Var(&s.fillOpacity, "fill-opacity", 0, "fill opacity between 0 and 1")
	cmd.Flags().Float32Var(&s.strokeOpacity, "stroke-opacity", 0, "stroke opacity between 0 and 1")
	cmd.Flags().StringVar(&s.dash, "dash", "", "stroke dash array, e.g. 4,2")
	cmd.Flags().StringVar(&s.linecap, "linecap", "", "stroke line cap: butt, round, square")
	cmd.Flags().StringVar(&s.linejoin, "linejoin", "", "stroke line join: miter, round, bevel")
	cmd.Flags().Float32Var(&s.radius, "radius", 0, "point radius")
	cmd.Flags().BoolVar(&s.arrows, "arrows", false, "end line strings in an arrow")
	cmd.Flags().BoolVar(&s.labels, "labels", false, "label features by their name property")
	cmd.Flags().Float32Var(&s.fontSize, "font-size", 0, "label font size")

	_ = cmd.RegisterFlagCompletionFunc("linecap", completeValues("butt", "round", "square"))
	_ = cmd.RegisterFlagCompletionFunc("linejoin", completeValues("miter", "round", "bevel"))
	cmd.ValidArgsFunction = completeInputs
}

// styleConfig converts the flags that were set into a StyleConfig.
func (f *renderFlags) styleConfig(cmd *cobra.Command) (config.StyleConfig, error) {
	s := f.style
	sc := config.StyleConfig{
		Fill:     s.fill,
		Stroke:   s.stroke,
		Linecap:  s.linecap,
		Linejoin: s.linejoin,
		Arrows:   s.arrows,
		Labels:   s.labels,
	}
	set := func(name string, v float32) *float32 {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		return &v
	}
	sc.StrokeWidth = set("stroke-width", s.strokeWidth)
	sc.Opacity = set("opacity", s.opacity)
	sc.FillOpacity = set("fill-opacity", s.fillOpacity)
	sc.StrokeOpacity = set("stroke-opacity", s.strokeOpacity)
	sc.Radius = set("radius", s.radius)
	sc.FontSize = set("font-size", s.fontSize)

	if s.dash != "" {
		dash, err := parseDash(s.dash)
		if err != nil {
			return config.StyleConfig{}, err
		}
		sc.Dasharray = dash
	}
	return sc, nil
}

// options builds pipeline options from a scene file (if any), positional
// inputs and flags. Flags override the scene's values.
func (f *renderFlags) options(cmd *cobra.Command, args []string) (pipeline.Options, error) {
	style, err := f.styleConfig(cmd)
	if err != nil {
		return pipeline.Options{}, err
	}

	var opts pipeline.Options
	if f.scene != "" {
		scene, err := config.Load(f.scene)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts = pipeline.FromScene(scene)
		if len(args) > 0 || f.wkt != "" || f.geojson != "" {
			opts.Layers = append(opts.Layers, config.Layer{
				Name:    pipeline.DefaultLayer,
				Inputs:  args,
				WKT:     f.wkt,
				GeoJSON: f.geojson,
			})
		}
	} else {
		opts = pipeline.Options{Inputs: args, WKT: f.wkt, GeoJSON: f.geojson}
	}

	opts.Style = style.Or(opts.Style)
	if f.width != "" {
		opts.Width = f.width
	}
	if f.height != "" {
		opts.Height = f.height
	}
	if cmd.Flags().Changed("margin") {
		opts.Margin = f.margin
	}
	if f.formats != "" || len(opts.Formats) == 0 {
		opts.Formats = parseFormats(f.formats)
	}
	opts.Scale = f.scale
	opts.Refresh = f.refresh
	return opts, nil
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "Render geometry files to SVG, PNG, PDF or JSON",
		Long: `Render geometry to a standalone SVG document.

Inputs may be GeoJSON, WKT, CSV (with a WKT column or x/y columns) or KML
files or http(s) URLs, inline --wkt/--geojson, or the layers of a --config
scene file.
All inputs given on the command line form one layer sharing the style flags.

The SVG viewBox covers the union of all shapes, plus --margin. With only
--width or --height the other side follows the viewBox aspect ratio.

Parsed inputs and converted artifacts are cached locally; use --refresh to
bypass the cache or --cache-url to share one in Redis or MongoDB.`,
		Example: `  geosvg render roads.geojson --stroke black --stroke-width 0.5
  geosvg render --wkt "POLYGON((0 0,4 0,4 4,0 0))" --fill red -f svg,png
  geosvg render -c scene.toml -o out/map -f svg,pdf,json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, args)
			if err != nil {
				return err
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().Float64Var(&flags.scale, "scale", pipeline.DefaultScale, "PNG pixels per user unit")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached entries and rebuild them")
	flags.registerSources(cmd)
	flags.registerScene(cmd)
	flags.cache.register(cmd)
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, flags renderFlags, args []string) error {
	ctx = withLogger(ctx, c.Logger)
	prog := newProgress(c.Logger)

	runner, err := c.newRunner(ctx, flags.cache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if opts.Style.Labels && slices.Contains(opts.Formats, pipeline.FormatPNG) {
		printWarning("PNG output does not draw text labels")
	}

	spinner := newSpinner(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.step("execute")

	base := outputBase(flags.output, flags.scene, args)
	if err := writeArtifacts(ctx, artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		base:      base,
		output:    flags.output,
	}); err != nil {
		return err
	}
	prog.step("write")
	if flags.output != "-" {
		printStats(result.Stats, result.CacheInfo.RenderHit)
	}
	prog.done(fmt.Sprintf("Rendered %s", plural(result.Stats.Layers, "layer")),
		"hash", result.SVGHash[:min(12, len(result.SVGHash))],
		"load_hits", result.CacheInfo.LoadHits)
	return nil
}

// =============================================================================
// Output
// =============================================================================

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	base      string // path without extension
	output    string // --output as given
}

// writeArtifacts writes one file per format. A single format goes to
// --output exactly when it was given; "-" writes that format to stdout.
func writeArtifacts(ctx context.Context, p artifactWriteParams) error {
	logger := loggerFromContext(ctx)

	single := len(p.formats) == 1
	if p.output == "-" && !single {
		return errors.New(errors.ErrCodeInvalidInput, "stdout output takes exactly one format, got %d", len(p.formats))
	}

	var written []string
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			return fmt.Errorf("missing %s artifact", format)
		}
		path := p.base + "." + format
		if single && p.output != "" {
			path = p.output
		}
		if err := writeOutput(path, data); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
		logger.Debug("wrote artifact", "format", format, "path", path, "bytes", len(data))
		if path != "-" {
			written = append(written, path)
		}
	}

	if len(written) > 0 {
		printSuccess("Wrote %s", plural(len(written), "file"))
		for _, path := range written {
			printFile(path)
		}
	}
	return nil
}

func writeOutput(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for path, creating parent directories.
// "-" is os.Stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

// outputBase derives the extensionless output path. Explicit output wins,
// with a known format extension stripped; otherwise the scene file or the
// first input names the result.
func outputBase(output, scene string, inputs []string) string {
	strip := func(p string) string {
		return strings.TrimSuffix(p, filepath.Ext(p))
	}
	switch {
	case output != "" && output != "-":
		if pipeline.ValidFormats[strings.TrimPrefix(filepath.Ext(output), ".")] {
			return strip(output)
		}
		return output
	case scene != "":
		return strip(scene)
	case len(inputs) > 0:
		return strip(inputs[0])
	}
	return defaultOutputBase
}

// parseDash parses a comma- or space-separated dash array.
func parseDash(s string) ([]float32, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	dash := make([]float32, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil || v < 0 {
			return nil, errors.New(errors.ErrCodeInvalidStyle, "invalid dash value %q", f)
		}
		dash = append(dash, float32(v))
	}
	return dash, nil
}
