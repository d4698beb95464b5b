// Package pipeline provides the core render pipeline for geosvg.
//
// This package implements the complete load → compose → render pipeline used
// by the CLI and the HTTP server, so every entry point produces identical
// documents and shares one caching scheme.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read and parse input files and inline geometry, one set per layer
//  2. Compose: turn each layer into a styled svg.Part and combine them into
//     one svg.Document
//  3. Render: serialize the document and convert it (SVG, PNG, PDF, JSON)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Inputs:  []string{"roads.geojson"},
//	    Style:   config.StyleConfig{Stroke: "black"},
//	    Formats: []string{"svg", "png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geosvg/pkg/cache"
	"github.com/matzehuels/geosvg/pkg/config"
	"github.com/matzehuels/geosvg/pkg/errors"
	"github.com/matzehuels/geosvg/pkg/svg"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultScale is the PNG scale factor relative to the viewBox size.
	DefaultScale = 2.0

	// DefaultLayer names the layer built from Inputs, WKT and GeoJSON.
	DefaultLayer = "default"

	// MaxInputs bounds the number of files one run may load.
	MaxInputs = 256

	// loadConcurrency bounds parallel file reads.
	loadConcurrency = 8
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the render pipeline.
// This struct supports JSON serialization for HTTP requests.
type Options struct {
	// Sources for the default layer. Ignored when Layers is set.
	Inputs  []string `json:"inputs,omitempty"`
	WKT     string   `json:"wkt,omitempty"`
	GeoJSON string   `json:"geojson,omitempty"`

	// Layers from a scene file. Each is drawn with its own style.
	Layers []config.Layer `json:"-"`

	// Style is written on the <svg> element and inherited by every layer.
	Style config.StyleConfig `json:"style"`

	Width   string   `json:"width,omitempty"`
	Height  string   `json:"height,omitempty"`
	Margin  float32  `json:"margin,omitempty"`
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// FromScene converts a decoded scene file into options.
func FromScene(s config.Scene) Options {
	return Options{
		Layers:  s.Layers,
		Style:   s.Style,
		Width:   s.Width,
		Height:  s.Height,
		Margin:  s.Margin,
		Formats: s.Formats,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the composed document.
	Document svg.Document

	// SVGHash is the content hash of the serialized document.
	SVGHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Layers      int
	Features    int
	Shapes      int
	LoadTime    time.Duration
	ComposeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHits  int  // Input files served from cache
	RenderHit bool // Whether all non-SVG artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
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

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks sources and builds the default layer when no
// layers were given.
func (o *Options) ValidateForLoad() error {
	if len(o.Layers) == 0 {
		if len(o.Inputs) == 0 && o.WKT == "" && o.GeoJSON == "" {
			return errors.New(errors.ErrCodeInvalidInput, "no input: give files, wkt or geojson")
		}
		o.Layers = []config.Layer{{
			Name:    DefaultLayer,
			Inputs:  o.Inputs,
			WKT:     o.WKT,
			GeoJSON: o.GeoJSON,
		}}
	}

	inputs := 0
	for _, l := range o.Layers {
		inputs += len(l.Inputs)
		for _, in := range l.Inputs {
			if err := errors.ValidateInputPath(in); err != nil {
				return err
			}
		}
	}
	if inputs > MaxInputs {
		return errors.New(errors.ErrCodeInvalidInput, "too many inputs: %d (max %d)", inputs, MaxInputs)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates the scene settings and sets render defaults.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	scene := o.Scene()
	if err := scene.Validate(); err != nil {
		return err
	}
	// Validate names unnamed layers.
	o.Layers = scene.Layers
	return nil
}

// Scene returns the options as a scene, the form config validates.
func (o *Options) Scene() config.Scene {
	return config.Scene{
		Width:   o.Width,
		Height:  o.Height,
		Margin:  o.Margin,
		Formats: o.Formats,
		Style:   o.Style,
		Layers:  o.Layers,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}
