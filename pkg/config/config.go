// Package config reads geosvg scene files.
//
// A scene is a TOML document with output settings, a default style and an
// ordered list of layers:
//
//	width   = "800px"
//	margin  = 2
//	formats = ["svg", "png"]
//
//	[style]
//	stroke       = "black"
//	stroke_width = 0.5
//
//	[[layer]]
//	name   = "roads"
//	inputs = ["roads.geojson"]
//
//	[layer.style]
//	stroke    = "#888888"
//	dasharray = [4, 2]
//
//	[[layer]]
//	name = "poi"
//	wkt  = "MULTIPOINT((1 2),(3 4))"
//
//	[layer.style]
//	fill   = "red"
//	radius = 2
//	labels = true
//
// Layer styles are written on each layer's shapes; the scene style is
// written on the <svg> element and fills in whatever a layer leaves unset.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/geosvg/pkg/errors"
	"github.com/matzehuels/geosvg/pkg/httputil"
	"github.com/matzehuels/geosvg/pkg/svg"
)

// Scene is a decoded scene file.
type Scene struct {
	Width   string      `toml:"width"`
	Height  string      `toml:"height"`
	Margin  float32     `toml:"margin"`
	Formats []string    `toml:"formats"`
	Style   StyleConfig `toml:"style"`
	Layers  []Layer     `toml:"layer"`
}

// Layer is one group of inputs drawn with a shared style.
type Layer struct {
	Name    string      `toml:"name"`
	Inputs  []string    `toml:"inputs"`
	WKT     string      `toml:"wkt"`
	GeoJSON string      `toml:"geojson"`
	Style   StyleConfig `toml:"style"`
}

// StyleConfig is the textual form of a style, shared by scene files, CLI
// flags and HTTP requests. Empty strings and nil pointers are unset.
type StyleConfig struct {
	Fill          string    `toml:"fill" json:"fill,omitempty"`
	Stroke        string    `toml:"stroke" json:"stroke,omitempty"`
	StrokeWidth   *float32  `toml:"stroke_width" json:"stroke_width,omitempty"`
	Opacity       *float32  `toml:"opacity" json:"opacity,omitempty"`
	FillOpacity   *float32  `toml:"fill_opacity" json:"fill_opacity,omitempty"`
	StrokeOpacity *float32  `toml:"stroke_opacity" json:"stroke_opacity,omitempty"`
	Dasharray     []float32 `toml:"dasharray" json:"dasharray,omitempty"`
	Linecap       string    `toml:"linecap" json:"linecap,omitempty"`
	Linejoin      string    `toml:"linejoin" json:"linejoin,omitempty"`
	Radius        *float32  `toml:"radius" json:"radius,omitempty"`

	// Arrows draws line strings as arrows pointing at their last vertex.
	Arrows bool `toml:"arrows" json:"arrows,omitempty"`
	// Labels draws each feature's label at its first vertex.
	Labels   bool     `toml:"labels" json:"labels,omitempty"`
	FontSize *float32 `toml:"font_size" json:"font_size,omitempty"`
}

// Load reads and decodes a scene file. Relative layer inputs are resolved
// against the directory of path.
func Load(path string) (Scene, error) {
	if err := errors.ValidateInputPath(path); err != nil {
		return Scene{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Scene{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open scene %s", path)
		}
		return Scene{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read scene %s", path)
	}
	scene, err := Decode(data)
	if err != nil {
		return Scene{}, err
	}
	return scene.Resolve(filepath.Dir(path)), nil
}

// Decode parses scene TOML. Unknown keys are rejected so that typos do not
// silently drop styling.
func Decode(data []byte) (Scene, error) {
	var scene Scene
	md, err := toml.Decode(string(data), &scene)
	if err != nil {
		return Scene{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode scene")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Scene{}, errors.New(errors.ErrCodeInvalidConfig, "unknown scene keys: %s", strings.Join(keys, ", "))
	}
	if err := scene.Validate(); err != nil {
		return Scene{}, err
	}
	return scene, nil
}

// Validate checks the scene and names unnamed layers "layer-N".
func (s *Scene) Validate() error {
	if s.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "margin must be non-negative, got %v", s.Margin)
	}
	if _, _, err := s.Dimensions(); err != nil {
		return err
	}
	if _, err := s.Style.ToStyle(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "scene style")
	}
	seen := make(map[string]bool, len(s.Layers))
	for i := range s.Layers {
		l := &s.Layers[i]
		if l.Name == "" {
			l.Name = fmt.Sprintf("layer-%d", i+1)
		}
		if err := errors.ValidateLayerName(l.Name); err != nil {
			return err
		}
		if seen[l.Name] {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate layer name %q", l.Name)
		}
		seen[l.Name] = true
		if len(l.Inputs) == 0 && l.WKT == "" && l.GeoJSON == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "layer %q has no inputs, wkt or geojson", l.Name)
		}
		if _, err := l.Style.ToStyle(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layer %q style", l.Name)
		}
	}
	return nil
}

// Resolve returns a copy with relative inputs joined to dir. URLs are kept
// as given.
func (s Scene) Resolve(dir string) Scene {
	layers := make([]Layer, len(s.Layers))
	for i, l := range s.Layers {
		inputs := make([]string, len(l.Inputs))
		for j, in := range l.Inputs {
			if filepath.IsAbs(in) || httputil.IsURL(in) {
				inputs[j] = in
			} else {
				inputs[j] = filepath.Join(dir, in)
			}
		}
		l.Inputs = inputs
		layers[i] = l
	}
	s.Layers = layers
	return s
}

// Dimensions parses the width and height. Unset sides are nil.
func (s Scene) Dimensions() (width, height *svg.Unit, err error) {
	parse := func(v, name string) (*svg.Unit, error) {
		if v == "" {
			return nil, nil
		}
		u, err := svg.ParseUnit(v)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "scene %s", name)
		}
		if u.Value <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "scene %s must be positive, got %s", name, v)
		}
		return &u, nil
	}
	if width, err = parse(s.Width, "width"); err != nil {
		return nil, nil, err
	}
	if height, err = parse(s.Height, "height"); err != nil {
		return nil, nil, err
	}
	return width, height, nil
}

// ToStyle converts the textual style into an svg.Style.
func (c StyleConfig) ToStyle() (svg.Style, error) {
	var s svg.Style
	if c.Fill != "" {
		col, err := svg.ParseColor(c.Fill)
		if err != nil {
			return svg.Style{}, err
		}
		s = s.WithFill(col)
	}
	if c.Stroke != "" {
		col, err := svg.ParseColor(c.Stroke)
		if err != nil {
			return svg.Style{}, err
		}
		s = s.WithStroke(col)
	}
	for name, v := range map[string]*float32{
		"opacity":        c.Opacity,
		"fill_opacity":   c.FillOpacity,
		"stroke_opacity": c.StrokeOpacity,
	} {
		if v != nil && (*v < 0 || *v > 1) {
			return svg.Style{}, errors.New(errors.ErrCodeInvalidStyle, "%s must be in [0, 1], got %v", name, *v)
		}
	}
	if c.Opacity != nil {
		s = s.WithOpacity(*c.Opacity)
	}
	if c.FillOpacity != nil {
		s = s.WithFillOpacity(*c.FillOpacity)
	}
	if c.StrokeOpacity != nil {
		s = s.WithStrokeOpacity(*c.StrokeOpacity)
	}
	if c.StrokeWidth != nil {
		if *c.StrokeWidth < 0 {
			return svg.Style{}, errors.New(errors.ErrCodeInvalidStyle, "stroke_width must be non-negative, got %v", *c.StrokeWidth)
		}
		s = s.WithStrokeWidth(*c.StrokeWidth)
	}
	if c.Radius != nil {
		if *c.Radius < 0 {
			return svg.Style{}, errors.New(errors.ErrCodeInvalidStyle, "radius must be non-negative, got %v", *c.Radius)
		}
		s = s.WithRadius(*c.Radius)
	}
	if c.Dasharray != nil {
		s = s.WithStrokeDasharray(c.Dasharray...)
	}
	if c.Linecap != "" {
		lc, err := ParseLineCap(c.Linecap)
		if err != nil {
			return svg.Style{}, err
		}
		s = s.WithStrokeLinecap(lc)
	}
	if c.Linejoin != "" {
		lj, err := ParseLineJoin(c.Linejoin)
		if err != nil {
			return svg.Style{}, err
		}
		s = s.WithStrokeLinejoin(lj)
	}
	return s, nil
}

// Or fills unset fields of c from other.
func (c StyleConfig) Or(other StyleConfig) StyleConfig {
	if c.Fill == "" {
		c.Fill = other.Fill
	}
	if c.Stroke == "" {
		c.Stroke = other.Stroke
	}
	if c.StrokeWidth == nil {
		c.StrokeWidth = other.StrokeWidth
	}
	if c.Opacity == nil {
		c.Opacity = other.Opacity
	}
	if c.FillOpacity == nil {
		c.FillOpacity = other.FillOpacity
	}
	if c.StrokeOpacity == nil {
		c.StrokeOpacity = other.StrokeOpacity
	}
	if c.Dasharray == nil {
		c.Dasharray = other.Dasharray
	}
	if c.Linecap == "" {
		c.Linecap = other.Linecap
	}
	if c.Linejoin == "" {
		c.Linejoin = other.Linejoin
	}
	if c.Radius == nil {
		c.Radius = other.Radius
	}
	if c.FontSize == nil {
		c.FontSize = other.FontSize
	}
	c.Arrows = c.Arrows || other.Arrows
	c.Labels = c.Labels || other.Labels
	return c
}

// ParseLineCap parses "butt", "round" or "square".
func ParseLineCap(s string) (svg.LineCap, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "butt":
		return svg.LineCapButt, nil
	case "round":
		return svg.LineCapRound, nil
	case "square":
		return svg.LineCapSquare, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidStyle, "invalid linecap %q (want butt, round or square)", s)
}

// ParseLineJoin parses "miter", "round" or "bevel".
func ParseLineJoin(s string) (svg.LineJoin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "miter":
		return svg.LineJoinMiter, nil
	case "round":
		return svg.LineJoinRound, nil
	case "bevel":
		return svg.LineJoinBevel, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidStyle, "invalid linejoin %q (want miter, round or bevel)", s)
}
