package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/geosvg/pkg/errors"
	"github.com/matzehuels/geosvg/pkg/svg"
)

const testScene = `
width   = "800px"
margin  = 2
formats = ["svg", "png"]

[style]
stroke       = "black"
stroke_width = 0.5

[[layer]]
name   = "roads"
inputs = ["roads.geojson", "/abs/rivers.wkt", "https://example.com/parks.kml"]

[layer.style]
stroke    = "#888888"
dasharray = [4, 2]
linecap   = "round"

[[layer]]
wkt = "MULTIPOINT((1 2),(3 4))"

[layer.style]
fill   = "red"
radius = 2
labels = true
`

func TestDecode(t *testing.T) {
	scene, err := Decode([]byte(testScene))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if scene.Width != "800px" || scene.Margin != 2 {
		t.Errorf("Decode() width, margin = %q, %v, want 800px, 2", scene.Width, scene.Margin)
	}
	if len(scene.Formats) != 2 {
		t.Errorf("Decode() formats = %v, want [svg png]", scene.Formats)
	}
	if len(scene.Layers) != 2 {
		t.Fatalf("Decode() layers = %d, want 2", len(scene.Layers))
	}
	if got := scene.Layers[1].Name; got != "layer-2" {
		t.Errorf("unnamed layer Name = %q, want layer-2", got)
	}
	if !scene.Layers[1].Style.Labels {
		t.Error("Layers[1].Style.Labels = false, want true")
	}

	w, h, err := scene.Dimensions()
	if err != nil || w == nil || *w != svg.Px(800) || h != nil {
		t.Errorf("Dimensions() = %v, %v, %v, want 800px, nil, nil", w, h, err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"syntax", `width = `, errors.ErrCodeInvalidConfig},
		{"unknown key", "colour = \"red\"\n", errors.ErrCodeInvalidConfig},
		{"unknown layer key", "[[layer]]\nwkt = \"POINT(1 1)\"\nfil = \"red\"\n", errors.ErrCodeInvalidConfig},
		{"negative margin", "margin = -1\n", errors.ErrCodeInvalidConfig},
		{"bad width", "width = \"10em\"\n", errors.ErrCodeInvalidConfig},
		{"zero height", "height = \"0px\"\n", errors.ErrCodeInvalidConfig},
		{"bad color", "[style]\nfill = \"#12\"\n", errors.ErrCodeInvalidConfig},
		{"empty layer", "[[layer]]\nname = \"x\"\n", errors.ErrCodeInvalidConfig},
		{"duplicate layer", "[[layer]]\nname = \"a\"\nwkt = \"POINT(1 1)\"\n[[layer]]\nname = \"a\"\nwkt = \"POINT(1 1)\"\n", errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			if !errors.Is(err, tt.code) {
				t.Errorf("Decode() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestLoadResolvesInputs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.toml")
	if err := os.WriteFile(path, []byte(testScene), 0o644); err != nil {
		t.Fatal(err)
	}

	scene, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	inputs := scene.Layers[0].Inputs
	if want := filepath.Join(dir, "roads.geojson"); inputs[0] != want {
		t.Errorf("Inputs[0] = %q, want %q", inputs[0], want)
	}
	if inputs[1] != "/abs/rivers.wkt" {
		t.Errorf("Inputs[1] = %q, want absolute path unchanged", inputs[1])
	}
	if inputs[2] != "https://example.com/parks.kml" {
		t.Errorf("Inputs[2] = %q, want URL unchanged", inputs[2])
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}
}

func f32(v float32) *float32 { return &v }

func TestToStyle(t *testing.T) {
	cfg := StyleConfig{
		Fill:          "red",
		Stroke:        "rgb(1,2,3)",
		StrokeWidth:   f32(1.5),
		Opacity:       f32(0.5),
		FillOpacity:   f32(0.25),
		StrokeOpacity: f32(1),
		Dasharray:     []float32{3, 1},
		Linecap:       "square",
		Linejoin:      "Bevel",
		Radius:        f32(4),
	}

	s, err := cfg.ToStyle()
	if err != nil {
		t.Fatalf("ToStyle() error = %v", err)
	}
	want := ` opacity="0.5" fill="red" fill-opacity="0.25" stroke="rgb(1,2,3)" stroke-width="1.5"` +
		` stroke-opacity="1" stroke-dasharray="3 1" stroke-linecap="square" stroke-linejoin="bevel"`
	if got := s.Attrs(); got != want {
		t.Errorf("ToStyle().Attrs() =\n%s\nwant\n%s", got, want)
	}
	if s.EffectiveRadius() != 4 {
		t.Errorf("EffectiveRadius() = %v, want 4", s.EffectiveRadius())
	}

	empty, err := StyleConfig{}.ToStyle()
	if err != nil || !empty.IsZero() {
		t.Errorf("StyleConfig{}.ToStyle() = %v, %v, want zero style", empty, err)
	}
}

func TestToStyleErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  StyleConfig
		code errors.Code
	}{
		{"fill", StyleConfig{Fill: "not a color"}, errors.ErrCodeInvalidColor},
		{"stroke", StyleConfig{Stroke: "rgb(1,2)"}, errors.ErrCodeInvalidColor},
		{"opacity", StyleConfig{Opacity: f32(1.5)}, errors.ErrCodeInvalidStyle},
		{"stroke opacity", StyleConfig{StrokeOpacity: f32(-0.1)}, errors.ErrCodeInvalidStyle},
		{"stroke width", StyleConfig{StrokeWidth: f32(-1)}, errors.ErrCodeInvalidStyle},
		{"radius", StyleConfig{Radius: f32(-2)}, errors.ErrCodeInvalidStyle},
		{"linecap", StyleConfig{Linecap: "pointy"}, errors.ErrCodeInvalidStyle},
		{"linejoin", StyleConfig{Linejoin: "glue"}, errors.ErrCodeInvalidStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.ToStyle()
			if !errors.Is(err, tt.code) {
				t.Errorf("ToStyle() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestStyleConfigOr(t *testing.T) {
	layer := StyleConfig{Fill: "red", Labels: true}
	scene := StyleConfig{Fill: "blue", Stroke: "black", Radius: f32(3)}

	got := layer.Or(scene)
	if got.Fill != "red" || got.Stroke != "black" || got.Radius == nil || *got.Radius != 3 || !got.Labels {
		t.Errorf("Or() = %+v", got)
	}
}

func TestParseLineCapJoin(t *testing.T) {
	for _, s := range []string{"butt", "round", "square"} {
		c, err := ParseLineCap(s)
		if err != nil || c.String() != s {
			t.Errorf("ParseLineCap(%q) = %v, %v", s, c, err)
		}
	}
	for _, s := range []string{"miter", "round", "bevel"} {
		j, err := ParseLineJoin(s)
		if err != nil || j.String() != s {
			t.Errorf("ParseLineJoin(%q) = %v, %v", s, j, err)
		}
	}
	if _, err := ParseLineCap(""); err == nil || !strings.Contains(err.Error(), "linecap") {
		t.Errorf("ParseLineCap(\"\") error = %v", err)
	}
}
