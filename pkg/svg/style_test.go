package svg

import (
	"testing"

	"github.com/matzehuels/geosvg/pkg/errors"
)

func TestColorString(t *testing.T) {
	tests := []struct {
		color Color
		want  string
	}{
		{Named("red"), "red"},
		{Named("none"), "none"},
		{RGB(200, 0, 100), "rgb(200,0,100)"},
		{Hex(0xFF0000), "#FF0000"},
		{Hex(0xFF), "#0000FF"},
		{Hex(0x1abcdef), "#ABCDEF"},
		{HSL(120, 50, 25), "hsl(120,50%,25%)"},
		{HSL(360, 150, 150), "hsl(0,100%,100%)"},
		{Color{}, ""},
	}

	for _, tt := range tests {
		if got := tt.color.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestColorHexString(t *testing.T) {
	tests := []struct {
		color  Color
		want   string
		wantOK bool
	}{
		{RGB(255, 0, 0), "#ff0000", true},
		{Hex(0x00FF00), "#00ff00", true},
		{HSL(240, 100, 50), "#0000ff", true},
		{Named("red"), "", false},
	}

	for _, tt := range tests {
		got, ok := tt.color.HexString()
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("%v.HexString() = %q, %v, want %q, %v", tt.color, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"red", "red", false},
		{"  SteelBlue ", "steelblue", false},
		{"#f00", "#FF0000", false},
		{"#00ff7f", "#00FF7F", false},
		{"rgb(1, 2, 3)", "rgb(1,2,3)", false},
		{"hsl(200,40%,60%)", "hsl(200,40%,60%)", false},
		{"none", "none", false},
		{"currentcolor", "currentColor", false},
		{"Transparent", "transparent", false},

		{"", "", true},
		{"#zzzzzz", "", true},
		{"rgb(1,2)", "", true},
		{"rgb(1,2,300)", "", true},
		{"rgb(1,2,3", "", true},
		{"light-blue", "", true},
		{"nope", "", true},
		{"blurple", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidColor) {
					t.Errorf("ParseColor(%q) code = %v, want %v", tt.input, errors.GetCode(err), errors.ErrCodeInvalidColor)
				}
				return
			}
			if got.String() != tt.want {
				t.Errorf("ParseColor(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUnitString(t *testing.T) {
	tests := []struct {
		unit Unit
		want string
	}{
		{Px(800), "800px"},
		{Cm(2.5), "2.5cm"},
		{In(1), "1in"},
		{Number(1.5), "1.5"},
		{Mm(0.1), "0.1mm"},
		{Pc(3), "3pc"},
		{Pt(12), "12pt"},
		{Q(2), "2Q"},
		{Px(10).Scale(0.5), "5px"},
	}

	for _, tt := range tests {
		if got := tt.unit.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseUnit(t *testing.T) {
	tests := []struct {
		input   string
		want    Unit
		wantErr bool
	}{
		{"800px", Px(800), false},
		{"21cm", Cm(21), false},
		{"512", Number(512), false},
		{" 1.5in ", In(1.5), false},
		{"4Q", Q(4), false},

		{"10em", Unit{}, true},
		{"px", Unit{}, true},
		{"", Unit{}, true},
		{"1.2.3mm", Unit{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseUnit(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseUnit(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseUnit(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestStyleAttrs(t *testing.T) {
	s := Style{}.
		WithStrokeLinejoin(LineJoinBevel).
		WithStrokeLinecap(LineCapRound).
		WithStrokeDasharray(4, 2.5).
		WithStrokeOpacity(0.5).
		WithStrokeWidth(2).
		WithStroke(Hex(0x112233)).
		WithFillOpacity(0.25).
		WithFill(Named("red")).
		WithOpacity(0.9).
		WithRadius(7)

	want := ` opacity="0.9" fill="red" fill-opacity="0.25" stroke="#112233" stroke-width="2"` +
		` stroke-opacity="0.5" stroke-dasharray="4 2.5" stroke-linecap="round" stroke-linejoin="bevel"`
	if got := s.Attrs(); got != want {
		t.Errorf("Attrs() =\n%s\nwant\n%s", got, want)
	}
	if got := (Style{}).Attrs(); got != "" {
		t.Errorf("empty Attrs() = %q, want empty", got)
	}
}

func TestStyleEmptyDasharray(t *testing.T) {
	s := Style{}.WithStrokeDasharray()
	if got, want := s.Attrs(), ` stroke-dasharray=""`; got != want {
		t.Errorf("Attrs() = %q, want %q", got, want)
	}
	if s.IsZero() {
		t.Error("IsZero() = true after setting an empty dasharray")
	}
}

func TestStyleDasharrayCopied(t *testing.T) {
	dash := []float32{1, 2}
	s := Style{}.WithStrokeDasharray(dash...)
	dash[0] = 9
	if s.StrokeDasharray[0] != 1 {
		t.Errorf("StrokeDasharray shares caller storage: %v", s.StrokeDasharray)
	}
}

func TestStyleOr(t *testing.T) {
	left := Style{}.WithFill(Named("red")).WithStrokeDasharray(1)
	right := Style{}.WithFill(Named("blue")).WithStroke(Named("black")).
		WithStrokeDasharray(5, 5).WithRadius(3)

	got := left.Or(right)

	if got.Fill.String() != "red" {
		t.Errorf("Or() fill = %v, want red", got.Fill)
	}
	if got.Stroke.String() != "black" {
		t.Errorf("Or() stroke = %v, want black", got.Stroke)
	}
	if len(got.StrokeDasharray) != 1 {
		t.Errorf("Or() dasharray = %v, want [1]", got.StrokeDasharray)
	}
	if got.EffectiveRadius() != 3 {
		t.Errorf("Or() radius = %v, want 3", got.EffectiveRadius())
	}
	if !(Style{}).Or(right).Equal(right) {
		t.Error("empty.Or(s) != s")
	}
	if !right.Or(Style{}).Equal(right) {
		t.Error("s.Or(empty) != s")
	}
}

func TestStyleWithDoesNotAlias(t *testing.T) {
	a := Style{}.WithOpacity(0.5)
	b := a.WithOpacity(0.8)
	if *a.Opacity != 0.5 || *b.Opacity != 0.8 {
		t.Errorf("opacity = %v, %v, want 0.5, 0.8", *a.Opacity, *b.Opacity)
	}
}

func TestStyleEffectiveRadius(t *testing.T) {
	if got := (Style{}).EffectiveRadius(); got != DefaultRadius {
		t.Errorf("EffectiveRadius() = %v, want %v", got, DefaultRadius)
	}
	if got := (Style{}).WithRadius(4).EffectiveRadius(); got != 4 {
		t.Errorf("EffectiveRadius() = %v, want 4", got)
	}
}

func TestWithColor(t *testing.T) {
	s := Style{}.WithColor(Named("green"))
	if got, want := s.Attrs(), ` fill="green" stroke="green"`; got != want {
		t.Errorf("Attrs() = %q, want %q", got, want)
	}
}
