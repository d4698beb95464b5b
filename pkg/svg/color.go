package svg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/matzehuels/geosvg/pkg/errors"
)

type colorKind uint8

const (
	colorNamed colorKind = iota
	colorRGB
	colorHex
	colorHSL
)

// Color is an SVG paint value. The zero value is the empty named color.
type Color struct {
	kind    colorKind
	name    string
	r, g, b uint8
	hex     uint32
	h       uint16
	s, l    uint8
}

// Named returns a color keyword such as "red" or "none".
func Named(name string) Color { return Color{kind: colorNamed, name: name} }

// RGB returns a color written as rgb(r,g,b).
func RGB(r, g, b uint8) Color { return Color{kind: colorRGB, r: r, g: g, b: b} }

// Hex returns a color written as #RRGGBB. Only the low 24 bits are used.
func Hex(v uint32) Color { return Color{kind: colorHex, hex: v & 0xFFFFFF} }

// HSL returns a color written as hsl(h,s%,l%). The hue wraps at 360 and
// saturation and lightness are clamped to 100 when written.
func HSL(h uint16, s, l uint8) Color { return Color{kind: colorHSL, h: h, s: s, l: l} }

// String returns the SVG attribute value.
func (c Color) String() string {
	switch c.kind {
	case colorRGB:
		return fmt.Sprintf("rgb(%d,%d,%d)", c.r, c.g, c.b)
	case colorHex:
		return fmt.Sprintf("#%06X", c.hex)
	case colorHSL:
		return fmt.Sprintf("hsl(%d,%d%%,%d%%)", c.h%360, min(c.s, 100), min(c.l, 100))
	default:
		return c.name
	}
}

// HexString converts the color to "#rrggbb". Keyword colors have no fixed
// value and report false.
func (c Color) HexString() (string, bool) {
	switch c.kind {
	case colorRGB:
		return colorful.Color{R: float64(c.r) / 255, G: float64(c.g) / 255, B: float64(c.b) / 255}.Hex(), true
	case colorHex:
		return fmt.Sprintf("#%06x", c.hex), true
	case colorHSL:
		return colorful.Hsl(float64(c.h%360), float64(min(c.s, 100))/100, float64(min(c.l, 100))/100).Clamped().Hex(), true
	default:
		return "", false
	}
}

// ParseColor parses "#rgb", "#rrggbb", "rgb(r,g,b)", "hsl(h,s%,l%)" or a
// color keyword: an SVG named color, none, currentColor or transparent.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Color{}, errors.New(errors.ErrCodeInvalidColor, "empty color")
	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid hex color %q", s)
		}
		r, g, b := c.RGB255()
		return Hex(uint32(r)<<16 | uint32(g)<<8 | uint32(b)), nil
	case strings.HasPrefix(s, "rgb("):
		vals, err := parseColorArgs(s, "rgb(", 255, 255, 255)
		if err != nil {
			return Color{}, err
		}
		return RGB(uint8(vals[0]), uint8(vals[1]), uint8(vals[2])), nil
	case strings.HasPrefix(s, "hsl("):
		vals, err := parseColorArgs(s, "hsl(", 65535, 255, 255)
		if err != nil {
			return Color{}, err
		}
		return HSL(uint16(vals[0]), uint8(vals[1]), uint8(vals[2])), nil
	}

	name := strings.ToLower(s)
	if kw, ok := paintKeywords[name]; ok {
		return Named(kw), nil
	}
	if _, ok := colornames.Map[name]; !ok {
		return Color{}, errors.New(errors.ErrCodeInvalidColor, "unknown color keyword %q", s)
	}
	return Named(name), nil
}

// paintKeywords are the non-color paint values accepted besides the SVG
// named colors, keyed by their lowercase form.
var paintKeywords = map[string]string{
	"none":         "none",
	"currentcolor": "currentColor",
	"transparent":  "transparent",
}

func parseColorArgs(s, prefix string, limits ...uint64) ([]uint64, error) {
	body, ok := strings.CutSuffix(strings.TrimPrefix(s, prefix), ")")
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidColor, "unterminated color %q", s)
	}
	fields := strings.Split(body, ",")
	if len(fields) != len(limits) {
		return nil, errors.New(errors.ErrCodeInvalidColor, "color %q needs %d components", s, len(limits))
	}
	vals := make([]uint64, len(fields))
	for i, f := range fields {
		f = strings.TrimSuffix(strings.TrimSpace(f), "%")
		v, err := strconv.ParseUint(f, 10, 64)
		if err != nil || v > limits[i] {
			return nil, errors.New(errors.ErrCodeInvalidColor, "invalid component %q in color %q", f, s)
		}
		vals[i] = v
	}
	return vals, nil
}
