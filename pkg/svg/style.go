package svg

import (
	"bytes"
	"fmt"
	"slices"
)

// DefaultRadius is the circle radius used for points when no radius is set.
const DefaultRadius float32 = 1.0

// LineCap is the stroke-linecap value.
type LineCap uint8

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

func (c LineCap) String() string {
	switch c {
	case LineCapRound:
		return "round"
	case LineCapSquare:
		return "square"
	default:
		return "butt"
	}
}

// LineJoin is the stroke-linejoin value.
type LineJoin uint8

const (
	LineJoinMiter LineJoin = iota
	LineJoinRound
	LineJoinBevel
)

func (j LineJoin) String() string {
	switch j {
	case LineJoinRound:
		return "round"
	case LineJoinBevel:
		return "bevel"
	default:
		return "miter"
	}
}

// Style holds presentation attributes. A nil field is unset and is not
// written. Styles are values: the With methods return a modified copy and
// never write through the receiver's pointers.
type Style struct {
	Opacity         *float32
	Fill            *Color
	FillOpacity     *float32
	Stroke          *Color
	StrokeWidth     *float32
	StrokeOpacity   *float32
	StrokeDasharray []float32
	StrokeLinecap   *LineCap
	StrokeLinejoin  *LineJoin

	// Radius is only used for points and as the arrowhead length.
	// It is never written as an attribute.
	Radius *float32
}

func ptr[T any](v T) *T { return &v }

// The With* setters return a copy of s with one property set. Values are
// written as given; nothing is clamped.

func (s Style) WithOpacity(v float32) Style       { s.Opacity = ptr(v); return s }
func (s Style) WithFill(c Color) Style            { s.Fill = ptr(c); return s }
func (s Style) WithFillOpacity(v float32) Style   { s.FillOpacity = ptr(v); return s }
func (s Style) WithStroke(c Color) Style          { s.Stroke = ptr(c); return s }
func (s Style) WithStrokeWidth(v float32) Style   { s.StrokeWidth = ptr(v); return s }
func (s Style) WithStrokeOpacity(v float32) Style { s.StrokeOpacity = ptr(v); return s }
func (s Style) WithRadius(v float32) Style        { s.Radius = ptr(v); return s }

// WithStrokeDasharray sets the dash pattern. An empty pattern is kept as
// set, which overrides an inherited one.
func (s Style) WithStrokeDasharray(v ...float32) Style {
	s.StrokeDasharray = slices.Clone(v)
	if s.StrokeDasharray == nil {
		s.StrokeDasharray = []float32{}
	}
	return s
}

func (s Style) WithStrokeLinecap(c LineCap) Style   { s.StrokeLinecap = ptr(c); return s }
func (s Style) WithStrokeLinejoin(j LineJoin) Style { s.StrokeLinejoin = ptr(j); return s }

// WithColor sets both fill and stroke.
func (s Style) WithColor(c Color) Style {
	return s.WithFill(c).WithStroke(c)
}

// EffectiveRadius returns the radius, or DefaultRadius when unset.
func (s Style) EffectiveRadius() float32 {
	if s.Radius != nil {
		return *s.Radius
	}
	return DefaultRadius
}

// strokeWidthOr returns the stroke width, or def when unset.
func (s Style) strokeWidthOr(def float32) float32 {
	if s.StrokeWidth != nil {
		return *s.StrokeWidth
	}
	return def
}

// Or fills every unset field of s from other. Fields set on s win.
func (s Style) Or(other Style) Style {
	s.Opacity = or(s.Opacity, other.Opacity)
	s.Fill = or(s.Fill, other.Fill)
	s.FillOpacity = or(s.FillOpacity, other.FillOpacity)
	s.Stroke = or(s.Stroke, other.Stroke)
	s.StrokeWidth = or(s.StrokeWidth, other.StrokeWidth)
	s.StrokeOpacity = or(s.StrokeOpacity, other.StrokeOpacity)
	if s.StrokeDasharray == nil {
		s.StrokeDasharray = other.StrokeDasharray
	}
	s.StrokeLinecap = or(s.StrokeLinecap, other.StrokeLinecap)
	s.StrokeLinejoin = or(s.StrokeLinejoin, other.StrokeLinejoin)
	s.Radius = or(s.Radius, other.Radius)
	return s
}

func or[T any](a, b *T) *T {
	if a != nil {
		return a
	}
	return b
}

// IsZero reports whether no field is set.
func (s Style) IsZero() bool {
	return s.Opacity == nil && s.Fill == nil && s.FillOpacity == nil &&
		s.Stroke == nil && s.StrokeWidth == nil && s.StrokeOpacity == nil &&
		s.StrokeDasharray == nil && s.StrokeLinecap == nil && s.StrokeLinejoin == nil &&
		s.Radius == nil
}

// Equal compares field values rather than pointers.
func (s Style) Equal(o Style) bool {
	return eq(s.Opacity, o.Opacity) && eq(s.Fill, o.Fill) && eq(s.FillOpacity, o.FillOpacity) &&
		eq(s.Stroke, o.Stroke) && eq(s.StrokeWidth, o.StrokeWidth) && eq(s.StrokeOpacity, o.StrokeOpacity) &&
		(s.StrokeDasharray == nil) == (o.StrokeDasharray == nil) && slices.Equal(s.StrokeDasharray, o.StrokeDasharray) &&
		eq(s.StrokeLinecap, o.StrokeLinecap) && eq(s.StrokeLinejoin, o.StrokeLinejoin) && eq(s.Radius, o.Radius)
}

func eq[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Attrs returns the presentation attributes, each preceded by a space, in a
// fixed order.
func (s Style) Attrs() string {
	var buf bytes.Buffer
	if s.Opacity != nil {
		fmt.Fprintf(&buf, ` opacity="%s"`, formatScalar(*s.Opacity))
	}
	if s.Fill != nil {
		fmt.Fprintf(&buf, ` fill="%s"`, s.Fill)
	}
	if s.FillOpacity != nil {
		fmt.Fprintf(&buf, ` fill-opacity="%s"`, formatScalar(*s.FillOpacity))
	}
	if s.Stroke != nil {
		fmt.Fprintf(&buf, ` stroke="%s"`, s.Stroke)
	}
	if s.StrokeWidth != nil {
		fmt.Fprintf(&buf, ` stroke-width="%s"`, formatScalar(*s.StrokeWidth))
	}
	if s.StrokeOpacity != nil {
		fmt.Fprintf(&buf, ` stroke-opacity="%s"`, formatScalar(*s.StrokeOpacity))
	}
	if s.StrokeDasharray != nil {
		fmt.Fprintf(&buf, ` stroke-dasharray="%s"`, joinScalars(s.StrokeDasharray, " "))
	}
	if s.StrokeLinecap != nil {
		fmt.Fprintf(&buf, ` stroke-linecap="%s"`, s.StrokeLinecap)
	}
	if s.StrokeLinejoin != nil {
		fmt.Fprintf(&buf, ` stroke-linejoin="%s"`, s.StrokeLinejoin)
	}
	return buf.String()
}

// String is the same as Attrs.
func (s Style) String() string { return s.Attrs() }
