package svg

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"strings"
)

const svgOpen = `<svg xmlns="http://www.w3.org/2000/svg" preserveAspectRatio="xMidYMid meet" viewBox="%s"`

// =============================================================================
// StyleBuilder
// =============================================================================

// StyleBuilder collects the style for a new Part.
type StyleBuilder struct {
	style Style
}

// NewStyleBuilder starts a document with an empty style.
func NewStyleBuilder() StyleBuilder { return StyleBuilder{} }

func (b StyleBuilder) WithOpacity(v float32) StyleBuilder {
	b.style = b.style.WithOpacity(v)
	return b
}

func (b StyleBuilder) WithFill(c Color) StyleBuilder {
	b.style = b.style.WithFill(c)
	return b
}

func (b StyleBuilder) WithFillOpacity(v float32) StyleBuilder {
	b.style = b.style.WithFillOpacity(v)
	return b
}

func (b StyleBuilder) WithStroke(c Color) StyleBuilder {
	b.style = b.style.WithStroke(c)
	return b
}

func (b StyleBuilder) WithStrokeWidth(v float32) StyleBuilder {
	b.style = b.style.WithStrokeWidth(v)
	return b
}

func (b StyleBuilder) WithStrokeOpacity(v float32) StyleBuilder {
	b.style = b.style.WithStrokeOpacity(v)
	return b
}

func (b StyleBuilder) WithStrokeDasharray(v ...float32) StyleBuilder {
	b.style = b.style.WithStrokeDasharray(v...)
	return b
}

func (b StyleBuilder) WithStrokeLinecap(c LineCap) StyleBuilder {
	b.style = b.style.WithStrokeLinecap(c)
	return b
}

func (b StyleBuilder) WithStrokeLinejoin(j LineJoin) StyleBuilder {
	b.style = b.style.WithStrokeLinejoin(j)
	return b
}

func (b StyleBuilder) WithRadius(v float32) StyleBuilder {
	b.style = b.style.WithRadius(v)
	return b
}

func (b StyleBuilder) WithColor(c Color) StyleBuilder {
	b.style = b.style.WithColor(c)
	return b
}

// UseStyle replaces the whole style.
func (b StyleBuilder) UseStyle(s Style) StyleBuilder {
	b.style = s
	return b
}

// OrStyle fills unset fields from s.
func (b StyleBuilder) OrStyle(s Style) StyleBuilder {
	b.style = b.style.Or(s)
	return b
}

// FinishStyle freezes the style and returns an empty Part.
func (b StyleBuilder) FinishStyle() Part {
	return Part{style: b.style}
}

// =============================================================================
// Part
// =============================================================================

// Part is a group of shapes rendered under one style. Shapes are rendered
// when added; their markup does not change afterwards.
type Part struct {
	style   Style
	viewBox ViewBox
	shapes  []string
}

// AddShape renders r at the part's style and grows the view box.
func (p Part) AddShape(r Renderable) Part {
	p.viewBox = p.viewBox.Union(r.Bounds(p.style))
	p.shapes = append(slices.Clip(p.shapes), r.SVG(p.style))
	return p
}

// AddShapes adds each shape in order.
func (p Part) AddShapes(rs ...Renderable) Part {
	for _, r := range rs {
		p = p.AddShape(r)
	}
	return p
}

// FinishShapes wraps the part in a Document with an empty outer style.
func (p Part) FinishShapes() Document {
	return Document{viewBox: p.viewBox, parts: []Part{p}}
}

func (p Part) Style() Style     { return p.style }
func (p Part) ViewBox() ViewBox { return p.viewBox }
func (p Part) Len() int         { return len(p.shapes) }
func (p Part) Content() string  { return strings.Join(p.shapes, "") }

// =============================================================================
// Document
// =============================================================================

// Document is a finished set of parts with an outer style written on the
// <svg> element.
type Document struct {
	style         Style
	viewBox       ViewBox
	parts         []Part
	width, height *Unit
}

// And combines two documents. The view boxes are unioned, the style falls
// back to other's values for fields d leaves unset, and d's parts come
// first.
func (d Document) And(other Document) Document {
	d.viewBox = d.viewBox.Union(other.viewBox)
	d.style = d.style.Or(other.style)
	d.parts = slices.Concat(d.parts, other.parts)
	if d.width == nil {
		d.width = other.width
	}
	if d.height == nil {
		d.height = other.height
	}
	return d
}

// The With* setters below set one property of the style written on the
// <svg> element. They mirror the Style setters.

func (d Document) WithOpacity(v float32) Document       { d.style = d.style.WithOpacity(v); return d }
func (d Document) WithFill(c Color) Document            { d.style = d.style.WithFill(c); return d }
func (d Document) WithFillOpacity(v float32) Document   { d.style = d.style.WithFillOpacity(v); return d }
func (d Document) WithStroke(c Color) Document          { d.style = d.style.WithStroke(c); return d }
func (d Document) WithStrokeWidth(v float32) Document   { d.style = d.style.WithStrokeWidth(v); return d }
func (d Document) WithStrokeOpacity(v float32) Document { d.style = d.style.WithStrokeOpacity(v); return d }
func (d Document) WithRadius(v float32) Document        { d.style = d.style.WithRadius(v); return d }
func (d Document) WithColor(c Color) Document           { d.style = d.style.WithColor(c); return d }

func (d Document) WithStrokeDasharray(v ...float32) Document {
	d.style = d.style.WithStrokeDasharray(v...)
	return d
}

func (d Document) WithStrokeLinecap(c LineCap) Document {
	d.style = d.style.WithStrokeLinecap(c)
	return d
}

func (d Document) WithStrokeLinejoin(j LineJoin) Document {
	d.style = d.style.WithStrokeLinejoin(j)
	return d
}

// UseStyle replaces the outer style.
func (d Document) UseStyle(s Style) Document {
	d.style = s
	return d
}

// OrStyle fills unset outer style fields from s.
func (d Document) OrStyle(s Style) Document {
	d.style = d.style.Or(s)
	return d
}

// WithMargin grows the accumulated view box on every side.
func (d Document) WithMargin(m float32) Document {
	d.viewBox = d.viewBox.WithMargin(m)
	return d
}

// WithWidth sets the rendered width. Without a height, the height follows
// the view box aspect ratio.
func (d Document) WithWidth(u Unit) Document {
	d.width = &u
	return d
}

// WithHeight sets the rendered height. Without a width, the width follows
// the view box aspect ratio.
func (d Document) WithHeight(u Unit) Document {
	d.height = &u
	return d
}

func (d Document) Style() Style     { return d.style }
func (d Document) ViewBox() ViewBox { return d.viewBox }
func (d Document) Parts() []Part    { return slices.Clone(d.parts) }

// Dimensions returns the width and height that Render writes, and false
// when neither was set.
func (d Document) Dimensions() (w, h Unit, ok bool) {
	return dimensions(d.viewBox, d.width, d.height)
}

// Content returns the concatenated markup of every part.
func (d Document) Content() string {
	var sb strings.Builder
	for _, p := range d.parts {
		for _, s := range p.shapes {
			sb.WriteString(s)
		}
	}
	return sb.String()
}

// Render returns the complete <svg> element.
func (d Document) Render() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, svgOpen, d.viewBox)
	writeDimensions(&buf, d.viewBox, d.width, d.height)
	buf.WriteByte(' ')
	buf.WriteString(d.style.Attrs())
	buf.WriteByte('>')
	buf.WriteString(d.Content())
	buf.WriteString("</svg>")
	return buf.String()
}

func (d Document) String() string { return d.Render() }

// SVG lets a document be placed inside another as a nested <svg>. The
// given style is used as a fallback for the document's own.
func (d Document) SVG(s Style) string { return d.OrStyle(s).Render() }

func (d Document) Bounds(Style) ViewBox { return d.viewBox }

// =============================================================================
// Dimensions
// =============================================================================

// dimensions resolves width and height. A missing side is derived from the
// other using the view box aspect ratio; a degenerate box counts as square.
func dimensions(vb ViewBox, width, height *Unit) (w, h Unit, ok bool) {
	switch {
	case width != nil && height != nil:
		return *width, *height, true
	case width != nil:
		return *width, width.Scale(ratio(vb.Height(), vb.Width())), true
	case height != nil:
		return height.Scale(ratio(vb.Width(), vb.Height())), *height, true
	default:
		return Unit{}, Unit{}, false
	}
}

func ratio(num, den float32) float32 {
	r := num / den
	if f := float64(r); math.IsNaN(f) || math.IsInf(f, 0) || r == 0 {
		return 1
	}
	return r
}

func writeDimensions(buf *bytes.Buffer, vb ViewBox, width, height *Unit) {
	if w, h, ok := dimensions(vb, width, height); ok {
		fmt.Fprintf(buf, ` width="%s" height="%s"`, w, h)
	}
}
