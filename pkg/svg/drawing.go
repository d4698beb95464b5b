package svg

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// Drawing is a tree of renderables. Unlike a Document, a drawing keeps its
// items unrendered until output, and every style setter applies to the
// drawing and recursively to all siblings joined with And.
type Drawing struct {
	items         []Renderable
	siblings      []Drawing
	style         Style
	margin        float32
	width, height *Unit
}

// NewDrawing returns a drawing of the given items with an empty style.
func NewDrawing(items ...Renderable) Drawing {
	return Drawing{items: slices.Clone(items)}
}

// And attaches sibling to d.
func (d Drawing) And(sibling Drawing) Drawing {
	d.siblings = append(slices.Clip(d.siblings), sibling)
	return d
}

// apply rewrites the style of d and of every sibling below it.
func (d Drawing) apply(f func(Style) Style) Drawing {
	d.style = f(d.style)
	if len(d.siblings) > 0 {
		sibs := make([]Drawing, len(d.siblings))
		for i, s := range d.siblings {
			sibs[i] = s.apply(f)
		}
		d.siblings = sibs
	}
	return d
}

// WithStyle replaces the style of the whole tree.
func (d Drawing) WithStyle(s Style) Drawing {
	return d.apply(func(Style) Style { return s })
}

func (d Drawing) WithOpacity(v float32) Drawing {
	return d.apply(func(s Style) Style { return s.WithOpacity(v) })
}

func (d Drawing) WithFill(c Color) Drawing {
	return d.apply(func(s Style) Style { return s.WithFill(c) })
}

func (d Drawing) WithFillOpacity(v float32) Drawing {
	return d.apply(func(s Style) Style { return s.WithFillOpacity(v) })
}

func (d Drawing) WithStroke(c Color) Drawing {
	return d.apply(func(s Style) Style { return s.WithStroke(c) })
}

func (d Drawing) WithStrokeWidth(v float32) Drawing {
	return d.apply(func(s Style) Style { return s.WithStrokeWidth(v) })
}

func (d Drawing) WithStrokeOpacity(v float32) Drawing {
	return d.apply(func(s Style) Style { return s.WithStrokeOpacity(v) })
}

func (d Drawing) WithStrokeDasharray(v ...float32) Drawing {
	return d.apply(func(s Style) Style { return s.WithStrokeDasharray(v...) })
}

func (d Drawing) WithStrokeLinecap(c LineCap) Drawing {
	return d.apply(func(s Style) Style { return s.WithStrokeLinecap(c) })
}

func (d Drawing) WithStrokeLinejoin(j LineJoin) Drawing {
	return d.apply(func(s Style) Style { return s.WithStrokeLinejoin(j) })
}

func (d Drawing) WithRadius(v float32) Drawing {
	return d.apply(func(s Style) Style { return s.WithRadius(v) })
}

// WithColor sets fill and stroke on the whole tree.
func (d Drawing) WithColor(c Color) Drawing {
	return d.apply(func(s Style) Style { return s.WithColor(c) })
}

// WithMargin pads this drawing's view box after all items and siblings are
// accumulated. It is not propagated.
func (d Drawing) WithMargin(m float32) Drawing {
	d.margin = m
	return d
}

func (d Drawing) WithWidth(u Unit) Drawing {
	d.width = &u
	return d
}

func (d Drawing) WithHeight(u Unit) Drawing {
	d.height = &u
	return d
}

func (d Drawing) Style() Style { return d.style }

// Content renders the own items under the drawing's style, followed by
// each sibling's content.
func (d Drawing) Content() string {
	var sb strings.Builder
	for _, it := range d.items {
		sb.WriteString(it.SVG(d.style))
	}
	for _, s := range d.siblings {
		sb.WriteString(s.Content())
	}
	return sb.String()
}

// ViewBox is the union of every item and sibling, grown by the margin.
func (d Drawing) ViewBox() ViewBox {
	var vb ViewBox
	for _, it := range d.items {
		vb = vb.Union(it.Bounds(d.style))
	}
	for _, s := range d.siblings {
		vb = vb.Union(s.ViewBox())
	}
	return vb.WithMargin(d.margin)
}

// Dimensions returns the width and height that String writes.
func (d Drawing) Dimensions() (w, h Unit, ok bool) {
	return dimensions(d.ViewBox(), d.width, d.height)
}

// String renders the drawing as a standalone <svg> element. Style is carried
// on the shapes, not on the root.
func (d Drawing) String() string {
	vb := d.ViewBox()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, svgOpen, vb)
	writeDimensions(&buf, vb, d.width, d.height)
	buf.WriteByte('>')
	buf.WriteString(d.Content())
	buf.WriteString("</svg>")
	return buf.String()
}

// SVG renders d as a nested <svg> with s applied to the whole tree.
func (d Drawing) SVG(s Style) string { return d.WithStyle(s).String() }

func (d Drawing) Bounds(s Style) ViewBox { return d.WithStyle(s).ViewBox() }

// Combine joins items into a single drawing with And. It reports false
// when items is empty.
func Combine[T Renderable](items []T) (Drawing, bool) {
	if len(items) == 0 {
		return Drawing{}, false
	}
	d := NewDrawing(items[0])
	for _, it := range items[1:] {
		d = d.And(NewDrawing(it))
	}
	return d, true
}
