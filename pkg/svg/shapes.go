package svg

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// Point is drawn as a circle of the style's radius.
type Point orb.Point

func (p Point) SVG(s Style) string {
	return fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s"%s/>`,
		formatCoord(p[0]), formatCoord(p[1]), formatScalar(s.EffectiveRadius()), s.Attrs())
}

// Bounds is a square around the point with half-width radius plus stroke
// width. An unset stroke width counts as 1 even though no stroke is drawn.
func (p Point) Bounds(s Style) ViewBox {
	x, y := toDisplay(p[0]), toDisplay(p[1])
	r := s.EffectiveRadius() + s.strokeWidthOr(1)
	return NewViewBox(x-r, y-r, x+r, y+r)
}

// Line is a single straight segment.
type Line struct {
	Start, End orb.Point
}

func (l Line) SVG(s Style) string {
	return fmt.Sprintf(`<path d="M %s %s L %s %s"%s/>`,
		formatCoord(l.Start[0]), formatCoord(l.Start[1]),
		formatCoord(l.End[0]), formatCoord(l.End[1]), s.Attrs())
}

// Bounds covers both endpoints inflated by the stroke width only.
func (l Line) Bounds(s Style) ViewBox {
	s = s.WithRadius(0)
	return Point(l.Start).Bounds(s).Union(Point(l.End).Bounds(s))
}

// segments calls fn for every consecutive pair of points.
func segments(pts []orb.Point, fn func(Line)) {
	for i := 1; i < len(pts); i++ {
		fn(Line{Start: pts[i-1], End: pts[i]})
	}
}

// LineString is drawn as one path per segment.
type LineString orb.LineString

func (ls LineString) SVG(s Style) string {
	var sb strings.Builder
	segments(ls, func(l Line) { sb.WriteString(l.SVG(s)) })
	return sb.String()
}

func (ls LineString) Bounds(s Style) ViewBox {
	var vb ViewBox
	segments(ls, func(l Line) { vb = vb.Union(l.Bounds(s)) })
	return vb
}

// closeRing returns the ring with its first point repeated at the end when
// it is not already closed.
func closeRing(r orb.Ring) []orb.Point {
	if len(r) == 0 || r[0] == r[len(r)-1] {
		return r
	}
	out := make([]orb.Point, len(r)+1)
	copy(out, r)
	out[len(r)] = r[0]
	return out
}

// Polygon is drawn as a single even-odd path with one closed sub-path per
// ring, exterior first, so holes cut out of the fill.
type Polygon orb.Polygon

func (p Polygon) SVG(s Style) string {
	var d bytes.Buffer
	for _, ring := range p {
		pts := closeRing(ring)
		if len(pts) == 0 {
			continue
		}
		if d.Len() > 0 {
			d.WriteByte(' ')
		}
		fmt.Fprintf(&d, "M %s %s", formatCoord(pts[0][0]), formatCoord(pts[0][1]))
		for _, pt := range pts[1:] {
			fmt.Fprintf(&d, " L %s %s", formatCoord(pt[0]), formatCoord(pt[1]))
		}
		d.WriteString(" Z")
	}
	if d.Len() == 0 {
		return ""
	}
	return fmt.Sprintf(`<path fill-rule="evenodd" d="%s"%s/>`, d.String(), s.Attrs())
}

func (p Polygon) Bounds(s Style) ViewBox {
	var vb ViewBox
	for _, ring := range p {
		segments(closeRing(ring), func(l Line) { vb = vb.Union(l.Bounds(s)) })
	}
	return vb
}

// Ring is drawn as a polygon without holes.
type Ring orb.Ring

func (r Ring) SVG(s Style) string      { return Polygon{orb.Ring(r)}.SVG(s) }
func (r Ring) Bounds(s Style) ViewBox { return Polygon{orb.Ring(r)}.Bounds(s) }

// Rect is an axis-aligned rectangle drawn as a polygon.
type Rect orb.Bound

func (r Rect) polygon() Polygon {
	return Polygon{orb.Ring{
		{r.Max[0], r.Min[1]},
		{r.Max[0], r.Max[1]},
		{r.Min[0], r.Max[1]},
		{r.Min[0], r.Min[1]},
		{r.Max[0], r.Min[1]},
	}}
}

func (r Rect) SVG(s Style) string      { return r.polygon().SVG(s) }
func (r Rect) Bounds(s Style) ViewBox { return r.polygon().Bounds(s) }

// Triangle is drawn as a closed three-point polygon.
type Triangle [3]orb.Point

func (t Triangle) polygon() Polygon {
	return Polygon{orb.Ring{t[0], t[1], t[2], t[0]}}
}

func (t Triangle) SVG(s Style) string      { return t.polygon().SVG(s) }
func (t Triangle) Bounds(s Style) ViewBox { return t.polygon().Bounds(s) }

type MultiPoint orb.MultiPoint

func (mp MultiPoint) SVG(s Style) string {
	var sb strings.Builder
	for _, p := range mp {
		sb.WriteString(Point(p).SVG(s))
	}
	return sb.String()
}

func (mp MultiPoint) Bounds(s Style) ViewBox {
	var vb ViewBox
	for _, p := range mp {
		vb = vb.Union(Point(p).Bounds(s))
	}
	return vb
}

type MultiLineString orb.MultiLineString

func (mls MultiLineString) SVG(s Style) string {
	var sb strings.Builder
	for _, ls := range mls {
		sb.WriteString(LineString(ls).SVG(s))
	}
	return sb.String()
}

func (mls MultiLineString) Bounds(s Style) ViewBox {
	var vb ViewBox
	for _, ls := range mls {
		vb = vb.Union(LineString(ls).Bounds(s))
	}
	return vb
}

type MultiPolygon orb.MultiPolygon

func (mp MultiPolygon) SVG(s Style) string {
	var sb strings.Builder
	for _, p := range mp {
		sb.WriteString(Polygon(p).SVG(s))
	}
	return sb.String()
}

func (mp MultiPolygon) Bounds(s Style) ViewBox {
	var vb ViewBox
	for _, p := range mp {
		vb = vb.Union(Polygon(p).Bounds(s))
	}
	return vb
}

// Collection renders a heterogeneous orb.Collection in order.
type Collection orb.Collection

func (c Collection) SVG(s Style) string {
	var sb strings.Builder
	for _, g := range c {
		sb.WriteString(Geometry(g).SVG(s))
	}
	return sb.String()
}

func (c Collection) Bounds(s Style) ViewBox {
	var vb ViewBox
	for _, g := range c {
		vb = vb.Union(Geometry(g).Bounds(s))
	}
	return vb
}

// Geometry adapts any orb geometry. Unknown or nil geometries render as
// nothing.
func Geometry(g orb.Geometry) Renderable {
	switch g := g.(type) {
	case orb.Point:
		return Point(g)
	case orb.MultiPoint:
		return MultiPoint(g)
	case orb.LineString:
		return LineString(g)
	case orb.MultiLineString:
		return MultiLineString(g)
	case orb.Ring:
		return Ring(g)
	case orb.Polygon:
		return Polygon(g)
	case orb.MultiPolygon:
		return MultiPolygon(g)
	case orb.Bound:
		return Rect(g)
	case orb.Collection:
		return Collection(g)
	default:
		return Group(nil)
	}
}
