package svg

import (
	"math"
	"strings"

	"github.com/paulmach/orb"
)

// arrowHeadAngle is the rotation of each head stroke away from the shaft
// direction, in degrees.
const arrowHeadAngle = 135.0

// Arrow is a line with a two-stroke head at its end. The head length is the
// style's effective radius. A zero-length arrow draws nothing.
type Arrow struct {
	Line
}

// NewArrow returns an arrow pointing from start to end.
func NewArrow(start, end orb.Point) Arrow {
	return Arrow{Line{Start: start, End: end}}
}

// lines returns the shaft followed by the two head strokes, or nil when the
// direction cannot be normalized.
func (a Arrow) lines(s Style) []Line {
	dx, dy := a.End[0]-a.Start[0], a.End[1]-a.Start[1]
	n := math.Hypot(dx, dy)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	dx, dy = dx/n, dy/n
	length := float64(s.EffectiveRadius())

	out := []Line{a.Line}
	for _, sign := range [...]float64{1, -1} {
		sin, cos := math.Sincos(sign * arrowHeadAngle * math.Pi / 180)
		hx := (dx*cos - dy*sin) * length
		hy := (dx*sin + dy*cos) * length
		out = append(out, Line{Start: a.End, End: orb.Point{a.End[0] + hx, a.End[1] + hy}})
	}
	return out
}

func (a Arrow) SVG(s Style) string {
	var sb strings.Builder
	for _, l := range a.lines(s) {
		sb.WriteString(l.SVG(s))
	}
	return sb.String()
}

// Bounds covers the shaft and both head strokes.
func (a Arrow) Bounds(s Style) ViewBox {
	var vb ViewBox
	for _, l := range a.lines(s) {
		vb = vb.Union(l.Bounds(s))
	}
	return vb
}
