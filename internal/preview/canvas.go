package preview

import (
	"math"
	"sort"

	"github.com/paulmach/orb"

	"github.com/matzehuels/geosvg/pkg/svg"
)

// dotBits maps a dot's column and row inside a cell to its braille bit.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// canvas is a grid of braille cells. Each cell holds 2x4 dots, so a canvas
// of w by h cells addresses 2w by 4h dots.
type canvas struct {
	w, h  int
	cells [][]uint8
}

func newCanvas(w, h int) *canvas {
	cells := make([][]uint8, h)
	for i := range cells {
		cells[i] = make([]uint8, w)
	}
	return &canvas{w: w, h: h, cells: cells}
}

// set turns on the dot at (x, y). Dots outside the canvas are ignored.
func (c *canvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cx, cy := x/2, y/4
	if cx >= c.w || cy >= c.h {
		return
	}
	c.cells[cy][cx] |= dotBits[x%2][y%4]
}

// line draws from (x0, y0) to (x1, y1) with Bresenham's algorithm.
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// fill sets every dot inside rings under the even-odd rule, so inner rings
// become holes.
func (c *canvas) fill(rings [][]dot) {
	for y := 0; y < c.h*4; y++ {
		var xs []int
		for _, r := range rings {
			for i := range r {
				a, b := r[i], r[(i+1)%len(r)]
				if a.y == b.y {
					continue
				}
				if (y >= a.y && y < b.y) || (y >= b.y && y < a.y) {
					t := float64(y-a.y) / float64(b.y-a.y)
					xs = append(xs, a.x+int(math.Round(t*float64(b.x-a.x))))
				}
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := max(0, xs[i]); x <= xs[i+1] && x < c.w*2; x++ {
				c.set(x, y)
			}
		}
	}
}

// mask returns the dots set in cell (cx, cy).
func (c *canvas) mask(cx, cy int) uint8 {
	return c.cells[cy][cx]
}

// rows renders each row of cells as braille runes, blank cells as spaces.
func (c *canvas) rows() []string {
	out := make([]string, c.h)
	for y, row := range c.cells {
		out[y] = string(cellRunes(row))
	}
	return out
}

func cellRunes(masks []uint8) []rune {
	rs := make([]rune, len(masks))
	for i, m := range masks {
		rs[i] = brailleRune(m)
	}
	return rs
}

func brailleRune(m uint8) rune {
	if m == 0 {
		return ' '
	}
	return rune(0x2800 + int(m))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// =============================================================================
// Projection
// =============================================================================

type dot struct{ x, y int }

// projection maps user coordinates into canvas dots. The view box is fitted
// to the canvas keeping its aspect ratio and centered, then zoomed about the
// center and shifted by the pan offset. y grows downward, as in SVG.
type projection struct {
	minX, minY float64
	scale      float64
	offX, offY float64
}

func newProjection(vb svg.ViewBox, cols, rows int, zoom float64, pan dot) projection {
	dw, dh := float64(cols*2-1), float64(rows*4-1)
	vw, vh := float64(vb.Width()), float64(vb.Height())
	if vw <= 0 {
		vw = 1
	}
	if vh <= 0 {
		vh = 1
	}
	scale := math.Min(dw/vw, dh/vh) * zoom
	return projection{
		minX:  float64(vb.MinX()),
		minY:  float64(vb.MinY()),
		scale: scale,
		offX:  (dw-vw*scale)/2 + float64(pan.x),
		offY:  (dh-vh*scale)/2 + float64(pan.y),
	}
}

func (p projection) dot(pt orb.Point) dot {
	return dot{
		x: int(math.Round(p.offX + (pt[0]-p.minX)*p.scale)),
		y: int(math.Round(p.offY + (pt[1]-p.minY)*p.scale)),
	}
}

// draw plots g onto c. Polygons are filled when fill is set; their outline
// is always drawn.
func (c *canvas) draw(p projection, g orb.Geometry, fill bool) {
	switch g := g.(type) {
	case orb.Point:
		d := p.dot(g)
		c.set(d.x, d.y)
	case orb.MultiPoint:
		for _, pt := range g {
			c.draw(p, pt, fill)
		}
	case orb.LineString:
		c.polyline(p, g, false)
	case orb.MultiLineString:
		for _, ls := range g {
			c.polyline(p, ls, false)
		}
	case orb.Ring:
		c.polygon(p, orb.Polygon{g}, fill)
	case orb.Polygon:
		c.polygon(p, g, fill)
	case orb.MultiPolygon:
		for _, poly := range g {
			c.polygon(p, poly, fill)
		}
	case orb.Collection:
		for _, child := range g {
			c.draw(p, child, fill)
		}
	case orb.Bound:
		c.polygon(p, g.ToPolygon(), fill)
	}
}

func (c *canvas) polyline(p projection, pts []orb.Point, closed bool) {
	if len(pts) == 0 {
		return
	}
	prev := p.dot(pts[0])
	c.set(prev.x, prev.y)
	for _, pt := range pts[1:] {
		d := p.dot(pt)
		c.line(prev.x, prev.y, d.x, d.y)
		prev = d
	}
	if closed {
		first := p.dot(pts[0])
		c.line(prev.x, prev.y, first.x, first.y)
	}
}

func (c *canvas) polygon(p projection, poly orb.Polygon, fill bool) {
	if fill {
		rings := make([][]dot, 0, len(poly))
		for _, r := range poly {
			if len(r) < 3 {
				continue
			}
			ds := make([]dot, len(r))
			for i, pt := range r {
				ds[i] = p.dot(pt)
			}
			rings = append(rings, ds)
		}
		c.fill(rings)
	}
	for _, r := range poly {
		c.polyline(p, r, true)
	}
}
