package svg

import "fmt"

// bound is an optional scalar.
type bound struct {
	v  float32
	ok bool
}

func some(v float32) bound { return bound{v: v, ok: true} }

func (b bound) or0() float32 {
	if b.ok {
		return b.v
	}
	return 0
}

func minBound(a, b bound) bound {
	switch {
	case !a.ok:
		return b
	case !b.ok:
		return a
	case b.v < a.v:
		return b
	default:
		return a
	}
}

func maxBound(a, b bound) bound {
	switch {
	case !a.ok:
		return b
	case !b.ok:
		return a
	case b.v > a.v:
		return b
	default:
		return a
	}
}

// ViewBox accumulates the bounds of rendered content. The zero value is
// empty: no bound has been observed, and union with it is the identity.
type ViewBox struct {
	minX, minY, maxX, maxY bound
}

// NewViewBox returns a box with all four bounds set.
func NewViewBox(minX, minY, maxX, maxY float32) ViewBox {
	return ViewBox{some(minX), some(minY), some(maxX), some(maxY)}
}

// Union returns the smallest box enclosing both. Absent bounds do not
// constrain the result.
func (b ViewBox) Union(o ViewBox) ViewBox {
	return ViewBox{
		minX: minBound(b.minX, o.minX),
		minY: minBound(b.minY, o.minY),
		maxX: maxBound(b.maxX, o.maxX),
		maxY: maxBound(b.maxY, o.maxY),
	}
}

// WithMargin grows every present bound outward by m.
func (b ViewBox) WithMargin(m float32) ViewBox {
	if b.minX.ok {
		b.minX.v -= m
	}
	if b.minY.ok {
		b.minY.v -= m
	}
	if b.maxX.ok {
		b.maxX.v += m
	}
	if b.maxY.ok {
		b.maxY.v += m
	}
	return b
}

// IsEmpty reports whether nothing has been accumulated.
func (b ViewBox) IsEmpty() bool {
	return !b.minX.ok && !b.minY.ok && !b.maxX.ok && !b.maxY.ok
}

// MinX, MinY, MaxX and MaxY return 0 for an absent bound.
func (b ViewBox) MinX() float32 { return b.minX.or0() }
func (b ViewBox) MinY() float32 { return b.minY.or0() }
func (b ViewBox) MaxX() float32 { return b.maxX.or0() }
func (b ViewBox) MaxY() float32 { return b.maxY.or0() }

// Width is MaxX - MinX, 0 on an empty box.
func (b ViewBox) Width() float32 { return b.MaxX() - b.MinX() }

// Height is MaxY - MinY, 0 on an empty box.
func (b ViewBox) Height() float32 { return b.MaxY() - b.MinY() }

// String returns the viewBox attribute value "minX minY width height".
func (b ViewBox) String() string {
	return fmt.Sprintf("%s %s %s %s",
		formatScalar(b.MinX()), formatScalar(b.MinY()),
		formatScalar(b.Width()), formatScalar(b.Height()))
}
