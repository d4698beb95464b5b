package svg

import "strings"

// Renderable is anything that can be drawn into an SVG document.
//
// SVG returns the markup for the shape under the given style. Bounds returns
// the area the same markup covers, without building it. The two must agree.
type Renderable interface {
	SVG(style Style) string
	Bounds(style Style) ViewBox
}

// Group renders its members in order under a shared style.
type Group []Renderable

func (g Group) SVG(style Style) string {
	var sb strings.Builder
	for _, r := range g {
		sb.WriteString(r.SVG(style))
	}
	return sb.String()
}

func (g Group) Bounds(style Style) ViewBox {
	var vb ViewBox
	for _, r := range g {
		vb = vb.Union(r.Bounds(style))
	}
	return vb
}

// Renderables converts a typed slice into a Group.
func Renderables[T Renderable](items []T) Group {
	g := make(Group, len(items))
	for i, it := range items {
		g[i] = it
	}
	return g
}
