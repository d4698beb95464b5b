package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/paulmach/orb"

	"github.com/matzehuels/geosvg/pkg/config"
	"github.com/matzehuels/geosvg/pkg/observability"
	"github.com/matzehuels/geosvg/pkg/svg"
)

// Compose builds one Part per layer and combines them in layer order.
//
// Layer styles are written on each shape. The scene style goes on the outer
// <svg> element, where SVG inheritance lets it fill in whatever a layer left
// unset. Radius and stroke width also change geometry and bounds, so a layer
// without its own takes the scene's value directly.
func Compose(ctx context.Context, sets []LayerSet, opts Options) (svg.Document, int, error) {
	hooks := observability.Pipeline()
	hooks.OnComposeStart(ctx, len(sets))
	start := time.Now()

	doc, shapes, err := compose(sets, opts)
	hooks.OnComposeComplete(ctx, shapes, time.Since(start), err)
	return doc, shapes, err
}

func compose(sets []LayerSet, opts Options) (svg.Document, int, error) {
	sceneStyle, err := opts.Style.ToStyle()
	if err != nil {
		return svg.Document{}, 0, fmt.Errorf("scene style: %w", err)
	}

	var (
		doc    svg.Document
		shapes int
	)
	for i, ls := range sets {
		part, err := composeLayer(ls, opts.Style, sceneStyle)
		if err != nil {
			return svg.Document{}, 0, fmt.Errorf("layer %q: %w", ls.Layer.Name, err)
		}
		shapes += part.Len()
		if i == 0 {
			doc = part.FinishShapes()
		} else {
			doc = doc.And(part.FinishShapes())
		}
	}

	doc = doc.UseStyle(sceneStyle)
	if opts.Margin > 0 {
		doc = doc.WithMargin(opts.Margin)
	}
	width, height, err := opts.Scene().Dimensions()
	if err != nil {
		return svg.Document{}, 0, err
	}
	if width != nil {
		doc = doc.WithWidth(*width)
	}
	if height != nil {
		doc = doc.WithHeight(*height)
	}
	return doc, shapes, nil
}

func composeLayer(ls LayerSet, scene config.StyleConfig, sceneStyle svg.Style) (svg.Part, error) {
	style, err := ls.Layer.Style.ToStyle()
	if err != nil {
		return svg.Part{}, err
	}
	if style.Radius == nil && sceneStyle.Radius != nil {
		style = style.WithRadius(*sceneStyle.Radius)
	}
	if style.StrokeWidth == nil && sceneStyle.StrokeWidth != nil {
		style = style.WithStrokeWidth(*sceneStyle.StrokeWidth)
	}

	flags := ls.Layer.Style.Or(scene)
	part := svg.NewStyleBuilder().UseStyle(style).FinishStyle()
	for _, f := range ls.Set.Features {
		part = part.AddShapes(shapesFor(f.Geometry, flags.Arrows)...)
	}
	if flags.Labels {
		for _, f := range ls.Set.Features {
			pos, ok := firstVertex(f.Geometry)
			if f.Label == "" || !ok {
				continue
			}
			text := svg.NewText(f.Label, pos)
			if flags.FontSize != nil {
				text = text.WithFontSize(*flags.FontSize)
			}
			part = part.AddShape(text)
		}
	}
	return part, nil
}

// shapesFor adapts g. With arrows on, line strings end in an arrow along
// their last segment.
func shapesFor(g orb.Geometry, arrows bool) []svg.Renderable {
	if !arrows {
		return []svg.Renderable{svg.Geometry(g)}
	}
	switch g := g.(type) {
	case orb.LineString:
		return arrowLine(g)
	case orb.MultiLineString:
		var out []svg.Renderable
		for _, ls := range g {
			out = append(out, arrowLine(ls)...)
		}
		return out
	}
	return []svg.Renderable{svg.Geometry(g)}
}

func arrowLine(ls orb.LineString) []svg.Renderable {
	n := len(ls)
	if n < 2 {
		return []svg.Renderable{svg.LineString(ls)}
	}
	arrow := svg.NewArrow(ls[n-2], ls[n-1])
	if n == 2 {
		return []svg.Renderable{arrow}
	}
	return []svg.Renderable{svg.LineString(ls[:n-1]), arrow}
}

func firstVertex(g orb.Geometry) (orb.Point, bool) {
	switch g := g.(type) {
	case orb.Point:
		return g, true
	case orb.MultiPoint:
		if len(g) > 0 {
			return g[0], true
		}
	case orb.LineString:
		if len(g) > 0 {
			return g[0], true
		}
	case orb.MultiLineString:
		if len(g) > 0 {
			return firstVertex(g[0])
		}
	case orb.Ring:
		if len(g) > 0 {
			return g[0], true
		}
	case orb.Polygon:
		if len(g) > 0 {
			return firstVertex(g[0])
		}
	case orb.MultiPolygon:
		if len(g) > 0 {
			return firstVertex(g[0])
		}
	case orb.Collection:
		for _, c := range g {
			if p, ok := firstVertex(c); ok {
				return p, true
			}
		}
	}
	return orb.Point{}, false
}
